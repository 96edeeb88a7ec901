package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/sgjobs/jobpulse/internal/config"
	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/sgjobs/jobpulse/internal/dataset"
	"github.com/sgjobs/jobpulse/internal/report"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	debug        bool
	outputFormat string
	postingsPath string
	skillsPath   string
)

var rootCmd = &cobra.Command{
	Use:   "jobpulse",
	Short: "Job market analytics over job-posting datasets",
	Long:  "JobPulse loads job-posting and skill datasets and reports demand, hiring velocity, skills and experience levels.",
	// `jobpulse` with no args shows the overview.
	RunE:         runOverview,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBPULSE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", string(report.FormatTable), "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&postingsPath, "postings", "", "postings dataset (.csv or .db), overrides data.postings")
	rootCmd.PersistentFlags().StringVar(&skillsPath, "skills", "", "skills dataset (.csv or .db), overrides data.skills")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBPULSE_CONFIG env var > "./config.yaml".
// Only the implicit default may be missing; built-in defaults are used then.
func loadConfig(path string) (*config.Config, error) {
	allowMissing := false
	if path == "" {
		if env := os.Getenv("JOBPULSE_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
			allowMissing = true
		}
	}
	cfg, err := config.LoadOrDefault(path, allowMissing)
	if err != nil {
		return nil, err
	}
	if postingsPath != "" {
		cfg.Data.Postings = postingsPath
	}
	if skillsPath != "" {
		cfg.Data.Skills = skillsPath
	}
	return cfg, nil
}

// setupLogger logs to stderr so encoded output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// setup loads the config and builds the service and report writer shared by
// every report command. Config errors are fatal.
func setup(logger *slog.Logger) (*dashboard.Service, *report.Writer) {
	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		logger.Error("invalid flag", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("config file not found", "error", err)
		} else {
			logger.Error("failed to load config", "error", err)
		}
		os.Exit(1)
	}
	logger.Debug("config loaded",
		"postings", cfg.Data.Postings,
		"skills", cfg.Data.Skills,
		"cache_ttl", cfg.CacheTTL.String(),
		"excluded_categories", len(cfg.ExcludedCategories),
	)

	svc := dashboard.NewService(cfg, dataset.NewLoader(logger), logger)
	return svc, report.NewWriter(os.Stdout, format)
}
