package main

import (
	"errors"
	"os"
	"time"

	"github.com/sgjobs/jobpulse/internal/dataset"
	"github.com/sgjobs/jobpulse/internal/model"
	"github.com/sgjobs/jobpulse/internal/store"
	"github.com/spf13/cobra"
)

var dbPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert the CSV datasets into a SQLite database",
	Long:  "Loads the postings (and skills, when present) datasets and writes them to the job_postings and skill_counts tables, replacing their contents.",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&dbPath, "db", "jobpulse.db", "SQLite database to write")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := cmd.Context()
	start := time.Now()
	loader := dataset.NewLoader(logger)

	table, err := loader.Load(ctx, cfg.Data.Postings)
	if err != nil {
		logger.Error("failed to load postings", "error", err)
		os.Exit(1)
	}

	// Skills are optional; an unavailable file leaves the table empty.
	skills, err := loader.LoadSkills(ctx, cfg.Data.Skills)
	if err != nil {
		if !errors.Is(err, model.ErrDataUnavailable) {
			logger.Error("failed to load skills", "error", err)
			os.Exit(1)
		}
		logger.Info("skills dataset unavailable, skipping", "path", cfg.Data.Skills)
		skills = nil
	}

	sqlStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	if err := sqlStore.ReplacePostings(ctx, table.Postings); err != nil {
		return err
	}
	if err := sqlStore.ReplaceSkills(ctx, skills); err != nil {
		return err
	}

	run, err := sqlStore.RecordImport(ctx, store.ImportRun{
		Postings:  cfg.Data.Postings,
		Skills:    skillsSource(skills, cfg.Data.Skills),
		Rows:      table.Len(),
		Skipped:   table.Skipped,
		SkillRows: len(skills),
	})
	if err != nil {
		return err
	}

	logger.Info("import complete",
		"id", run.ID,
		"db", dbPath,
		"postings", table.Len(),
		"skipped", table.Skipped,
		"skills", len(skills),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func skillsSource(skills []model.SkillCount, path string) string {
	if skills == nil {
		return ""
	}
	return path
}
