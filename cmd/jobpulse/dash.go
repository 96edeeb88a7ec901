package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/sgjobs/jobpulse/internal/dataset"
	"github.com/sgjobs/jobpulse/internal/tui"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Browse the dashboard interactively (TUI)",
	Long:  "Shows the sector picker, then the tabbed dashboard view for the chosen sector.",
	RunE:  runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Log output during the TUI would corrupt the alt screen.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := dashboard.NewService(cfg, dataset.NewLoader(silentLogger), silentLogger)
	return tui.Run(cmd.Context(), svc, silentLogger)
}
