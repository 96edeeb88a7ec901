package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sgjobs/jobpulse/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the imports recorded in a database",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&dbPath, "db", "jobpulse.db", "SQLite database to read")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	sqlStore, err := store.OpenReadOnly(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	runs, err := sqlStore.Imports(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%-36s  %-20s  %8s  %8s  %8s  %s\n", "ID", "Imported", "Rows", "Skipped", "Skills", "Source")
	fmt.Println(strings.Repeat("─", 110))
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %8d  %8d  %8d  %s\n",
			r.ID, r.ImportedAt.Format("2006-01-02 15:04:05"), r.Rows, r.Skipped, r.SkillRows, r.Postings)
	}
	fmt.Printf("\nTotal: %d imports\n", len(runs))
	return nil
}
