package main

import (
	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	topN       int
	sector     string
	excluded   []string
	noExcluded bool
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Print headline figures of the postings dataset",
	RunE:  runOverview,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Jobs and applications by category, plus competitiveness",
	Long:  "Prints the top categories by job count and the applications-per-job ranking among the busiest categories.",
	RunE:  runSummary,
}

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Monthly bulk hiring factor of the top categories",
	RunE:  runVelocity,
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Category × month bulk hiring map",
	RunE:  runMatrix,
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Monthly demand of the top skills",
	RunE:  runSkills,
}

var experienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Vacancies and salary spread by experience level",
	RunE:  runExperience,
}

func init() {
	for _, c := range []*cobra.Command{summaryCmd, velocityCmd, matrixCmd, skillsCmd} {
		c.Flags().IntVarP(&topN, "top", "n", 0, "number of entries to show (default from config)")
	}
	for _, c := range []*cobra.Command{summaryCmd, skillsCmd, experienceCmd} {
		c.Flags().StringVarP(&sector, "sector", "s", "", "restrict to one category (default: All)")
	}
	for _, c := range []*cobra.Command{summaryCmd, velocityCmd, matrixCmd} {
		c.Flags().StringSliceVarP(&excluded, "exclude", "x", nil, "categories to leave out (default from config)")
		c.Flags().BoolVar(&noExcluded, "no-exclude", false, "include every category")
	}
	rootCmd.AddCommand(overviewCmd, summaryCmd, velocityCmd, matrixCmd, skillsCmd, experienceCmd)
}

// query builds the per-command query from the flags.
func query(cmd *cobra.Command) dashboard.Query {
	q := dashboard.Query{Top: topN, Category: sector}
	switch {
	case noExcluded:
		q.Excluded = []string{}
	case cmd.Flags().Changed("exclude"):
		q.Excluded = excluded
	}
	return q
}

func runOverview(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Overview(cmd.Context())
	if err != nil {
		return err
	}
	return w.Overview(res)
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Summary(cmd.Context(), query(cmd))
	if err != nil {
		return err
	}
	return w.Summary(res)
}

func runVelocity(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Velocity(cmd.Context(), query(cmd))
	if err != nil {
		return err
	}
	return w.Velocity(res)
}

func runMatrix(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Matrix(cmd.Context(), query(cmd))
	if err != nil {
		return err
	}
	return w.Matrix(res)
}

func runSkills(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Skills(cmd.Context(), query(cmd))
	if err != nil {
		return err
	}
	return w.Skills(res)
}

func runExperience(cmd *cobra.Command, args []string) error {
	svc, w := setup(setupLogger(debug))
	res, err := svc.Experience(cmd.Context(), query(cmd))
	if err != nil {
		return err
	}
	return w.Experience(res)
}
