package tui

import (
	"context"
	"fmt"

	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/sgjobs/jobpulse/internal/model"
)

// Views is the subset of dashboard.Service the TUI reads from.
type Views interface {
	Sectors(ctx context.Context) ([]string, error)
	Overview(ctx context.Context) (dashboard.Result[model.Overview], error)
	Summary(ctx context.Context, q dashboard.Query) (dashboard.Result[dashboard.SummaryView], error)
	Velocity(ctx context.Context, q dashboard.Query) (dashboard.Result[[]model.VelocityPoint], error)
	Matrix(ctx context.Context, q dashboard.Query) (dashboard.Result[model.BulkMatrix], error)
	Skills(ctx context.Context, q dashboard.Query) (dashboard.Result[[]model.SkillTimelinePoint], error)
	Experience(ctx context.Context, q dashboard.Query) (dashboard.Result[dashboard.ExperienceView], error)
	Reload()
}

var _ Views = (*dashboard.Service)(nil)

// Snapshot holds every view for one sector selection.
type Snapshot struct {
	Sector     string
	Overview   dashboard.Result[model.Overview]
	Summary    dashboard.Result[dashboard.SummaryView]
	Velocity   dashboard.Result[[]model.VelocityPoint]
	Matrix     dashboard.Result[model.BulkMatrix]
	Skills     dashboard.Result[[]model.SkillTimelinePoint]
	Experience dashboard.Result[dashboard.ExperienceView]
}

// viewStep computes one view into a snapshot.
type viewStep struct {
	name string
	run  func(ctx context.Context, snap *Snapshot) error
}

// snapshotSteps lists the views in load order. The sector narrows the
// summary, skills and experience views; the sectoral views always span the
// top categories.
func snapshotSteps(v Views, sector string) []viewStep {
	q := dashboard.Query{Category: sector}
	return []viewStep{
		{"overview", func(ctx context.Context, s *Snapshot) (err error) {
			s.Overview, err = v.Overview(ctx)
			return err
		}},
		{"summary", func(ctx context.Context, s *Snapshot) (err error) {
			s.Summary, err = v.Summary(ctx, q)
			return err
		}},
		{"velocity", func(ctx context.Context, s *Snapshot) (err error) {
			s.Velocity, err = v.Velocity(ctx, dashboard.Query{})
			return err
		}},
		{"matrix", func(ctx context.Context, s *Snapshot) (err error) {
			s.Matrix, err = v.Matrix(ctx, dashboard.Query{})
			return err
		}},
		{"skills", func(ctx context.Context, s *Snapshot) (err error) {
			s.Skills, err = v.Skills(ctx, q)
			return err
		}},
		{"experience", func(ctx context.Context, s *Snapshot) (err error) {
			s.Experience, err = v.Experience(ctx, q)
			return err
		}},
	}
}

// LoadSnapshot computes all views for sector.
func LoadSnapshot(ctx context.Context, v Views, sector string) (*Snapshot, error) {
	snap := &Snapshot{Sector: sector}
	for _, step := range snapshotSteps(v, sector) {
		if err := step.run(ctx, snap); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return snap, nil
}
