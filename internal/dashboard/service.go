// Package dashboard serves the aggregate views. It owns the dataset caches and
// turns missing data into empty results with a notice, so callers never fail
// on a missing file.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sgjobs/jobpulse/internal/aggregate"
	"github.com/sgjobs/jobpulse/internal/config"
	"github.com/sgjobs/jobpulse/internal/dataset"
	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

// Result is a view plus an informational notice. Notice is set when the
// backing data is unavailable; Data is then the empty view.
type Result[T any] struct {
	Data   T      `json:"data" yaml:"data"`
	Notice string `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Query holds per-request parameters. Zero values take the configured defaults.
type Query struct {
	Top      int
	Category string   // "" or "All" for every category
	Excluded []string // nil uses the configured exclusions
}

// SummaryView is the category demand view.
type SummaryView struct {
	Categories      []model.CategorySummary `json:"categories" yaml:"categories"`
	Competitiveness []model.CategoryRatio   `json:"competitiveness" yaml:"competitiveness"`
}

// ExperienceView is the experience-level view.
type ExperienceView struct {
	Category     string                   `json:"category" yaml:"category"`
	Distribution []model.SegmentVacancies `json:"distribution" yaml:"distribution"`
	Salary       []model.SalaryBox        `json:"salary" yaml:"salary"`
}

// Service computes views from the cached datasets.
type Service struct {
	cfg      *config.Config
	postings *dataset.Cache[*model.Table]
	skills   *dataset.Cache[[]model.SkillCount]
	logger   *slog.Logger
}

// NewService wires the caches to loader. opts are passed to both caches.
func NewService(cfg *config.Config, loader *dataset.Loader, logger *slog.Logger, opts ...dataset.CacheOption) *Service {
	opts = append([]dataset.CacheOption{dataset.WithLogger(logger)}, opts...)
	return &Service{
		cfg:      cfg,
		postings: dataset.NewCache[*model.Table](cfg.CacheTTL, loader.Load, opts...),
		skills:   dataset.NewCache[[]model.SkillCount](cfg.CacheTTL, loader.LoadSkills, opts...),
		logger:   logger,
	}
}

// Table returns the cached postings table. A missing file yields an empty
// table and a notice.
func (s *Service) Table(ctx context.Context) (*model.Table, string, error) {
	t, err := s.postings.Get(ctx, s.cfg.Data.Postings)
	if err != nil {
		notice, err := s.degrade("postings", s.cfg.Data.Postings, err)
		return &model.Table{Path: s.cfg.Data.Postings}, notice, err
	}
	return t, "", nil
}

func (s *Service) skillCounts(ctx context.Context) ([]model.SkillCount, string, error) {
	sc, err := s.skills.Get(ctx, s.cfg.Data.Skills)
	if err != nil {
		notice, err := s.degrade("skills", s.cfg.Data.Skills, err)
		return nil, notice, err
	}
	return sc, "", nil
}

// degrade converts DataUnavailable into a notice. Other errors pass through.
func (s *Service) degrade(what, path string, err error) (string, error) {
	if !errors.Is(err, model.ErrDataUnavailable) {
		return "", err
	}
	s.logger.Info("dataset unavailable", "dataset", what, "path", path, "error", err)
	return fmt.Sprintf("%s data not available (%s).", what, path), nil
}

// Reload drops the cached datasets so the next view reads the files again.
func (s *Service) Reload() {
	s.postings.Invalidate()
	s.skills.Invalidate()
}

func (s *Service) excluded(q Query, fallback []string) filter.Set {
	if q.Excluded != nil {
		return filter.NewSet(q.Excluded...)
	}
	return filter.NewSet(fallback...)
}

func top(q Query, fallback int) int {
	if q.Top > 0 {
		return q.Top
	}
	return fallback
}

// Overview returns the headline figures of the postings dataset.
func (s *Service) Overview(ctx context.Context) (Result[model.Overview], error) {
	t, notice, err := s.Table(ctx)
	if err != nil {
		return Result[model.Overview]{}, err
	}
	return Result[model.Overview]{Data: aggregate.Summarize(t), Notice: notice}, nil
}

// Sectors lists the categories available for the sector filter.
func (s *Service) Sectors(ctx context.Context) ([]string, error) {
	t, _, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Categories(t.Postings), nil
}

// Summary returns the category summary and the competitiveness ranking, each
// limited to the top q.Top categories.
func (s *Service) Summary(ctx context.Context, q Query) (Result[SummaryView], error) {
	t, notice, err := s.Table(ctx)
	if err != nil {
		return Result[SummaryView]{}, err
	}
	n := top(q, s.cfg.Top.Summary)
	postings := aggregate.FilterCategory(t.Postings, q.Category)
	all := aggregate.CategorySummary(postings, s.excluded(q, s.cfg.ExcludedCategories))

	view := SummaryView{
		Categories:      aggregate.TopNByMetric(all, n, func(c model.CategorySummary) float64 { return float64(c.TotalJobCount) }),
		Competitiveness: aggregate.Competitiveness(all, n),
	}
	return Result[SummaryView]{Data: view, Notice: notice}, nil
}

// Velocity returns the demand velocity of the top q.Top categories.
func (s *Service) Velocity(ctx context.Context, q Query) (Result[[]model.VelocityPoint], error) {
	t, notice, err := s.Table(ctx)
	if err != nil {
		return Result[[]model.VelocityPoint]{}, err
	}
	points := aggregate.DemandVelocity(t.Postings, top(q, s.cfg.Top.Velocity), s.excluded(q, s.cfg.VelocityExcluded))
	return Result[[]model.VelocityPoint]{Data: points, Notice: notice}, nil
}

// Matrix returns the bulk hiring map of the top q.Top categories.
func (s *Service) Matrix(ctx context.Context, q Query) (Result[model.BulkMatrix], error) {
	t, notice, err := s.Table(ctx)
	if err != nil {
		return Result[model.BulkMatrix]{}, err
	}
	m := aggregate.BulkHiringMatrix(t.Postings, top(q, s.cfg.Top.Matrix), s.excluded(q, s.cfg.VelocityExcluded))
	return Result[model.BulkMatrix]{Data: m, Notice: notice}, nil
}

// Skills returns the skill timeline of the top q.Top skills in q.Category.
// When the skills file is unavailable but the postings carry a skill column,
// the timeline is derived from the postings instead.
func (s *Service) Skills(ctx context.Context, q Query) (Result[[]model.SkillTimelinePoint], error) {
	counts, notice, err := s.skillCounts(ctx)
	if err != nil {
		return Result[[]model.SkillTimelinePoint]{}, err
	}
	if notice != "" {
		t, _, err := s.Table(ctx)
		if err != nil {
			return Result[[]model.SkillTimelinePoint]{}, err
		}
		if derived := aggregate.SkillCountsFromPostings(t.Postings); len(derived) > 0 {
			s.logger.Debug("deriving skills from postings", "rows", len(derived))
			counts, notice = derived, ""
		}
	}
	points := aggregate.SkillTimeline(counts, top(q, s.cfg.Top.Skills), q.Category)
	return Result[[]model.SkillTimelinePoint]{Data: points, Notice: notice}, nil
}

// SkillSectors lists the categories present in the skills dataset.
func (s *Service) SkillSectors(ctx context.Context) ([]string, error) {
	counts, _, err := s.skillCounts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range counts {
		if _, ok := seen[c.Category]; ok || c.Category == "" {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	slices.Sort(out)
	return out, nil
}

// Experience returns the vacancy distribution and salary spread by experience
// segment within q.Category.
func (s *Service) Experience(ctx context.Context, q Query) (Result[ExperienceView], error) {
	t, notice, err := s.Table(ctx)
	if err != nil {
		return Result[ExperienceView]{}, err
	}
	postings := aggregate.FilterCategory(t.Postings, q.Category)
	category := q.Category
	if category == "" {
		category = filter.AllCategories
	}

	view := ExperienceView{Category: category}
	if len(postings) > 0 {
		view.Distribution = aggregate.ExperienceDistribution(postings)
		view.Salary = aggregate.SalaryByExperience(postings, s.cfg.SalaryWeightCap)
	}
	return Result[ExperienceView]{Data: view, Notice: notice}, nil
}
