package aggregate

import (
	"cmp"
	"slices"

	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

type categoryAcc struct {
	jobs         int64
	applications int64
}

// CategorySummary counts postings and sums applications per category,
// leaving out excluded categories. Rows are sorted by job count, largest
// first, ties in first-seen order. Categories without postings are absent.
func CategorySummary(postings []model.JobPosting, excluded filter.Set) []model.CategorySummary {
	g := newGroups[categoryAcc]()
	for _, p := range postings {
		if excluded.Has(p.Category) {
			continue
		}
		acc := g.at(p.Category)
		acc.jobs++
		acc.applications += p.NumApplications
	}

	out := make([]model.CategorySummary, 0, len(g.keys))
	for i, k := range g.keys {
		acc := g.vals[i]
		out = append(out, model.CategorySummary{
			Category:              k,
			TotalJobCount:         acc.jobs,
			TotalApplications:     acc.applications,
			AvgApplicationsPerJob: float64(acc.applications) / float64(acc.jobs),
		})
	}
	slices.SortStableFunc(out, func(a, b model.CategorySummary) int {
		return cmp.Compare(b.TotalJobCount, a.TotalJobCount)
	})
	return out
}

// Competitiveness ranks categories by applications per posting. It takes the
// n categories with the most postings and the n with the most applications,
// keeps those in both lists, and sorts them by the ratio, highest first.
func Competitiveness(summaries []model.CategorySummary, n int) []model.CategoryRatio {
	byJobs := TopNByMetric(summaries, n, func(s model.CategorySummary) float64 {
		return float64(s.TotalJobCount)
	})
	byApps := TopNByMetric(summaries, n, func(s model.CategorySummary) float64 {
		return float64(s.TotalApplications)
	})

	key := func(s model.CategorySummary) string { return s.Category }
	ratios := RatioJoin(byJobs, byApps, key, key,
		func(s model.CategorySummary) float64 { return float64(s.TotalApplications) },
		func(s model.CategorySummary) float64 { return float64(s.TotalJobCount) },
	)
	slices.SortStableFunc(ratios, func(a, b model.CategoryRatio) int {
		return cmp.Compare(b.Ratio, a.Ratio)
	})
	return ratios
}
