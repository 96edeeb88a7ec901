package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

// TopCategoriesByVacancies returns the k categories with the most vacancies,
// after dropping excluded ones. Ties keep first-seen order.
func TopCategoriesByVacancies(postings []model.JobPosting, k int, excluded filter.Set) []string {
	g := newGroups[int64]()
	for _, p := range postings {
		if excluded.Has(p.Category) {
			continue
		}
		*g.at(p.Category) += p.NumVacancies
	}

	type total struct {
		category  string
		vacancies int64
	}
	totals := make([]total, len(g.keys))
	for i, key := range g.keys {
		totals[i] = total{category: key, vacancies: g.vals[i]}
	}
	top := TopNByMetric(totals, k, func(t total) float64 { return float64(t.vacancies) })

	out := make([]string, len(top))
	for i, t := range top {
		out[i] = t.category
	}
	return out
}

// selectTop returns the postings that belong to the top-k vacancy categories.
func selectTop(postings []model.JobPosting, k int, excluded filter.Set) []model.JobPosting {
	top := TopCategoriesByVacancies(postings, k, excluded)
	keep := make(map[string]struct{}, len(top))
	for _, c := range top {
		keep[c] = struct{}{}
	}
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if _, ok := keep[p.Category]; ok {
			out = append(out, p)
		}
	}
	return out
}

type cellAcc struct {
	month        time.Time
	category     string
	applications int64
	vacancies    int64
}

func monthCategoryKey(month time.Time, category string) string {
	return month.Format(model.MonthLayout) + "\x00" + category
}

// sumByMonthCategory totals applications and vacancies per (month, category).
func sumByMonthCategory(postings []model.JobPosting) *groups[cellAcc] {
	g := newGroups[cellAcc]()
	for _, p := range postings {
		acc := g.at(monthCategoryKey(p.Month, p.Category))
		acc.month = p.Month
		acc.category = p.Category
		acc.applications += p.NumApplications
		acc.vacancies += p.NumVacancies
	}
	return g
}

// DemandVelocity computes the monthly bulk factor of the topK categories by
// vacancies. A month with no vacancies has a bulk factor of 0. Points are
// sorted by month, then category.
func DemandVelocity(postings []model.JobPosting, topK int, excluded filter.Set) []model.VelocityPoint {
	g := sumByMonthCategory(selectTop(postings, topK, excluded))

	out := make([]model.VelocityPoint, 0, len(g.vals))
	for _, acc := range g.vals {
		out = append(out, model.VelocityPoint{
			Month:           acc.month.Format(model.MonthLayout),
			Category:        acc.category,
			NumApplications: acc.applications,
			NumVacancies:    acc.vacancies,
			BulkFactor:      BulkFactor(acc.applications, acc.vacancies),
		})
	}
	slices.SortFunc(out, func(a, b model.VelocityPoint) int {
		if c := cmp.Compare(a.Month, b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// BulkHiringMatrix pivots the topK categories into a category × month grid of
// bulk factors. Categories are sorted by name. Months run without gaps from
// the earliest to the latest observed month. Cells with no postings or no
// vacancies are 0, so the grid never has a missing value.
func BulkHiringMatrix(postings []model.JobPosting, topK int, excluded filter.Set) model.BulkMatrix {
	selected := selectTop(postings, topK, excluded)
	if len(selected) == 0 {
		return model.BulkMatrix{Categories: []string{}, Months: []string{}, Values: [][]float64{}}
	}

	categories := Categories(selected)
	months := monthRange(selected)

	row := make(map[string]int, len(categories))
	for i, c := range categories {
		row[c] = i
	}
	col := make(map[string]int, len(months))
	for j, m := range months {
		col[m] = j
	}

	values := make([][]float64, len(categories))
	for i := range values {
		values[i] = make([]float64, len(months))
	}
	g := sumByMonthCategory(selected)
	for _, acc := range g.vals {
		values[row[acc.category]][col[acc.month.Format(model.MonthLayout)]] = BulkFactor(acc.applications, acc.vacancies)
	}

	return model.BulkMatrix{Categories: categories, Months: months, Values: values}
}

// monthRange lists every month from the earliest to the latest posting month.
func monthRange(postings []model.JobPosting) []string {
	first, last := postings[0].Month, postings[0].Month
	for _, p := range postings[1:] {
		if p.Month.Before(first) {
			first = p.Month
		}
		if p.Month.After(last) {
			last = p.Month
		}
	}
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []string
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format(model.MonthLayout))
	}
	return out
}
