// Package aggregate derives summary tables from the postings dataset.
//
// Every function is pure: inputs are never modified and identical inputs give
// identical outputs. Grouping records first-seen order and each result is
// sorted explicitly, so map iteration order never leaks into the output.
package aggregate

import (
	"cmp"
	"slices"

	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

// groups accumulates values per key in first-seen order.
type groups[V any] struct {
	index map[string]int
	keys  []string
	vals  []V
}

func newGroups[V any]() *groups[V] {
	return &groups[V]{index: make(map[string]int)}
}

// at returns the accumulator for key, creating it on first use.
func (g *groups[V]) at(key string) *V {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		var zero V
		g.vals = append(g.vals, zero)
	}
	return &g.vals[i]
}

// TopNByMetric returns the n rows with the largest metric, largest first.
// Ties keep their original order. n larger than len(rows) returns every row;
// n <= 0 returns none. rows is not modified.
func TopNByMetric[T any](rows []T, n int, metric func(T) float64) []T {
	if n <= 0 || len(rows) == 0 {
		return []T{}
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(metric(b), metric(a))
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// RatioJoin inner-joins a and b on their keys and divides a's numerator by
// b's denominator. Output follows a's order. Keys missing from either side and
// rows with a zero denominator are dropped. When b repeats a key, its first
// row is used.
func RatioJoin[A, B any](
	a []A,
	b []B,
	keyA func(A) string,
	keyB func(B) string,
	numerator func(A) float64,
	denominator func(B) float64,
) []model.CategoryRatio {
	right := make(map[string]B, len(b))
	for _, row := range b {
		k := keyB(row)
		if _, dup := right[k]; !dup {
			right[k] = row
		}
	}

	out := make([]model.CategoryRatio, 0, len(a))
	for _, row := range a {
		k := keyA(row)
		match, ok := right[k]
		if !ok {
			continue
		}
		den := denominator(match)
		if den == 0 {
			continue
		}
		num := numerator(row)
		out = append(out, model.CategoryRatio{Key: k, Numerator: num, Denominator: den, Ratio: num / den})
	}
	return out
}

// FilterCategory keeps postings of one category. "" and "All" keep everything.
func FilterCategory(postings []model.JobPosting, category string) []model.JobPosting {
	return filter.NewCategoryFilter(category, nil).Apply(postings)
}

// Categories returns the distinct categories in ascending order.
func Categories(postings []model.JobPosting) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range postings {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	slices.Sort(out)
	return out
}

// BulkFactor is applications per vacancy, or 0 when there are no vacancies.
func BulkFactor(applications, vacancies int64) float64 {
	if vacancies == 0 {
		return 0
	}
	return float64(applications) / float64(vacancies)
}
