package filter

import (
	"strings"

	"github.com/sgjobs/jobpulse/internal/model"
)

// AllCategories is the selector value that disables category filtering.
const AllCategories = "All"

// Set is a case-insensitive set of category names.
type Set map[string]struct{}

// NewSet builds a Set from names. Surrounding whitespace is ignored.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether name is in the set. A nil Set contains nothing.
func (s Set) Has(name string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// CategoryFilter matches postings by category. An include category of "" or
// "All" passes every posting; excluded categories never pass.
type CategoryFilter struct {
	include  string
	excluded Set
}

// NewCategoryFilter returns a filter that keeps include (or everything when
// include is empty/"All") minus the excluded categories.
func NewCategoryFilter(include string, excluded Set) *CategoryFilter {
	include = strings.TrimSpace(include)
	if strings.EqualFold(include, AllCategories) {
		include = ""
	}
	return &CategoryFilter{include: include, excluded: excluded}
}

// Match returns true if the posting's category passes the filter.
// Matching is case-insensitive.
func (f *CategoryFilter) Match(p model.JobPosting) bool {
	return f.MatchCategory(p.Category)
}

// MatchCategory is Match on a bare category name.
func (f *CategoryFilter) MatchCategory(category string) bool {
	if f.excluded.Has(category) {
		return false
	}
	if f.include != "" && !strings.EqualFold(strings.TrimSpace(category), f.include) {
		return false
	}
	return true
}

// Apply returns the postings that match, in their original order. The input
// slice is not modified.
func (f *CategoryFilter) Apply(postings []model.JobPosting) []model.JobPosting {
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
