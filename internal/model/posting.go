package model

import (
	"context"
	"time"
)

// MonthLayout is the wire format of a month bucket, e.g. "2024-01".
const MonthLayout = "2006-01"

// JobPosting is one row of the postings dataset. Exploded datasets carry one
// row per (category, posting) pair.
type JobPosting struct {
	JobID           string    // optional, empty when the source has no id column
	PostingDate     time.Time // parsed posting date
	Month           time.Time // PostingDate truncated to the first of its month, UTC
	Category        string
	MinExp          *float64 // years, nil when missing
	ExpSegment      string   // derived from MinExp, see experience.Classify
	NumApplications int64
	NumVacancies    int64
	NumViews        int64
	AverageSalary   *float64 // nil when missing
	Skill           string   // only set in the skills-enriched variant
}

// MonthKey returns the posting's month bucket in MonthLayout.
func (p JobPosting) MonthKey() string {
	return p.Month.Format(MonthLayout)
}

// SkillCount is one row of the pre-aggregated skills timeline.
type SkillCount struct {
	Skill    string    `json:"skill" yaml:"skill"`
	Month    time.Time `json:"-" yaml:"-"`
	Category string    `json:"category" yaml:"category"`
	JobCount int64     `json:"job_count" yaml:"job_count"`
}

// Table is the in-memory, read-only postings dataset produced by the loader.
type Table struct {
	Path     string
	Postings []JobPosting
	Skipped  int // rows dropped as malformed
	LoadedAt time.Time
}

// Len returns the number of usable postings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Postings)
}

// RawSource reads an untyped table from a backing file or database.
type RawSource interface {
	ReadTable(ctx context.Context) (*RawTable, error)
}

// RawTable is a source table before type coercion. Column names are
// normalized to snake_case by the source.
type RawTable struct {
	Source  string // file path or table name, used in error messages
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the table header contains name.
func (t *RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RawRow is one row keyed by column name. Line is the 1-based data row
// number used in MalformedRow errors.
type RawRow struct {
	Line   int
	Fields map[string]string
}
