package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sgjobs/jobpulse/internal/experience"
	"github.com/sgjobs/jobpulse/internal/model"
)

// Posting columns.
const (
	ColJobID           = "job_id"
	ColPostingDate     = "posting_date"
	ColCategory        = "category"
	ColCategories      = "categories"
	ColMinExp          = "min_exp"
	ColNumApplications = "num_applications"
	ColNumVacancies    = "num_vacancies"
	ColNumViews        = "num_views"
	ColAverageSalary   = "average_salary"
	ColSkill           = "skill"
)

// Skill timeline columns.
const (
	ColMonth    = "month"
	ColJobCount = "job_count"
)

// columnAliases maps alternative header names onto the canonical ones.
var columnAliases = map[string]string{
	"average_salary_cleaned": ColAverageSalary,
	"month_year":             ColMonth,
	"year_month":             ColMonth,
	"category_name":          ColCategory,
}

var requiredPostingColumns = []string{ColPostingDate, ColMinExp, ColNumApplications, ColNumVacancies}

var requiredSkillColumns = []string{ColSkill, ColMonth, ColJobCount}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006/01/02",
}

var errEmptyCategory = errors.New("category is empty")

// canonicalize rewrites aliased columns in place. An alias is ignored when the
// canonical column is also present.
func canonicalize(t *model.RawTable) {
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}
	renames := make(map[string]string)
	for i, c := range t.Columns {
		canon, ok := columnAliases[c]
		if !ok || present[canon] {
			continue
		}
		t.Columns[i] = canon
		present[canon] = true
		renames[c] = canon
	}
	if len(renames) == 0 {
		return
	}
	for _, row := range t.Rows {
		for from, to := range renames {
			if v, ok := row.Fields[from]; ok {
				row.Fields[to] = v
				delete(row.Fields, from)
			}
		}
	}
}

// checkPostingSchema fails when a required posting column is absent.
func checkPostingSchema(t *model.RawTable) error {
	for _, c := range requiredPostingColumns {
		if !t.HasColumn(c) {
			return model.MissingColumn(t.Source, c)
		}
	}
	if !t.HasColumn(ColCategory) && !t.HasColumn(ColCategories) {
		return model.MissingColumn(t.Source, ColCategory)
	}
	return nil
}

func checkSkillSchema(t *model.RawTable) error {
	for _, c := range requiredSkillColumns {
		if !t.HasColumn(c) {
			return model.MissingColumn(t.Source, c)
		}
	}
	return nil
}

// coercePosting turns one raw row into a normalized posting.
func coercePosting(source string, row model.RawRow) (model.JobPosting, error) {
	var p model.JobPosting
	f := row.Fields
	fail := func(col string, err error) (model.JobPosting, error) {
		return model.JobPosting{}, model.Malformed(source, row.Line, col, err)
	}

	date, err := parseDate(f[ColPostingDate])
	if err != nil {
		return fail(ColPostingDate, err)
	}
	p.PostingDate = date
	p.Month = MonthStart(date)

	category, err := categoryOf(f)
	if err != nil {
		return fail(ColCategory, err)
	}
	p.Category = category

	if p.MinExp, err = parseNullableFloat(f[ColMinExp]); err != nil {
		return fail(ColMinExp, err)
	}
	p.ExpSegment = string(experience.Classify(p.MinExp))

	if p.NumApplications, err = parseCount(f[ColNumApplications], true); err != nil {
		return fail(ColNumApplications, err)
	}
	if p.NumVacancies, err = parseCount(f[ColNumVacancies], true); err != nil {
		return fail(ColNumVacancies, err)
	}
	if p.NumViews, err = parseCount(f[ColNumViews], false); err != nil {
		return fail(ColNumViews, err)
	}
	if p.AverageSalary, err = parseNullableFloat(f[ColAverageSalary]); err != nil {
		return fail(ColAverageSalary, err)
	}

	p.JobID = f[ColJobID]
	p.Skill = f[ColSkill]
	return p, nil
}

func coerceSkill(source string, row model.RawRow) (model.SkillCount, error) {
	f := row.Fields
	skill := strings.TrimSpace(f[ColSkill])
	if skill == "" {
		return model.SkillCount{}, model.Malformed(source, row.Line, ColSkill, errors.New("skill is empty"))
	}
	month, err := parseDate(f[ColMonth])
	if err != nil {
		return model.SkillCount{}, model.Malformed(source, row.Line, ColMonth, err)
	}
	count, err := parseCount(f[ColJobCount], true)
	if err != nil {
		return model.SkillCount{}, model.Malformed(source, row.Line, ColJobCount, err)
	}
	category := strings.TrimSpace(f[ColCategory])
	if isNull(category) {
		category = ""
	}
	return model.SkillCount{Skill: skill, Month: MonthStart(month), Category: category, JobCount: count}, nil
}

// MonthStart truncates t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return time.Time{}, errors.New("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// categoryOf reads the category column, falling back to the first entry of a
// JSON "categories" array such as [{"id":1,"category":"Engineering"}].
func categoryOf(f map[string]string) (string, error) {
	if c := strings.TrimSpace(f[ColCategory]); c != "" && !isNull(c) {
		return c, nil
	}
	raw := strings.TrimSpace(f[ColCategories])
	if raw == "" || isNull(raw) {
		return "", errEmptyCategory
	}
	var entries []struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return "", fmt.Errorf("parse categories: %w", err)
	}
	if len(entries) == 0 || strings.TrimSpace(entries[0].Category) == "" {
		return "", errEmptyCategory
	}
	return strings.TrimSpace(entries[0].Category), nil
}

// parseCount parses a non-negative integer. Integral floats such as "12.0"
// are accepted because dataframe exports write counts that way. An empty
// optional value is zero.
func parseCount(s string, required bool) (int64, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		if required {
			return 0, errors.New("value is empty")
		}
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %v", v)
	}
	if v >= math.MaxInt64 {
		return 0, fmt.Errorf("count %v out of range", v)
	}
	return int64(v), nil
}

// parseNullableFloat returns nil for empty and null markers.
func parseNullableFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if isNull(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "nat", "<na>":
		return true
	}
	return false
}
