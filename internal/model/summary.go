package model

// CategorySummary is the per-category demand summary.
// AvgApplicationsPerJob is TotalApplications / TotalJobCount; rows with a zero
// job count are never produced.
type CategorySummary struct {
	Category              string  `json:"category" yaml:"category"`
	TotalJobCount         int64   `json:"total_job_count" yaml:"total_job_count"`
	TotalApplications     int64   `json:"total_applications" yaml:"total_applications"`
	AvgApplicationsPerJob float64 `json:"avg_applications_per_job" yaml:"avg_applications_per_job"`
}

// CategoryRatio is one row of a ratio join.
type CategoryRatio struct {
	Key         string  `json:"key" yaml:"key"`
	Numerator   float64 `json:"numerator" yaml:"numerator"`
	Denominator float64 `json:"denominator" yaml:"denominator"`
	Ratio       float64 `json:"ratio" yaml:"ratio"`
}

// VelocityPoint is the bulk factor of one category in one month.
type VelocityPoint struct {
	Month           string  `json:"month" yaml:"month"`
	Category        string  `json:"category" yaml:"category"`
	NumApplications int64   `json:"num_applications" yaml:"num_applications"`
	NumVacancies    int64   `json:"num_vacancies" yaml:"num_vacancies"`
	BulkFactor      float64 `json:"bulk_factor" yaml:"bulk_factor"`
}

// MatrixCell is a flattened BulkMatrix entry.
type MatrixCell struct {
	Category   string  `json:"category" yaml:"category"`
	Month      string  `json:"month" yaml:"month"`
	BulkFactor float64 `json:"bulk_factor" yaml:"bulk_factor"`
}

// BulkMatrix is a dense category × month grid of bulk factors.
// Values[i][j] belongs to Categories[i] and Months[j]; no cell is ever absent.
type BulkMatrix struct {
	Categories []string    `json:"categories" yaml:"categories"`
	Months     []string    `json:"months" yaml:"months"`
	Values     [][]float64 `json:"values" yaml:"values"`
}

// Cells flattens the grid row by row.
func (m BulkMatrix) Cells() []MatrixCell {
	cells := make([]MatrixCell, 0, len(m.Categories)*len(m.Months))
	for i, c := range m.Categories {
		for j, month := range m.Months {
			cells = append(cells, MatrixCell{Category: c, Month: month, BulkFactor: m.Values[i][j]})
		}
	}
	return cells
}

// IsEmpty reports whether the grid has no cells.
func (m BulkMatrix) IsEmpty() bool {
	return len(m.Categories) == 0 || len(m.Months) == 0
}

// SkillTimelinePoint is the job count of one skill in one month.
type SkillTimelinePoint struct {
	Skill      string `json:"skill" yaml:"skill"`
	Month      string `json:"month" yaml:"month"`
	MonthLabel string `json:"month_label" yaml:"month_label"`
	JobCount   int64  `json:"job_count" yaml:"job_count"`
}

// SegmentVacancies is the vacancy total of one experience segment.
type SegmentVacancies struct {
	Segment      string `json:"exp_segment" yaml:"exp_segment"`
	Label        string `json:"label" yaml:"label"`
	NumVacancies int64  `json:"num_vacancies" yaml:"num_vacancies"`
}

// SalaryBox is a vacancy-weighted five-number salary summary for a segment.
// Samples is zero when no posting in the segment reports a salary; the
// quantiles are then zero too.
type SalaryBox struct {
	Segment        string  `json:"exp_segment" yaml:"exp_segment"`
	Label          string  `json:"label" yaml:"label"`
	Samples        int     `json:"samples" yaml:"samples"`
	TotalVacancies int64   `json:"total_vacancies" yaml:"total_vacancies"`
	Min            float64 `json:"min" yaml:"min"`
	Q1             float64 `json:"q1" yaml:"q1"`
	Median         float64 `json:"median" yaml:"median"`
	Q3             float64 `json:"q3" yaml:"q3"`
	Max            float64 `json:"max" yaml:"max"`
}

// Overview holds the headline figures of a dataset.
type Overview struct {
	Postings          int    `json:"postings" yaml:"postings"`
	Categories        int    `json:"categories" yaml:"categories"`
	FirstPosting      string `json:"first_posting" yaml:"first_posting"`
	LastPosting       string `json:"last_posting" yaml:"last_posting"`
	TotalVacancies    int64  `json:"total_vacancies" yaml:"total_vacancies"`
	TotalApplications int64  `json:"total_applications" yaml:"total_applications"`
	TotalViews        int64  `json:"total_views" yaml:"total_views"`
	SkippedRows       int    `json:"skipped_rows" yaml:"skipped_rows"`
}
