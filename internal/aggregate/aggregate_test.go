package aggregate

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/sgjobs/jobpulse/internal/experience"
	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

// --- Fixtures ---

func month(s string) time.Time {
	t, err := time.Parse(model.MonthLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fptr(v float64) *float64 { return &v }

// post builds a posting dated on the first of the given month.
func post(category, m string, apps, vacs int64) model.JobPosting {
	return model.JobPosting{
		PostingDate:     month(m),
		Month:           month(m),
		Category:        category,
		NumApplications: apps,
		NumVacancies:    vacs,
		ExpSegment:      string(experience.Unsegmented),
	}
}

func withExp(p model.JobPosting, years float64, salary *float64) model.JobPosting {
	p.MinExp = fptr(years)
	p.ExpSegment = string(experience.ClassifyValue(years))
	p.AverageSalary = salary
	return p
}

func sampleTable() []model.JobPosting {
	return []model.JobPosting{
		post("IT", "2024-01", 10, 5),
		post("IT", "2024-02", 0, 0),
		post("Engineering", "2024-01", 30, 3),
		post("Others", "2024-01", 100, 50),
		post("Healthcare", "2024-03", 8, 2),
		post("Engineering", "2024-03", 6, 1),
		post("IT", "2024-03", 4, 4),
	}
}

// --- TopNByMetric ---

func TestTopNByMetric(t *testing.T) {
	type row struct {
		name  string
		score float64
	}
	metric := func(r row) float64 { return r.score }
	rows := []row{{"a", 1}, {"b", 3}, {"c", 3}, {"d", 2}}

	tests := []struct {
		name string
		in   []row
		n    int
		want []string
	}{
		{name: "top two with tie kept in order", in: rows, n: 2, want: []string{"b", "c"}},
		{name: "all rows sorted stable", in: rows, n: 4, want: []string{"b", "c", "d", "a"}},
		{name: "n larger than rows returns all in original order", in: []row{{"x", 5}, {"y", 5}}, n: 3, want: []string{"x", "y"}},
		{name: "zero n returns none", in: rows, n: 0, want: []string{}},
		{name: "empty input", in: nil, n: 3, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopNByMetric(tt.in, tt.n, metric)
			names := make([]string, len(got))
			for i, r := range got {
				names[i] = r.name
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("TopNByMetric() = %v, want %v", names, tt.want)
			}
		})
	}

	if rows[0].name != "a" || rows[1].name != "b" {
		t.Errorf("input was reordered: %v", rows)
	}
}

// --- RatioJoin ---

func TestRatioJoin(t *testing.T) {
	type kv struct {
		k string
		v float64
	}
	key := func(r kv) string { return r.k }
	val := func(r kv) float64 { return r.v }
	a := []kv{{"x", 10}, {"y", 5}, {"z", 7}, {"only-a", 1}}
	b := []kv{{"z", 2}, {"x", 4}, {"y", 0}, {"only-b", 9}}

	got := RatioJoin(a, b, key, key, val, val)
	want := []model.CategoryRatio{
		{Key: "x", Numerator: 10, Denominator: 4, Ratio: 2.5},
		{Key: "z", Numerator: 7, Denominator: 2, Ratio: 3.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RatioJoin() = %+v, want %+v", got, want)
	}
	for _, r := range got {
		if math.IsNaN(r.Ratio) || math.IsInf(r.Ratio, 0) {
			t.Errorf("ratio for %s is not finite: %v", r.Key, r.Ratio)
		}
	}
}

// --- CategorySummary ---

func TestCategorySummary(t *testing.T) {
	postings := sampleTable()
	got := CategorySummary(postings, filter.NewSet("Others"))

	want := []model.CategorySummary{
		{Category: "IT", TotalJobCount: 3, TotalApplications: 14, AvgApplicationsPerJob: 14.0 / 3},
		{Category: "Engineering", TotalJobCount: 2, TotalApplications: 36, AvgApplicationsPerJob: 18},
		{Category: "Healthcare", TotalJobCount: 1, TotalApplications: 8, AvgApplicationsPerJob: 8},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CategorySummary() = %+v, want %+v", got, want)
	}

	var total int64
	for _, s := range got {
		if s.TotalJobCount < 1 {
			t.Errorf("%s: total_job_count = %d, want >= 1", s.Category, s.TotalJobCount)
		}
		if s.TotalApplications < 0 {
			t.Errorf("%s: total_applications = %d, want >= 0", s.Category, s.TotalApplications)
		}
		if diff := s.AvgApplicationsPerJob - float64(s.TotalApplications)/float64(s.TotalJobCount); math.Abs(diff) > 1e-9 {
			t.Errorf("%s: avg mismatch by %v", s.Category, diff)
		}
		total += s.TotalJobCount
	}
	if total > int64(len(postings)) {
		t.Errorf("sum of job counts %d exceeds input rows %d", total, len(postings))
	}
}

func TestCategorySummary_AllExcludedIsEmpty(t *testing.T) {
	got := CategorySummary([]model.JobPosting{post("Others", "2024-01", 1, 1)}, filter.NewSet("others"))
	if len(got) != 0 {
		t.Errorf("CategorySummary() = %+v, want empty", got)
	}
}

func TestCompetitiveness(t *testing.T) {
	summaries := []model.CategorySummary{
		{Category: "A", TotalJobCount: 10, TotalApplications: 20},
		{Category: "B", TotalJobCount: 8, TotalApplications: 80},
		{Category: "C", TotalJobCount: 1, TotalApplications: 90},
		{Category: "D", TotalJobCount: 5, TotalApplications: 1},
	}
	// Top 2 by jobs: A, B. Top 2 by applications: C, B. Only B is in both.
	got := Competitiveness(summaries, 2)
	if len(got) != 1 || got[0].Key != "B" || got[0].Ratio != 10 {
		t.Errorf("Competitiveness() = %+v, want B with ratio 10", got)
	}

	got = Competitiveness(summaries, 4)
	wantOrder := []string{"C", "B", "A", "D"}
	for i, r := range got {
		if r.Key != wantOrder[i] {
			t.Errorf("Competitiveness()[%d] = %s, want %s", i, r.Key, wantOrder[i])
		}
	}
}

// --- DemandVelocity ---

func TestDemandVelocity_ZeroVacanciesScenario(t *testing.T) {
	postings := []model.JobPosting{
		post("IT", "2024-01", 10, 5),
		post("IT", "2024-02", 0, 0),
	}
	got := DemandVelocity(postings, 10, nil)
	want := []model.VelocityPoint{
		{Month: "2024-01", Category: "IT", NumApplications: 10, NumVacancies: 5, BulkFactor: 2.0},
		{Month: "2024-02", Category: "IT", NumApplications: 0, NumVacancies: 0, BulkFactor: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DemandVelocity() = %+v, want %+v", got, want)
	}
}

func TestDemandVelocity_TopKAndExclusion(t *testing.T) {
	got := DemandVelocity(sampleTable(), 2, filter.NewSet("Others"))

	// Vacancies: IT 9, Engineering 4, Healthcare 2; Others excluded.
	for _, p := range got {
		if p.Category != "IT" && p.Category != "Engineering" {
			t.Errorf("unexpected category %q in top 2", p.Category)
		}
		if p.NumVacancies == 0 && p.BulkFactor != 0 {
			t.Errorf("%s %s: bulk_factor = %v with zero vacancies", p.Category, p.Month, p.BulkFactor)
		}
		if math.IsNaN(p.BulkFactor) {
			t.Errorf("%s %s: bulk_factor is NaN", p.Category, p.Month)
		}
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5: %+v", len(got), got)
	}
	if got[0].Month != "2024-01" || got[0].Category != "Engineering" || got[0].BulkFactor != 10 {
		t.Errorf("first point = %+v, want Engineering 2024-01 bulk 10", got[0])
	}
}

// --- BulkHiringMatrix ---

func TestBulkHiringMatrix_DenseGrid(t *testing.T) {
	postings := []model.JobPosting{
		post("IT", "2024-01", 10, 5),
		post("Engineering", "2024-03", 9, 3),
		post("IT", "2024-03", 5, 0),
		post("Others", "2024-02", 99, 99),
	}
	m := BulkHiringMatrix(postings, 12, filter.NewSet("Others"))

	if !reflect.DeepEqual(m.Categories, []string{"Engineering", "IT"}) {
		t.Errorf("Categories = %v", m.Categories)
	}
	if !reflect.DeepEqual(m.Months, []string{"2024-01", "2024-02", "2024-03"}) {
		t.Errorf("Months = %v", m.Months)
	}
	want := [][]float64{
		{0, 0, 3},
		{2, 0, 0},
	}
	if !reflect.DeepEqual(m.Values, want) {
		t.Errorf("Values = %v, want %v", m.Values, want)
	}
	if n := len(m.Cells()); n != len(m.Categories)*len(m.Months) {
		t.Errorf("Cells() has %d entries, want %d", n, len(m.Categories)*len(m.Months))
	}
}

func TestBulkHiringMatrix_Empty(t *testing.T) {
	m := BulkHiringMatrix(nil, 12, nil)
	if !m.IsEmpty() || m.Categories == nil || m.Months == nil {
		t.Errorf("BulkHiringMatrix(nil) = %+v, want empty non-nil grid", m)
	}
}

// --- SkillTimeline ---

func skill(name, m, category string, count int64) model.SkillCount {
	return model.SkillCount{Skill: name, Month: month(m), Category: category, JobCount: count}
}

func TestSkillTimeline(t *testing.T) {
	skills := []model.SkillCount{
		skill("Python", "2024-01", "IT", 5),
		skill("Python", "2024-02", "IT", 3),
		skill("Python", "2024-01", "Engineering", 2),
		skill("SQL", "2024-01", "IT", 9),
		skill("Excel", "2024-02", "Finance", 20),
	}

	got := SkillTimeline(skills, 2, "")
	want := []model.SkillTimelinePoint{
		{Skill: "Excel", Month: "2024-02", MonthLabel: "Feb 2024", JobCount: 20},
		{Skill: "Python", Month: "2024-01", MonthLabel: "Jan 2024", JobCount: 7},
		{Skill: "Python", Month: "2024-02", MonthLabel: "Feb 2024", JobCount: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SkillTimeline(all) = %+v, want %+v", got, want)
	}

	got = SkillTimeline(skills, 10, "IT")
	want = []model.SkillTimelinePoint{
		{Skill: "SQL", Month: "2024-01", MonthLabel: "Jan 2024", JobCount: 9},
		{Skill: "Python", Month: "2024-01", MonthLabel: "Jan 2024", JobCount: 5},
		{Skill: "Python", Month: "2024-02", MonthLabel: "Feb 2024", JobCount: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SkillTimeline(IT) = %+v, want %+v", got, want)
	}

	if got := SkillTimeline(skills, 10, "Nonexistent"); len(got) != 0 {
		t.Errorf("SkillTimeline(unknown category) = %+v, want empty", got)
	}
}

func TestSkillCountsFromPostings_DistinctJobs(t *testing.T) {
	p := func(id, s string) model.JobPosting {
		x := post("IT", "2024-01", 0, 0)
		x.JobID = id
		x.Skill = s
		return x
	}
	got := SkillCountsFromPostings([]model.JobPosting{
		p("j1", "Go"), p("j1", "Go"), p("j2", "Go"), p("", "Go"), p("j1", ""),
	})
	if len(got) != 1 || got[0].Skill != "Go" || got[0].JobCount != 3 {
		t.Errorf("SkillCountsFromPostings() = %+v, want Go with 3 jobs", got)
	}
}

// --- Experience ---

func TestExperienceDistribution(t *testing.T) {
	postings := []model.JobPosting{
		withExp(post("IT", "2024-01", 0, 4), 1, nil),
		withExp(post("IT", "2024-01", 0, 10), 3, nil),
		withExp(post("IT", "2024-01", 0, 1), 12, nil),
		post("IT", "2024-01", 0, 100), // unsegmented
	}
	got := ExperienceDistribution(postings)
	want := []model.SegmentVacancies{
		{Segment: ">2-5", Label: ">2-5 yrs (Mid-Level)", NumVacancies: 10},
		{Segment: "0-2", Label: "0-2 yrs (Entry/Junior)", NumVacancies: 4},
		{Segment: "10+", Label: "10+ yrs (Expert)", NumVacancies: 1},
		{Segment: "5-10", Label: ">5-10 yrs (Senior)", NumVacancies: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExperienceDistribution() = %+v, want %+v", got, want)
	}
}

func TestSalaryByExperience_WeightedAndCapped(t *testing.T) {
	postings := []model.JobPosting{
		withExp(post("IT", "2024-01", 0, 100), 1, fptr(3000)), // capped to 5 samples
		withExp(post("IT", "2024-01", 0, 1), 1, fptr(6000)),
		withExp(post("IT", "2024-01", 0, 2), 4, nil),
	}
	got := SalaryByExperience(postings, 5)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	entry := got[0]
	if entry.Segment != "0-2" || entry.Samples != 6 || entry.TotalVacancies != 101 {
		t.Errorf("entry box = %+v", entry)
	}
	if entry.Min != 3000 || entry.Max != 6000 || entry.Median != 3000 {
		t.Errorf("entry quantiles = %+v", entry)
	}

	mid := got[1]
	if mid.Segment != ">2-5" || mid.Samples != 0 || mid.TotalVacancies != 2 || mid.Median != 0 {
		t.Errorf("mid box = %+v", mid)
	}
}

func TestQuantile(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1}, {0.25, 1.75}, {0.5, 2.5}, {0.75, 3.25}, {1, 4},
	}
	for _, tt := range tests {
		if got := Quantile(vals, tt.q); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if got := Quantile([]float64{7}, 0.5); got != 7 {
		t.Errorf("Quantile(single) = %v, want 7", got)
	}
}

// --- Overview and helpers ---

func TestSummarize(t *testing.T) {
	tbl := &model.Table{Postings: sampleTable(), Skipped: 2}
	o := Summarize(tbl)
	if o.Postings != 7 || o.Categories != 4 || o.SkippedRows != 2 {
		t.Errorf("Summarize() counts = %+v", o)
	}
	if o.FirstPosting != "01 Jan 2024" || o.LastPosting != "01 Mar 2024" {
		t.Errorf("Summarize() period = %s - %s", o.FirstPosting, o.LastPosting)
	}
	if o.TotalVacancies != 65 || o.TotalApplications != 158 {
		t.Errorf("Summarize() totals = %+v", o)
	}
	if got := Summarize(nil); got != (model.Overview{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestCategoriesAndFilter(t *testing.T) {
	postings := sampleTable()
	if got := Categories(postings); !reflect.DeepEqual(got, []string{"Engineering", "Healthcare", "IT", "Others"}) {
		t.Errorf("Categories() = %v", got)
	}
	if got := FilterCategory(postings, "All"); len(got) != len(postings) {
		t.Errorf("FilterCategory(All) len = %d", len(got))
	}
	if got := FilterCategory(postings, "IT"); len(got) != 3 {
		t.Errorf("FilterCategory(IT) len = %d, want 3", len(got))
	}
}

// --- Purity ---

func TestAggregationsAreIdempotentAndPure(t *testing.T) {
	postings := sampleTable()
	snapshot := append([]model.JobPosting(nil), postings...)
	excluded := filter.NewSet("Others")

	if a, b := CategorySummary(postings, excluded), CategorySummary(postings, excluded); !reflect.DeepEqual(a, b) {
		t.Error("CategorySummary differs between calls")
	}
	if a, b := DemandVelocity(postings, 3, excluded), DemandVelocity(postings, 3, excluded); !reflect.DeepEqual(a, b) {
		t.Error("DemandVelocity differs between calls")
	}
	if a, b := BulkHiringMatrix(postings, 3, excluded), BulkHiringMatrix(postings, 3, excluded); !reflect.DeepEqual(a, b) {
		t.Error("BulkHiringMatrix differs between calls")
	}
	if !reflect.DeepEqual(postings, snapshot) {
		t.Error("aggregations mutated their input")
	}
}
