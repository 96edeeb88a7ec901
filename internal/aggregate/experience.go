package aggregate

import (
	"cmp"
	"math"
	"slices"

	"github.com/sgjobs/jobpulse/internal/experience"
	"github.com/sgjobs/jobpulse/internal/model"
)

// DefaultSalaryWeightCap bounds how many times one posting's salary is
// repeated when weighting by vacancies.
const DefaultSalaryWeightCap = 5

// ExperienceDistribution sums vacancies per experience segment. All four
// segments are present, sorted by vacancies, largest first; ties keep segment
// order. Unsegmented postings are left out.
func ExperienceDistribution(postings []model.JobPosting) []model.SegmentVacancies {
	totals := make(map[string]int64)
	for _, p := range postings {
		totals[p.ExpSegment] += p.NumVacancies
	}

	segs := experience.Segments()
	out := make([]model.SegmentVacancies, len(segs))
	for i, s := range segs {
		out[i] = model.SegmentVacancies{Segment: string(s), Label: s.Label(), NumVacancies: totals[string(s)]}
	}
	slices.SortStableFunc(out, func(a, b model.SegmentVacancies) int {
		return cmp.Compare(b.NumVacancies, a.NumVacancies)
	})
	return out
}

// SalaryByExperience summarizes average salary per segment, weighting each
// posting by its vacancies capped at weightCap. Postings without a salary only
// count toward TotalVacancies. Output follows segment order.
func SalaryByExperience(postings []model.JobPosting, weightCap int) []model.SalaryBox {
	if weightCap < 1 {
		weightCap = DefaultSalaryWeightCap
	}

	samples := make(map[string][]float64)
	vacancies := make(map[string]int64)
	for _, p := range postings {
		vacancies[p.ExpSegment] += p.NumVacancies
		if p.AverageSalary == nil || math.IsNaN(*p.AverageSalary) {
			continue
		}
		w := min(p.NumVacancies, int64(weightCap))
		for range w {
			samples[p.ExpSegment] = append(samples[p.ExpSegment], *p.AverageSalary)
		}
	}

	segs := experience.Segments()
	out := make([]model.SalaryBox, len(segs))
	for i, s := range segs {
		vals := samples[string(s)]
		box := model.SalaryBox{
			Segment:        string(s),
			Label:          s.Label(),
			Samples:        len(vals),
			TotalVacancies: vacancies[string(s)],
		}
		if len(vals) > 0 {
			sorted := slices.Clone(vals)
			slices.Sort(sorted)
			box.Min = sorted[0]
			box.Q1 = Quantile(sorted, 0.25)
			box.Median = Quantile(sorted, 0.5)
			box.Q3 = Quantile(sorted, 0.75)
			box.Max = sorted[len(sorted)-1]
		}
		out[i] = box
	}
	return out
}

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks. sorted must be ascending and non-empty.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
