package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/model"
)

// MonthLabel renders a month bucket for display, e.g. "Jan 2024".
func MonthLabel(month time.Time) string {
	return month.Format("Jan 2006")
}

// TopSkills returns the topN skills by total job count within category
// ("" or "All" for every category). Ties keep first-seen order.
func TopSkills(skills []model.SkillCount, topN int, category string) []string {
	g := newGroups[int64]()
	f := filter.NewCategoryFilter(category, nil)
	for _, s := range skills {
		if !f.MatchCategory(s.Category) {
			continue
		}
		*g.at(s.Skill) += s.JobCount
	}

	type total struct {
		skill string
		count int64
	}
	totals := make([]total, len(g.keys))
	for i, k := range g.keys {
		totals[i] = total{skill: k, count: g.vals[i]}
	}
	top := TopNByMetric(totals, topN, func(t total) float64 { return float64(t.count) })

	out := make([]string, len(top))
	for i, t := range top {
		out[i] = t.skill
	}
	return out
}

type skillAcc struct {
	skill string
	month time.Time
	count int64
}

// SkillTimeline returns the monthly job counts of the topN skills, optionally
// restricted to one category. Points are ordered by skill rank, then month.
func SkillTimeline(skills []model.SkillCount, topN int, category string) []model.SkillTimelinePoint {
	top := TopSkills(skills, topN, category)
	rank := make(map[string]int, len(top))
	for i, s := range top {
		rank[s] = i
	}

	f := filter.NewCategoryFilter(category, nil)
	g := newGroups[skillAcc]()
	for _, s := range skills {
		if _, ok := rank[s.Skill]; !ok || !f.MatchCategory(s.Category) {
			continue
		}
		acc := g.at(s.Skill + "\x00" + s.Month.Format(model.MonthLayout))
		acc.skill = s.Skill
		acc.month = s.Month
		acc.count += s.JobCount
	}

	out := make([]model.SkillTimelinePoint, 0, len(g.vals))
	for _, acc := range g.vals {
		out = append(out, model.SkillTimelinePoint{
			Skill:      acc.skill,
			Month:      acc.month.Format(model.MonthLayout),
			MonthLabel: MonthLabel(acc.month),
			JobCount:   acc.count,
		})
	}
	slices.SortFunc(out, func(a, b model.SkillTimelinePoint) int {
		if c := cmp.Compare(rank[a.Skill], rank[b.Skill]); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	return out
}

// SkillCountsFromPostings builds skill timeline rows from skill-enriched
// postings. A job counts once per (skill, month, category) even when it
// appears on several rows; rows without a job id count individually.
func SkillCountsFromPostings(postings []model.JobPosting) []model.SkillCount {
	type acc struct {
		row  model.SkillCount
		jobs map[string]struct{}
	}
	g := newGroups[acc]()
	for _, p := range postings {
		skill := strings.TrimSpace(p.Skill)
		if skill == "" {
			continue
		}
		a := g.at(skill + "\x00" + p.MonthKey() + "\x00" + p.Category)
		if a.jobs == nil {
			a.row = model.SkillCount{Skill: skill, Month: p.Month, Category: p.Category}
			a.jobs = make(map[string]struct{})
		}
		if p.JobID == "" {
			a.row.JobCount++
			continue
		}
		if _, seen := a.jobs[p.JobID]; !seen {
			a.jobs[p.JobID] = struct{}{}
			a.row.JobCount++
		}
	}

	out := make([]model.SkillCount, len(g.vals))
	for i, a := range g.vals {
		out[i] = a.row
	}
	return out
}
