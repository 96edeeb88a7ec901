package aggregate

import "github.com/sgjobs/jobpulse/internal/model"

const dateLayout = "02 Jan 2006"

// Summarize returns the headline figures of a table.
func Summarize(t *model.Table) model.Overview {
	var o model.Overview
	if t == nil {
		return o
	}
	o.SkippedRows = t.Skipped
	if len(t.Postings) == 0 {
		return o
	}

	first, last := t.Postings[0].PostingDate, t.Postings[0].PostingDate
	categories := make(map[string]struct{})
	for _, p := range t.Postings {
		if p.PostingDate.Before(first) {
			first = p.PostingDate
		}
		if p.PostingDate.After(last) {
			last = p.PostingDate
		}
		categories[p.Category] = struct{}{}
		o.TotalVacancies += p.NumVacancies
		o.TotalApplications += p.NumApplications
		o.TotalViews += p.NumViews
	}
	o.Postings = len(t.Postings)
	o.Categories = len(categories)
	o.FirstPosting = first.Format(dateLayout)
	o.LastPosting = last.Format(dateLayout)
	return o
}
