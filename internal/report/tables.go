package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/sgjobs/jobpulse/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	// Heat shades for the bulk hiring map, coolest first.
	heatColors = []lipgloss.Color{"236", "24", "31", "37", "143", "178", "208", "196"}
)

// grid renders rows with headers. Columns listed in numeric are right aligned.
func grid(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + body + "\n"
}

// Notice renders an informational line, or "" when msg is empty.
func Notice(msg string) string {
	if msg == "" {
		return ""
	}
	return noticeStyle.Render(msg) + "\n"
}

func empty() string {
	return noticeStyle.Render(NoData) + "\n"
}

func count(n int64) string {
	return humanize.Comma(n)
}

func ratio(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func money(f float64) string {
	return humanize.CommafWithDigits(math.Round(f), 0)
}

// OverviewTable renders the headline figures.
func OverviewTable(o model.Overview) string {
	if o.Postings == 0 {
		return empty()
	}
	rows := [][]string{
		{"Postings", count(int64(o.Postings))},
		{"Categories", count(int64(o.Categories))},
		{"First posting", o.FirstPosting},
		{"Last posting", o.LastPosting},
		{"Vacancies", count(o.TotalVacancies)},
		{"Applications", count(o.TotalApplications)},
		{"Views", count(o.TotalViews)},
		{"Skipped rows", count(int64(o.SkippedRows))},
	}
	return section("Overview", grid([]string{"Metric", "Value"}, rows, 1))
}

// SummaryTables renders the category summary and the competitiveness ranking.
func SummaryTables(v dashboard.SummaryView) string {
	if len(v.Categories) == 0 {
		return empty()
	}
	rows := make([][]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		rows = append(rows, []string{c.Category, count(c.TotalJobCount), count(c.TotalApplications), ratio(c.AvgApplicationsPerJob)})
	}
	var b strings.Builder
	b.WriteString(section("Jobs by category", grid([]string{"Category", "Jobs", "Applications", "Apps/Job"}, rows, 1, 2, 3)))

	if len(v.Competitiveness) > 0 {
		rows = rows[:0]
		for _, r := range v.Competitiveness {
			rows = append(rows, []string{r.Key, count(int64(r.Denominator)), count(int64(r.Numerator)), ratio(r.Ratio)})
		}
		b.WriteString("\n")
		b.WriteString(section("Competitiveness", grid([]string{"Category", "Jobs", "Applications", "Apps/Job"}, rows, 1, 2, 3)))
	}
	return b.String()
}

// VelocityTable renders the monthly bulk factor per category.
func VelocityTable(points []model.VelocityPoint) string {
	if len(points) == 0 {
		return empty()
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Month, p.Category, count(p.NumApplications), count(p.NumVacancies), ratio(p.BulkFactor)})
	}
	return section("Demand velocity", grid([]string{"Month", "Category", "Applications", "Vacancies", "Bulk factor"}, rows, 2, 3, 4))
}

// MatrixTable renders the bulk hiring map with cells shaded by value.
func MatrixTable(m model.BulkMatrix) string {
	if m.IsEmpty() {
		return empty()
	}
	var peak float64
	for _, row := range m.Values {
		for _, v := range row {
			peak = max(peak, v)
		}
	}

	headers := append([]string{"Category"}, m.Months...)
	rows := make([][]string, len(m.Categories))
	for i, c := range m.Categories {
		rows[i] = make([]string, 0, len(m.Months)+1)
		rows[i] = append(rows[i], c)
		for _, v := range m.Values[i] {
			rows[i] = append(rows[i], ratio(v))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return headerStyle
			case col == 0, row >= len(m.Values), col > len(m.Values[row]):
				return cellStyle
			default:
				return numberStyle.Background(heatColors[heatIndex(m.Values[row][col-1], peak)])
			}
		})
	return section("Bulk hiring map", t.String())
}

func heatIndex(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	i := int(math.Ceil(v / peak * float64(len(heatColors)-1)))
	return min(i, len(heatColors)-1)
}

// SkillsTable renders the skill timeline.
func SkillsTable(points []model.SkillTimelinePoint) string {
	if len(points) == 0 {
		return empty()
	}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Skill, p.MonthLabel, count(p.JobCount)})
	}
	return section("Skill timeline", grid([]string{"Skill", "Month", "Jobs"}, rows, 2))
}

// ExperienceTables renders the vacancy distribution and the salary spread.
func ExperienceTables(v dashboard.ExperienceView) string {
	if len(v.Distribution) == 0 {
		return empty()
	}
	rows := make([][]string, 0, len(v.Distribution))
	for _, d := range v.Distribution {
		rows = append(rows, []string{d.Label, count(d.NumVacancies)})
	}
	var b strings.Builder
	b.WriteString(section("Vacancies by experience ("+v.Category+")", grid([]string{"Segment", "Vacancies"}, rows, 1)))

	rows = make([][]string, 0, len(v.Salary))
	for _, s := range v.Salary {
		if s.Samples == 0 {
			rows = append(rows, []string{s.Label, "0", count(s.TotalVacancies), "-", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			s.Label, count(int64(s.Samples)), count(s.TotalVacancies),
			money(s.Min), money(s.Q1), money(s.Median), money(s.Q3), money(s.Max),
		})
	}
	b.WriteString("\n")
	b.WriteString(section("Salary by experience", grid([]string{"Segment", "Samples", "Vacancies", "Min", "Q1", "Median", "Q3", "Max"}, rows, 1, 2, 3, 4, 5, 6, 7)))
	return b.String()
}
