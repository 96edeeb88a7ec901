// Package tui is the interactive terminal dashboard: a sector picker, a
// loading spinner, and a tabbed view over the aggregate reports.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sgjobs/jobpulse/internal/filter"
	"github.com/sgjobs/jobpulse/internal/report"
)

type tab int

const (
	tabOverview tab = iota
	tabSectoral
	tabExperience
	tabSkills
	tabSummary
)

var tabNames = []string{"Overview", "Sectoral", "Experience", "Skills", "Summary"}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 2)

	contentBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type dashModel struct {
	views    Views
	snap     *Snapshot
	active   tab
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	reloading bool
	reloadErr string

	wantQuit bool
}

func newDashModel(views Views, snap *Snapshot) dashModel {
	return dashModel{views: views, snap: snap}
}

func (m dashModel) Init() tea.Cmd {
	return nil
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case loadDoneMsg:
		m.reloading = false
		if msg.err != nil {
			m.reloadErr = fmt.Sprintf("reload failed: %v", msg.err)
		} else {
			m.reloadErr = ""
			m.snap = msg.snap
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.wantQuit = true
			return m, tea.Quit
		case "esc", "b":
			return m, tea.Quit
		case "tab", "right", "l":
			m.setTab((m.active + 1) % tab(len(tabNames)))
			return m, nil
		case "shift+tab", "left", "h":
			m.setTab((m.active + tab(len(tabNames)) - 1) % tab(len(tabNames)))
			return m, nil
		case "1", "2", "3", "4", "5":
			m.setTab(tab(msg.String()[0] - '1'))
			return m, nil
		case "r":
			if m.reloading || m.views == nil || m.snap == nil {
				return m, nil
			}
			m.reloading = true
			views, sector := m.views, m.snap.Sector
			views.Reload()
			return m, loadCmd(func(ctx context.Context) (*Snapshot, error) {
				return LoadSnapshot(ctx, views, sector)
			})
		}
	}

	// Forward other keys (pgup/pgdn/up/down) to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *dashModel) setTab(t tab) {
	m.active = t
	m.refresh()
	m.viewport.GotoTop()
}

func (m *dashModel) recalcLayout() {
	// tab bar + status bar + border
	w, h := max(m.width-4, 10), max(m.height-5, 3)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refresh()
}

func (m *dashModel) refresh() {
	m.viewport.SetContent(m.renderTab())
}

func (m dashModel) renderTab() string {
	s := m.snap
	if s == nil {
		return report.Notice(report.NoData)
	}
	var b strings.Builder
	switch m.active {
	case tabOverview:
		b.WriteString(report.Notice(s.Overview.Notice))
		b.WriteString(report.OverviewTable(s.Overview.Data))
	case tabSectoral:
		b.WriteString(report.Notice(s.Velocity.Notice))
		b.WriteString(report.MatrixTable(s.Matrix.Data))
		b.WriteString("\n")
		b.WriteString(report.VelocityTable(s.Velocity.Data))
	case tabExperience:
		b.WriteString(report.Notice(s.Experience.Notice))
		b.WriteString(report.ExperienceTables(s.Experience.Data))
	case tabSkills:
		b.WriteString(report.Notice(s.Skills.Notice))
		b.WriteString(report.SkillsTable(s.Skills.Data))
	case tabSummary:
		b.WriteString(report.Notice(s.Summary.Notice))
		b.WriteString(report.SummaryTables(s.Summary.Data))
	}
	return b.String()
}

func (m dashModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == m.active {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = inactiveTabStyle.Render(label)
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	content := contentBorderStyle.Render(m.viewport.View())

	sector := filter.AllCategories
	if m.snap != nil && m.snap.Sector != "" {
		sector = m.snap.Sector
	}
	statusText := fmt.Sprintf("Sector: %s  │  tab/←/→ switch  ↑/↓ scroll  r reload  b sectors  q quit", sector)
	switch {
	case m.reloading:
		statusText = "Reloading datasets...  │  " + statusText
	case m.reloadErr != "":
		statusText = errorStyle.Render(m.reloadErr) + "  │  " + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

// RunDashboardTUI shows the tabbed view for snap. It returns true when the user
// asked to quit, false to go back to the sector picker.
func RunDashboardTUI(views Views, snap *Snapshot) (bool, error) {
	p := tea.NewProgram(newDashModel(views, snap), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return true, err
	}
	return result.(dashModel).wantQuit, nil
}

// Run loops picker, loader and dashboard until the user quits.
func Run(ctx context.Context, views Views, logger *slog.Logger) error {
	for {
		sectors, err := views.Sectors(ctx)
		if err != nil {
			return fmt.Errorf("listing sectors: %w", err)
		}
		sector, ok, err := RunSectorPicker(append([]string{filter.AllCategories}, sectors...))
		if err != nil {
			return fmt.Errorf("sector picker: %w", err)
		}
		if !ok {
			return nil
		}
		logger.Debug("sector selected", "sector", sector)

		snap, err := RunLoader(ctx, views, sector)
		if errors.Is(err, errCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading views: %w", err)
		}

		wantQuit, err := RunDashboardTUI(views, snap)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		if wantQuit {
			return nil
		}
	}
}
