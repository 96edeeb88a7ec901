package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// errCancelled is returned when the user aborts a load.
var errCancelled = errors.New("cancelled")

// loadTimeout bounds the whole snapshot load.
const loadTimeout = 2 * time.Minute

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	doneStepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	todoStepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// loadDoneMsg carries a whole snapshot, as produced by a dashboard reload.
type loadDoneMsg struct {
	snap *Snapshot
	err  error
}

// stepDoneMsg reports that the view at index step has been computed.
type stepDoneMsg struct {
	step int
	err  error
}

type spinnerTickMsg struct{}

// loaderModel computes a snapshot one view at a time and shows which views
// are done.
type loaderModel struct {
	sector  string
	steps   []viewStep
	snap    *Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	current int
	frame   int
	started time.Time
	err     error
	done    bool
}

func newLoader(parent context.Context, views Views, sector string) loaderModel {
	ctx, cancel := context.WithTimeout(parent, loadTimeout)
	return loaderModel{
		sector:  sector,
		steps:   snapshotSteps(views, sector),
		snap:    &Snapshot{Sector: sector},
		ctx:     ctx,
		cancel:  cancel,
		started: time.Now(),
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.runStep(0), m.tick())
}

// runStep computes view i in a bubbletea command. Steps run one after the
// other, so only one command writes to the snapshot at a time.
func (m loaderModel) runStep(i int) tea.Cmd {
	if i >= len(m.steps) {
		return nil
	}
	ctx, step, snap := m.ctx, m.steps[i], m.snap
	return func() tea.Msg {
		return stepDoneMsg{step: i, err: step.run(ctx, snap)}
	}
}

// loadCmd runs loadFn in a bubbletea command and reports a loadDoneMsg.
func loadCmd(loadFn func(ctx context.Context) (*Snapshot, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		snap, err := loadFn(ctx)
		return loadDoneMsg{snap: snap, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) finish(err error) (tea.Model, tea.Cmd) {
	m.done = true
	m.err = err
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		if m.done || msg.step != m.current {
			return m, nil
		}
		if msg.err != nil {
			return m.finish(fmt.Errorf("%s: %w", m.steps[msg.step].name, msg.err))
		}
		m.current++
		if m.current == len(m.steps) {
			return m.finish(nil)
		}
		return m, m.runStep(m.current)
	case spinnerTickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.finish(errCancelled)
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	parts := make([]string, len(m.steps))
	for i, step := range m.steps {
		switch {
		case i < m.current:
			parts[i] = doneStepStyle.Render("✓ " + step.name)
		case i == m.current:
			parts[i] = spinnerStyle.Render(spinnerFrames[m.frame] + " " + step.name)
		default:
			parts[i] = todoStepStyle.Render("· " + step.name)
		}
	}
	return fmt.Sprintf("Computing views for %s (%d/%d, %s)\n%s\n",
		m.sector, m.current, len(m.steps), time.Since(m.started).Round(100*time.Millisecond), strings.Join(parts, "  "))
}

// RunLoader computes the snapshot for sector and shows per-view progress. It
// renders inline (no alt screen).
func RunLoader(ctx context.Context, views Views, sector string) (*Snapshot, error) {
	p := tea.NewProgram(newLoader(ctx, views, sector))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	if final.err != nil {
		return nil, final.err
	}
	return final.snap, nil
}
