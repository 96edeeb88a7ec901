package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// pickerHeight is the number of sectors shown at once.
const pickerHeight = 15

type pickerModel struct {
	sectors []string
	cursor  int
	offset  int
	chosen  int // -1 = no choice yet, -2 = quit
}

func newPicker(sectors []string) pickerModel {
	return pickerModel{sectors: sectors, chosen: -1}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sectors)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.sectors)-1, 0)
		case "enter":
			if len(m.sectors) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		}
	}
	m.offset = clamp(m.offset, m.cursor-pickerHeight+1, m.cursor)
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Job Market Dashboard: select a sector")
	s += "\n"

	end := min(m.offset+pickerHeight, len(m.sectors))
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+m.sectors[i]) + "\n"
		} else {
			s += pickerItemStyle.Render(m.sectors[i]) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunSectorPicker shows an interactive sector selector.
// Returns the chosen sector, or ok=false if the user quit.
func RunSectorPicker(sectors []string) (sector string, ok bool, err error) {
	p := tea.NewProgram(newPicker(sectors))
	result, err := p.Run()
	if err != nil {
		return "", false, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return "", false, nil
	}
	return final.sectors[final.chosen], true, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
