// Package tui is the interactive picker shown before killing the owners of
// a port. Every owner starts selected; the user can deselect and confirm,
// or abort.
package tui

import (
	"fmt"
	"io"
	"strings"

	"killport-go/internal/owner"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a1a1a")).Background(lipgloss.Color("#7DCFFF"))
	pidStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A")).Width(8)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#BB9AF7")).Width(16)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).MarginTop(1)

	checkboxChecked   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("[x]")
	checkboxUnchecked = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Render("[ ]")
)

type Model struct {
	port        int
	procs       []owner.Process
	selected    map[int]bool
	cursor      int
	width       int
	confirmed   bool
	interrupted bool
}

func NewModel(port int, procs []owner.Process) *Model {
	selected := make(map[int]bool, len(procs))
	for _, p := range procs {
		selected[p.PID] = true
	}
	return &Model{port: port, procs: procs, selected: selected}
}

func NewProgram(model *Model, in io.Reader, out io.Writer) *tea.Program {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return tea.NewProgram(model, opts...)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.interrupted = true
			return m, tea.Quit
		case key.Matches(msg, keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, keys.Select):
			if len(m.procs) > 0 {
				pid := m.procs[m.cursor].PID
				m.selected[pid] = !m.selected[pid]
			}
		case key.Matches(msg, keys.SelectAll):
			m.setAll(!m.allSelected())
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if m.confirmed || m.interrupted {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Processes listening on port %d", m.port)))
	b.WriteString("\n")
	for i, p := range m.procs {
		box := checkboxUnchecked
		if m.selected[p.PID] {
			box = checkboxChecked
		}
		name := p.Name
		if name == "" {
			name = "?"
		}
		line := fmt.Sprintf("%s %s%s", box, pidStyle.Render(fmt.Sprintf("%d", p.PID)), nameStyle.Render(name))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		if p.Cmdline != "" {
			b.WriteString(" " + commandStyle.Render(truncate(p.Cmdline, m.commandWidth())))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.renderFooter()))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the selected PIDs in listing order, or nil unless the user
// confirmed.
func (m *Model) Chosen() []int {
	if !m.confirmed {
		return nil
	}
	out := []int{}
	for _, p := range m.procs {
		if m.selected[p.PID] {
			out = append(out, p.PID)
		}
	}
	return out
}

func (m *Model) Interrupted() bool {
	return m.interrupted
}

func (m *Model) moveCursor(delta int) {
	if len(m.procs) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.procs)-1 {
		m.cursor = len(m.procs) - 1
	}
}

func (m *Model) allSelected() bool {
	for _, p := range m.procs {
		if !m.selected[p.PID] {
			return false
		}
	}
	return true
}

func (m *Model) setAll(val bool) {
	for _, p := range m.procs {
		m.selected[p.PID] = val
	}
}

func (m *Model) commandWidth() int {
	if m.width <= 0 {
		return 60
	}
	if w := m.width - 30; w > 10 {
		return w
	}
	return 10
}

func (m *Model) renderFooter() string {
	parts := []string{}
	for _, b := range keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
