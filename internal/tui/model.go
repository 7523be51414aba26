// Package tui is the interactive terminal dashboard over an overlay.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iksnae/tona/internal"
)

const refreshInterval = 500 * time.Millisecond

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

type askDoneMsg struct{ err error }

type statsDoneMsg struct{ started bool }

// Model renders the dashboard and forwards key presses to the overlay
type Model struct {
	ctx     context.Context
	overlay *internal.Overlay

	input    textinput.Model
	view     viewport.Model
	asking   bool
	width    int
	height   int
	lastErr  string
	snapshot internal.DashboardState
}

// New creates the model. ctx bounds the requests started from key presses.
func New(ctx context.Context, overlay *internal.Overlay) Model {
	input := textinput.New()
	input.Placeholder = "Ask about this conversation..."
	input.CharLimit = 500

	overlay.Dashboard().Open()

	return Model{
		ctx:      ctx,
		overlay:  overlay,
		input:    input,
		view:     viewport.New(80, 20),
		width:    80,
		snapshot: overlay.Dashboard().Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.overlay.Ask(m.ctx, query)
		return askDoneMsg{err: err}
	}
}

func (m Model) refreshStats() tea.Cmd {
	return func() tea.Msg {
		return statsDoneMsg{started: m.overlay.RefreshStats(m.ctx)}
	}
}

func (m Model) reanalyze() tea.Cmd {
	return func() tea.Msg {
		m.overlay.Analyze(m.ctx, "terminal")
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 3)
		m.input.Width = msg.Width - 4
		m.syncView()
		return m, nil

	case tickMsg:
		m.snapshot = m.overlay.Dashboard().Snapshot()
		m.syncView()
		return m, tick()

	case askDoneMsg:
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		return m, nil

	case statsDoneMsg:
		if !msg.started {
			m.lastErr = "statistics already refreshing"
		}
		return m, nil

	case tea.KeyMsg:
		if m.asking {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.asking = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case "enter":
		query := m.input.Value()
		m.asking = false
		m.input.Blur()
		m.input.Reset()
		if query == "" {
			return m, nil
		}
		_ = m.overlay.Dashboard().SelectTab(internal.TabAssistant)
		return m, m.ask(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleTab(1)
		return m, nil
	case "shift+tab":
		m.cycleTab(-1)
		return m, nil
	case "r":
		return m, m.refreshStats()
	case "a":
		return m, m.reanalyze()
	case "/":
		m.asking = true
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *Model) cycleTab(step int) {
	current := 0
	for i, tab := range internal.Tabs {
		if tab == m.snapshot.ActiveTab {
			current = i
			break
		}
	}
	next := (current + step + len(internal.Tabs)) % len(internal.Tabs)
	_ = m.overlay.Dashboard().SelectTab(internal.Tabs[next])
	m.snapshot = m.overlay.Dashboard().Snapshot()
	m.view.GotoTop()
	m.syncView()
}

func (m *Model) syncView() {
	m.view.SetContent(m.snapshot.Render(m.width))
}

func (m Model) View() string {
	footer := helpStyle.Render("tab/shift+tab switch • / ask • a analyze • r refresh stats • q quit")
	if m.asking {
		footer = m.input.View()
	} else if m.lastErr != "" {
		footer = errStyle.Render(m.lastErr) + "\n" + footer
	}
	return m.view.View() + "\n" + footer
}

// Run starts the terminal dashboard and blocks until the user quits
func Run(ctx context.Context, overlay *internal.Overlay) error {
	p := tea.NewProgram(New(ctx, overlay), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
