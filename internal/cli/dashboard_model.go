package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dashboardLoadedMsg carries the result of one Overview call.
type dashboardLoadedMsg struct {
	overview *service.Overview
	err      error
}

type dashboardKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultDashboardKeys() dashboardKeyMap {
	return dashboardKeyMap{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// dashboardModel is the full-screen dashboard. It loads the overview once on
// start and again on every refresh; refresh drops cached responses first.
type dashboardModel struct {
	ctx  context.Context
	app  *App
	keys dashboardKeyMap

	spinner  spinner.Model
	loading  bool
	overview *service.Overview
	err      error
	width    int
}

func newDashboardModel(ctx context.Context, app *App) *dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = formatter.StylePurple
	return &dashboardModel{
		ctx:     ctx,
		app:     app,
		keys:    defaultDashboardKeys(),
		spinner: sp,
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *dashboardModel) load() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		ov, err := app.Dashboard.Overview(ctx, app.now())
		return dashboardLoadedMsg{overview: ov, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.overview = msg.overview
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			if m.app.Cache != nil {
				m.app.Cache.Clear()
			}
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
	}
	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.loading && m.overview == nil:
		b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("Loading dashboard…") + "\n")
	case m.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	default:
		b.WriteString(formatter.FormatDashboard(m.overview))
		if m.loading {
			b.WriteString("  " + m.spinner.View() + " " + formatter.Dim("Refreshing…") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *dashboardModel) renderHelp() string {
	hints := make([]string, 0, 2)
	for _, k := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
