package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/minecart/internal/storage"
)

const (
	minWidthForSidebar = 80 // below this the views are shown as tabs
	sidebarWidth       = 20
	maxRuns            = 100
	maxSeedViews       = 8
)

// RunsKeyMap defines the key bindings for the runs board.
type RunsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev, k.Quit}}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next seed"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev seed"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// runsView is one page of the board: every run, or the runs of one seed.
type runsView struct {
	title string
	seed  uint32
	all   bool
}

// RunsModel is the Bubble Tea model for the runs board.
type RunsModel struct {
	store       *storage.Store
	views       []runsView
	cursor      int
	runs        []storage.Run
	err         error
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	showSidebar bool
	quitting    bool
}

// NewRunsModel creates the runs board. The first view lists the longest
// runs; the others list every run of the seeds found among them.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	m := RunsModel{
		store:       store,
		views:       []runsView{{title: "All seeds", all: true}},
		keys:        DefaultRunsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	m.loadRuns()
	var seeds []uint32
	for _, r := range m.runs {
		if !slices.Contains(seeds, r.Seed) && len(seeds) < maxSeedViews {
			seeds = append(seeds, r.Seed)
		}
	}
	for _, s := range seeds {
		m.views = append(m.views, runsView{title: fmt.Sprintf("Seed %d", s), seed: s})
	}
	return m
}

func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Distance", Width: 9},
		{Title: "Player", Width: 10},
		{Title: "Seed", Width: 11},
		{Title: "Chunks", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Narrow terminals lose the date, then the chunk count.
	if tableWidth < 80 {
		columns = columns[:6]
	}
	if tableWidth < 64 {
		columns = slices.Delete(columns, 4, 5)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the current view.
func (m *RunsModel) loadRuns() {
	m.runs, m.err = nil, nil
	if m.store != nil {
		v := m.views[m.cursor]
		if v.all {
			m.runs, m.err = m.store.TopRuns(maxRuns)
		} else {
			m.runs, m.err = m.store.RunsForSeed(v.seed)
		}
	}
	m.updateTableRows()
}

func (m *RunsModel) updateTableRows() {
	width := len(m.table.Columns())
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		row := table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Distance),
			r.Player,
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Chunks),
			r.Duration.Round(100 * time.Millisecond).String(),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
		if width == 5 {
			row = slices.Delete(row, 4, 5)
		}
		rows[i] = row[:width]
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs board.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.cursor = (m.cursor + 1) % len(m.views)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.cursor = (m.cursor + len(m.views) - 1) % len(m.views)
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the runs board.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	title := fmt.Sprintf("RUNS - %s", m.views[m.cursor].title)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(title)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func (m RunsModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, v := range m.views {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + v.title))
		sidebar.WriteString("\n")
	}

	side := boxStyle.Width(sidebarWidth).Render(sidebar.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", boxStyle.Render(m.renderTableContent()))
}

func (m RunsModel) renderNarrowLayout() string {
	tabLine := fmt.Sprintf("< %s >  (%d/%d)", m.views[m.cursor].title, m.cursor+1, len(m.views))
	tabs := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, helpStyle.Render(tabLine))
	body := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.renderTableContent()))
	return tabs + "\n\n" + body
}

func (m RunsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not load runs:\n" + m.err.Error())
	case len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nRide a cart to log one!")
	}
	return m.table.View()
}

// RunRunsBoard shows the runs board until the user quits.
func RunRunsBoard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
