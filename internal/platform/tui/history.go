package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the stats sidebar
	sidebarWidth       = 30  // Width of the stats sidebar
	maxMatches         = 200 // Max matches to load
)

// historyFilters are the variant tabs; "" shows every match.
var historyFilters = []string{"", engine.Classic.String(), engine.Disappearing.String()}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFilter, k.PrevFilter},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next variant"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev variant"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	filter      int
	store       *storage.Store
	matches     []storage.Match
	stats       []storage.DifficultyStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
	withPlayers bool // Table has room for the players column
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Date", Width: 13},
		{Title: "Variant", Width: 12},
		{Title: "Opponent", Width: 12},
		{Title: "Winner", Width: 7},
		{Title: "Moves", Width: 6},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	m.withPlayers = false
	if extra := tableWidth - used; extra > 12 {
		m.withPlayers = true
		columns = append(columns, table.Column{Title: "Players", Width: min(extra-2, 30)})
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

// load reads matches and stats for the current filter.
func (m *HistoryModel) load() {
	m.matches, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		variant := historyFilters[m.filter]
		m.matches, m.loadErr = m.store.RecentMatchesByVariant(variant, maxMatches)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.StatsByDifficulty(variant)
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded matches.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, mt := range m.matches {
		opponent := mt.Difficulty
		if opponent == "" {
			opponent = mt.Mode
		}
		row := table.Row{
			fmt.Sprintf("%d", mt.ID),
			mt.CreatedAt.Format("Jan 02 15:04"),
			mt.Variant,
			opponent,
			mt.Winner,
			fmt.Sprintf("%d", mt.Moves),
		}
		if m.withPlayers {
			row = append(row, fmt.Sprintf("%s / %s", mt.PlayerX, mt.PlayerO))
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(historyFilters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter = (m.filter + len(historyFilters) - 1) % len(historyFilters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
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

func opponentLabel(difficulty string) string {
	if difficulty == "" {
		return "two players"
	}
	return difficulty
}

func filterLabel(f string) string {
	if f == "" {
		return "all variants"
	}
	return f
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("MATCH HISTORY - %s", filterLabel(historyFilters[m.filter]))
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := panel.Render(m.renderTableContent())
	if m.showSidebar {
		sidebar := panel.Width(sidebarWidth).Render(m.renderStats())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", tableRendered))
	} else {
		b.WriteString(centerText(m.renderStatsLine(), m.width))
		b.WriteString("\n")
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats lists per-difficulty results for the sidebar.
func (m HistoryModel) renderStats() string {
	var sb strings.Builder
	sb.WriteString("Results by opponent\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	if len(m.stats) == 0 {
		sb.WriteString("No games yet\n")
		return sb.String()
	}
	for _, st := range m.stats {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(opponentLabel(st.Difficulty)))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  games %d  avg %.1f moves\n", st.Games, st.AvgMoves)
		fmt.Fprintf(&sb, "  X %d  O %d  draw %d\n", st.XWins, st.OWins, st.Draws)
	}
	return sb.String()
}

// renderStatsLine is the one-line stats summary for narrow windows.
func (m HistoryModel) renderStatsLine() string {
	parts := make([]string, 0, len(m.stats))
	for _, st := range m.stats {
		parts = append(parts, fmt.Sprintf("%s %d-%d-%d", opponentLabel(st.Difficulty), st.XWins, st.OWins, st.Draws))
	}
	if len(parts) == 0 {
		return ""
	}
	return "X-O-draw: " + strings.Join(parts, "  ")
}

// renderTableContent renders the table or an explanatory message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Match history is unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load matches:\n" + m.loadErr.Error())
	case len(m.matches) == 0:
		return emptyStyle.Render("No matches recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
