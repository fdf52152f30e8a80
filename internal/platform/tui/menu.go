package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/games/ultimate"
)

// Menu rows, top to bottom.
const (
	rowVariant = iota
	rowMode
	rowDifficulty
	rowStart
	rowHistory
	rowQuit
	menuRows
)

var (
	variants = []engine.Variant{engine.Classic, engine.Disappearing}
	modes    = []string{core.ModeComputer, core.ModeLocal}
)

var (
	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	menuDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// menuKeyMap only exists to feed the help footer.
type menuKeyMap struct {
	Move    key.Binding
	Change  key.Binding
	Select  key.Binding
	History key.Binding
	Quit    key.Binding
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Change, k.Select, k.History, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Move:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("up/down", "navigate")),
		Change:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("left/right", "change")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		History: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// MenuModel is the Bubble Tea model for the game setup menu.
type MenuModel struct {
	cursor      int
	variant     int
	mode        int
	difficulty  int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	help        help.Model
	keys        menuKeyMap
	quitting    bool
	started     bool
	openHistory bool
}

// NewMenuModel creates a new menu model. The initial choices come from
// the match options in cfg.
func NewMenuModel(cfg core.RuntimeConfig, variant engine.Variant) MenuModel {
	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		keys:      defaultMenuKeyMap(),
		cursor:    rowStart,
	}
	for i, v := range variants {
		if v == variant {
			m.variant = i
		}
	}
	for i, md := range modes {
		if md == cfg.Match.Mode {
			m.mode = i
		}
	}
	for i, d := range ai.Difficulties {
		if d == cfg.Match.Difficulty {
			m.difficulty = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, menuRows)
		if m.cursor == rowDifficulty && !m.vsComputer() {
			m.cursor--
		}

	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, menuRows)
		if m.cursor == rowDifficulty && !m.vsComputer() {
			m.cursor++
		}

	case MenuActionLeft:
		m.cycle(-1)

	case MenuActionRight:
		m.cycle(1)

	case MenuActionSelect:
		switch m.cursor {
		case rowStart:
			m.started = true
			return m, tea.Quit
		case rowHistory:
			m.openHistory = true
			return m, tea.Quit
		case rowQuit:
			m.quitting = true
			return m, tea.Quit
		default:
			m.cycle(1)
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// cycle steps the option under the cursor.
func (m *MenuModel) cycle(delta int) {
	switch m.cursor {
	case rowVariant:
		m.variant = core.Wrap(m.variant+delta, len(variants))
	case rowMode:
		m.mode = core.Wrap(m.mode+delta, len(modes))
	case rowDifficulty:
		m.difficulty = core.Wrap(m.difficulty+delta, len(ai.Difficulties))
	}
}

func (m MenuModel) vsComputer() bool {
	return modes[m.mode] == core.ModeComputer
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("U L T I M A T E"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("tic-tac-toe"), m.width))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Variant:     < %s >", variants[m.variant]),
		fmt.Sprintf("Mode:        < %s >", modeLabel(modes[m.mode])),
		fmt.Sprintf("Difficulty:  < %s >", ai.Difficulties[m.difficulty]),
		"Start game",
		"Match history",
		"Quit",
	}

	for i, row := range rows {
		line := "  " + row
		switch {
		case i == rowDifficulty && !m.vsComputer():
			line = menuDimStyle.Render("  Difficulty:  -")
		case i == m.cursor:
			line = menuCursorStyle.Render("> " + row)
		}
		if i == rowStart {
			b.WriteString("\n")
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

func modeLabel(mode string) string {
	if mode == core.ModeLocal {
		return "two players"
	}
	return "vs computer"
}

// Config returns the runtime config with the menu's choices applied.
func (m MenuModel) Config() core.RuntimeConfig {
	cfg := m.config
	cfg.Match.Mode = modes[m.mode]
	cfg.Match.Difficulty = ai.Difficulties[m.difficulty]
	return cfg
}

// GameID returns the registered game for the chosen variant.
func (m MenuModel) GameID() string {
	return ultimate.IDFor(variants[m.variant])
}

// Started returns true if the user chose to start a game.
func (m MenuModel) Started() bool {
	return m.started
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the match history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID       string
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// Result converts the menu's final state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsHistory():
		result.WantsHistory = true
	case m.Started():
		result.GameID = m.GameID()
	default:
		result.Quit = true
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig, variant engine.Variant) (MenuResult, error) {
	model := NewMenuModel(cfg, variant)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
