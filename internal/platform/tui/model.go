package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/registry"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

// jobDoneMsg carries a finished opponent job back into the update loop.
type jobDoneMsg struct {
	gen    uint64
	epoch  uint64
	result any
}

// runJob runs an opponent job off the update loop.
func runJob(job registry.Job, gen uint64) tea.Cmd {
	return func() tea.Msg {
		return jobDoneMsg{gen: gen, epoch: job.Epoch, result: job.Run()}
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	gen        uint64 // Tags this model's ticks and jobs
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	logger     *log.Logger
	startedAt  time.Time
	quitting   bool
	backToMenu bool
	matchSaved bool // Whether the finished match has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		gen:        nextGen(),
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tea.Batch(tickCmd(m.config.TickRate, m.gen), m.pollJob())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()

	case jobDoneMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if opp, ok := m.game.(registry.Opponent); ok {
			opp.Deliver(msg.epoch, msg.result)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		if m.gameState.GameOver && !m.matchSaved {
			m.saveMatch()
		}
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.startedAt = time.Now()
		m.matchSaved = false
		m.inputFrame.Clear()
		return m, tea.Batch(tickCmd(m.config.TickRate, m.gen), m.pollJob())
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Store the match once when it ends.
	if m.gameState.GameOver && !m.matchSaved {
		m.saveMatch()
	}

	m.inputFrame.Clear()

	return m, tea.Batch(tickCmd(m.config.TickRate, m.gen), m.pollJob())
}

// pollJob starts the opponent's pending job, if any.
func (m Model) pollJob() tea.Cmd {
	opp, ok := m.game.(registry.Opponent)
	if !ok {
		return nil
	}
	job, ok := opp.NextJob()
	if !ok {
		return nil
	}
	return runJob(job, m.gen)
}

// saveMatch records the finished game.
func (m *Model) saveMatch() {
	m.matchSaved = true
	if m.store == nil {
		return
	}

	res := m.gameState.Result
	match := MatchRecord(m.game, m.config.Match, res, time.Since(m.startedAt))
	if _, err := m.store.SaveMatch(match); err != nil {
		m.logger.Warn("could not save match", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Info("match saved", "game", m.game.ID(), "winner", res.Winner, "moves", res.Moves)
}

// MatchRecord builds the storage row for a finished game.
func MatchRecord(game registry.Game, opts core.MatchOptions, res core.MatchResult, elapsed time.Duration) storage.Match {
	variant := engine.Classic
	if v, ok := game.(interface{ Variant() engine.Variant }); ok {
		variant = v.Variant()
	}

	match := storage.Match{
		GameID:    game.ID(),
		Variant:   variant.String(),
		Mode:      opts.Mode,
		PlayerX:   opts.PlayerX,
		PlayerO:   opts.PlayerO,
		Winner:    res.Winner,
		Moves:     res.Moves,
		Evictions: res.Evictions,
		MoveList:  res.MoveList,
		Duration:  int(elapsed.Seconds()),
	}
	if opts.Mode != core.ModeLocal {
		match.Difficulty = string(opts.Difficulty)
		match.PlayerO = "Computer"
	}
	return match
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".uttt", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one game. It reports whether the
// player asked to go back to the menu rather than quit.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.BackToMenu(), nil
	}
	return false, nil
}
