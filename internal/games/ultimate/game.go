// Package ultimate is the playable Ultimate Tic-Tac-Toe game: a cursor over
// the 9x9 field, local hot-seat or play against the computer, in the classic
// and the disappearing variant.
package ultimate

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/registry"
)

// Registered game IDs.
const (
	IDClassic = "ultimate"
	IDVanish  = "ultimate_vanish"
)

// The computer always plays O.
const computerMark = engine.O

const messageTicks = 90

// Game implements registry.Game and registry.Opponent.
type Game struct {
	variant engine.Variant
	eng     *engine.Game
	opts    core.MatchOptions
	logger  *log.Logger

	tick     uint64
	tickRate int
	seeds    *rand.Rand // nil when unseeded

	// Cursor over the 9x9 field.
	row, col int

	thinking  bool
	thinkLeft int
	jobReady  bool
	jobIssued bool
	epoch     uint64
	last      *ai.Decision

	message      string
	messageTimer int

	tooSmall bool
}

// thinkResult is what a search job hands back to Deliver.
type thinkResult struct {
	decision ai.Decision
	ok       bool
	elapsed  time.Duration
}

// New creates a classic game.
func New() *Game {
	return &Game{variant: engine.Classic}
}

// NewVanish creates a disappearing-variant game.
func NewVanish() *Game {
	return &Game{variant: engine.Disappearing}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New()
	})
	registry.Register(IDVanish, func() registry.Game {
		return NewVanish()
	})
}

// IDFor returns the registered game ID for a variant.
func IDFor(v engine.Variant) string {
	if v == engine.Disappearing {
		return IDVanish
	}
	return IDClassic
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return IDFor(g.variant)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == engine.Disappearing {
		return "Ultimate Tic-Tac-Toe (Disappearing)"
	}
	return "Ultimate Tic-Tac-Toe"
}

// Variant returns the rule set this game plays.
func (g *Game) Variant() engine.Variant {
	return g.variant
}

// Reset starts a new game. Search jobs handed out before the reset are
// invalidated.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.opts = cfg.Match
	g.logger = cfg.Logger
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.seeds = nil
	if cfg.Seed != 0 {
		g.seeds = rand.New(rand.NewSource(cfg.Seed))
	}

	g.eng = engine.New(g.variant)
	g.tick = 0
	g.row, g.col = 4, 4
	g.last = nil
	g.message = ""
	g.messageTimer = 0
	g.cancelThinking()
	g.maybeStartThinking()
}

// Engine exposes the underlying rules engine for inspection.
func (g *Game) Engine() *engine.Game {
	return g.eng
}

// Cursor returns the cursor's field coordinates.
func (g *Game) Cursor() (row, col int) {
	return g.row, g.col
}

// LastDecision returns the computer's most recent decision, if any.
func (g *Game) LastDecision() (ai.Decision, bool) {
	if g.last == nil {
		return ai.Decision{}, false
	}
	return *g.last, true
}

func (g *Game) vsComputer() bool {
	return g.opts.Mode != core.ModeLocal
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.messageTimer > 0 {
		g.messageTimer--
		if g.messageTimer == 0 {
			g.message = ""
		}
	}

	if in.Has(core.ActionUndo) {
		g.undo()
		return core.StepResult{State: g.State()}
	}

	if g.thinking {
		if !g.jobReady {
			g.thinkLeft--
			if g.thinkLeft <= 0 {
				g.jobReady = true
			}
		}
		return core.StepResult{State: g.State()}
	}

	if g.eng.Over() {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionUp):
		g.row = core.Wrap(g.row-1, 9)
	case in.Has(core.ActionDown):
		g.row = core.Wrap(g.row+1, 9)
	case in.Has(core.ActionLeft):
		g.col = core.Wrap(g.col-1, 9)
	case in.Has(core.ActionRight):
		g.col = core.Wrap(g.col+1, 9)
	}

	if in.Has(core.ActionConfirm) {
		g.place()
	}

	return core.StepResult{State: g.State()}
}

// place puts the current player's mark under the cursor.
func (g *Game) place() {
	p := engine.GridPlacement(g.row, g.col)
	if !g.eng.CanPlay(p.Board) {
		g.flash("Play on the highlighted board")
		return
	}
	if !g.eng.MakeMove(p.Board, p.Cell) {
		g.flash("Cell taken")
		return
	}
	g.afterMove()
}

func (g *Game) afterMove() {
	if g.eng.Over() {
		g.logger.Info("game over", "game", g.ID(), "winner", g.eng.Winner().Winner, "moves", g.eng.HistoryLen())
		return
	}
	g.followConstraint()
	g.maybeStartThinking()
}

// followConstraint moves the cursor to the centre of the board the next
// player is sent to, unless it is already there.
func (g *Game) followConstraint() {
	active := g.eng.Active()
	if active.Any() {
		return
	}
	if engine.GridPlacement(g.row, g.col).Board == active.Board() {
		return
	}
	g.row, g.col = engine.GridCoords(engine.Placement{Board: active.Board(), Cell: 4})
}

// undo takes back the last move. Against the computer it keeps going until
// it is the human's turn again.
func (g *Game) undo() {
	if g.eng.HistoryLen() == 0 || g.eng.Over() {
		return
	}
	g.cancelThinking()
	g.eng.UndoMove()
	if g.vsComputer() && g.eng.CurrentPlayer() == computerMark && g.eng.HistoryLen() > 0 {
		g.eng.UndoMove()
	}
	g.last = nil
	g.followConstraint()
	g.maybeStartThinking()
}

func (g *Game) maybeStartThinking() {
	if !g.vsComputer() || g.eng.Over() || g.eng.CurrentPlayer() != computerMark {
		return
	}
	g.thinking = true
	g.thinkLeft = g.opts.ThinkTicks
	g.jobReady = g.thinkLeft <= 0
	g.jobIssued = false
}

// cancelThinking drops any pending search and bumps the epoch so results
// already in flight are discarded.
func (g *Game) cancelThinking() {
	g.thinking = false
	g.jobReady = false
	g.jobIssued = false
	g.epoch++
}

// NextJob hands out the computer's search once the thinking delay is over.
func (g *Game) NextJob() (registry.Job, bool) {
	if !g.thinking || !g.jobReady || g.jobIssued {
		return registry.Job{}, false
	}
	g.jobIssued = true

	pos := g.eng.Position()
	difficulty := g.opts.Difficulty
	searcher := ai.New(ai.NewRand(g.nextSeed()), ai.WithTuning(g.opts.Tuning))

	return registry.Job{
		Epoch: g.epoch,
		Run: func() any {
			start := time.Now()
			dec, ok := searcher.ComputeMoveFor(pos.ToMove, pos.Board, pos.Active, difficulty, pos.Variant)
			return thinkResult{decision: dec, ok: ok, elapsed: time.Since(start)}
		},
	}, true
}

// nextSeed derives a per-job seed so jobs never share a random source.
func (g *Game) nextSeed() int64 {
	if g.seeds == nil {
		return 0
	}
	return g.seeds.Int63() | 1
}

// Deliver applies a finished search. Results from an older epoch are
// dropped.
func (g *Game) Deliver(epoch uint64, result any) {
	if epoch != g.epoch || !g.thinking {
		return
	}
	res, ok := result.(thinkResult)
	if !ok {
		return
	}
	g.thinking = false
	g.jobReady = false
	g.jobIssued = false

	if !res.ok {
		g.logger.Warn("computer found no legal move", "game", g.ID())
		return
	}

	dec := res.decision
	g.logger.Debug("computer move",
		"move", engine.FormatMoves([]engine.Move{dec.Move}),
		"difficulty", g.opts.Difficulty,
		"random", dec.Random,
		"score", dec.Score,
		"depth", dec.Depth,
		"nodes", dec.Nodes,
		"elapsed", res.elapsed,
	)
	if !g.eng.MakeMove(dec.Move.Board, dec.Move.Cell) {
		g.logger.Error("computer move rejected", "board", dec.Move.Board, "cell", dec.Move.Cell)
		return
	}
	g.last = &dec
	g.row, g.col = engine.GridCoords(dec.Move.Placement())
	g.afterMove()
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTimer = messageTicks
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		GameOver: g.eng.Over(),
		Thinking: g.thinking,
		Result:   g.Result(),
	}
}

// Result summarizes the game for storage.
func (g *Game) Result() core.MatchResult {
	return core.MatchResult{
		Winner:    g.eng.Winner().Winner.String(),
		Moves:     g.eng.HistoryLen(),
		Evictions: g.eng.Evictions(),
		MoveList:  engine.FormatMoves(g.eng.History()),
	}
}
