package ultimate

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/registry"
)

func testConfig(mode string) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	cfg.Match.Mode = mode
	cfg.Match.ThinkTicks = 3
	cfg.Match.Difficulty = ai.Hard
	return cfg
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func idle(g *Game, ticks int) {
	for range ticks {
		press(g)
	}
}

// moveCursor walks the cursor to the given field coordinates.
func moveCursor(g *Game, row, col int) {
	for g.row != row {
		press(g, core.ActionDown)
	}
	for g.col != col {
		press(g, core.ActionRight)
	}
}

func playAt(g *Game, board, cell int) {
	row, col := engine.GridCoords(engine.Placement{Board: board, Cell: cell})
	moveCursor(g, row, col)
	press(g, core.ActionConfirm)
}

// runJob finishes the computer's turn synchronously.
func runJob(t *testing.T, g *Game) {
	t.Helper()
	idle(g, g.opts.ThinkTicks)
	job, ok := g.NextJob()
	if !ok {
		t.Fatal("NextJob() returned no job after the thinking delay")
	}
	g.Deliver(job.Epoch, job.Run())
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDClassic, IDVanish} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("Create(%q).ID() = %q", id, g.ID())
		}
		if _, ok := g.(registry.Opponent); !ok {
			t.Errorf("%q does not implement registry.Opponent", id)
		}
	}
}

func TestIDFor(t *testing.T) {
	if got := IDFor(engine.Classic); got != IDClassic {
		t.Errorf("IDFor(Classic) = %q, want %q", got, IDClassic)
	}
	if got := IDFor(engine.Disappearing); got != IDVanish {
		t.Errorf("IDFor(Disappearing) = %q, want %q", got, IDVanish)
	}
}

func TestCursorWraps(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	if r, c := g.Cursor(); r != 4 || c != 4 {
		t.Fatalf("initial cursor = (%d,%d), want (4,4)", r, c)
	}
	for range 5 {
		press(g, core.ActionUp)
	}
	if r, _ := g.Cursor(); r != 8 {
		t.Errorf("after 5 ups row = %d, want 8", r)
	}
	for range 5 {
		press(g, core.ActionRight)
	}
	if _, c := g.Cursor(); c != 0 {
		t.Errorf("after 5 rights col = %d, want 0", c)
	}
}

func TestLocalPlaceAndFollow(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	playAt(g, 4, 0)
	if got := g.eng.HistoryLen(); got != 1 {
		t.Fatalf("HistoryLen() = %d, want 1", got)
	}
	if got := g.eng.CurrentPlayer(); got != engine.O {
		t.Errorf("CurrentPlayer() = %v, want O", got)
	}
	// X played cell 0, so O is sent to board 0 and the cursor follows.
	if p := engine.GridPlacement(g.row, g.col); p != (engine.Placement{Board: 0, Cell: 4}) {
		t.Errorf("cursor at %+v, want board 0 cell 4", p)
	}
	if g.State().Thinking {
		t.Error("local game should never think")
	}
}

func TestRejectsWrongBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	playAt(g, 4, 0)
	playAt(g, 8, 8)
	if got := g.eng.HistoryLen(); got != 1 {
		t.Errorf("move on a closed board accepted, HistoryLen() = %d", got)
	}
	if g.message == "" {
		t.Error("expected a message after an illegal placement")
	}
	idle(g, messageTicks)
	if g.message != "" {
		t.Errorf("message %q did not expire", g.message)
	}
}

func TestComputerReplies(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeComputer))

	playAt(g, 4, 4)
	if !g.State().Thinking {
		t.Fatal("computer should be thinking after X moves")
	}
	if _, ok := g.NextJob(); ok {
		t.Fatal("job handed out before the thinking delay")
	}

	// Input is locked while thinking.
	row, col := g.Cursor()
	press(g, core.ActionLeft, core.ActionConfirm)
	if r, c := g.Cursor(); r != row || c != col {
		t.Error("cursor moved while the computer was thinking")
	}

	runJob(t, g)
	if got := g.eng.HistoryLen(); got != 2 {
		t.Fatalf("HistoryLen() = %d, want 2", got)
	}
	if g.State().Thinking {
		t.Error("still thinking after Deliver")
	}
	dec, ok := g.LastDecision()
	if !ok || dec.Move.Player != engine.O {
		t.Errorf("LastDecision() = %+v, %v", dec, ok)
	}
	if dec.Move.Board != 4 {
		t.Errorf("computer played board %d, want 4", dec.Move.Board)
	}
	if _, ok := g.NextJob(); ok {
		t.Error("NextJob() returned a job on the human's turn")
	}
}

func TestJobHandedOutOnce(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeComputer))

	playAt(g, 4, 4)
	idle(g, g.opts.ThinkTicks)
	if _, ok := g.NextJob(); !ok {
		t.Fatal("first NextJob() returned nothing")
	}
	if _, ok := g.NextJob(); ok {
		t.Error("second NextJob() returned the same job again")
	}
}

func TestStaleResultIgnored(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeComputer))

	playAt(g, 4, 4)
	idle(g, g.opts.ThinkTicks)
	job, ok := g.NextJob()
	if !ok {
		t.Fatal("NextJob() returned nothing")
	}
	result := job.Run()

	// Undo while the search runs: X's move is taken back.
	press(g, core.ActionUndo)
	if got := g.eng.HistoryLen(); got != 0 {
		t.Fatalf("HistoryLen() after undo = %d, want 0", got)
	}

	g.Deliver(job.Epoch, result)
	if got := g.eng.HistoryLen(); got != 0 {
		t.Errorf("stale result applied, HistoryLen() = %d", got)
	}
	if g.State().Thinking {
		t.Error("thinking after undo on the human's turn")
	}
}

func TestStaleResultAfterReset(t *testing.T) {
	g := New()
	cfg := testConfig(core.ModeComputer)
	g.Reset(cfg)

	playAt(g, 4, 4)
	idle(g, g.opts.ThinkTicks)
	job, _ := g.NextJob()
	result := job.Run()

	g.Reset(cfg)
	g.Deliver(job.Epoch, result)
	if got := g.eng.HistoryLen(); got != 0 {
		t.Errorf("result from before Reset applied, HistoryLen() = %d", got)
	}
}

func TestUndoAgainstComputer(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeComputer))

	playAt(g, 4, 4)
	runJob(t, g)
	if got := g.eng.HistoryLen(); got != 2 {
		t.Fatalf("HistoryLen() = %d, want 2", got)
	}

	press(g, core.ActionUndo)
	if got := g.eng.HistoryLen(); got != 0 {
		t.Errorf("HistoryLen() after undo = %d, want 0", got)
	}
	if got := g.eng.CurrentPlayer(); got != engine.X {
		t.Errorf("CurrentPlayer() after undo = %v, want X", got)
	}
}

func TestUndoLocal(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	playAt(g, 4, 4)
	playAt(g, 4, 0)
	press(g, core.ActionUndo)
	if got := g.eng.HistoryLen(); got != 1 {
		t.Errorf("HistoryLen() after undo = %d, want 1", got)
	}
	if got := g.eng.CurrentPlayer(); got != engine.O {
		t.Errorf("CurrentPlayer() after undo = %v, want O", got)
	}
}

func TestFullGameAgainstComputer(t *testing.T) {
	g := NewVanish()
	cfg := testConfig(core.ModeComputer)
	cfg.Match.Difficulty = ai.Easy
	cfg.Match.ThinkTicks = 0
	g.Reset(cfg)

	// X plays the first legal cell each turn until the game ends.
	for i := 0; i < 400 && !g.State().GameOver; i++ {
		if g.State().Thinking {
			job, ok := g.NextJob()
			if !ok {
				t.Fatal("thinking without a job")
			}
			g.Deliver(job.Epoch, job.Run())
			continue
		}
		moves := ai.LegalMoves(g.eng.Board(), g.eng.Active())
		if len(moves) == 0 {
			t.Fatal("no legal moves in an unfinished game")
		}
		g.row, g.col = engine.GridCoords(moves[0])
		press(g, core.ActionConfirm)
	}

	res := g.Result()
	if res.Moves != g.eng.HistoryLen() {
		t.Errorf("Result().Moves = %d, want %d", res.Moves, g.eng.HistoryLen())
	}
	if got := len(strings.Fields(res.MoveList)); got != res.Moves {
		t.Errorf("MoveList has %d moves, want %d", got, res.Moves)
	}
	if g.State().GameOver {
		switch res.Winner {
		case "X", "O", "draw":
		default:
			t.Errorf("finished game winner = %q", res.Winner)
		}
		n := g.eng.HistoryLen()
		press(g, core.ActionUndo)
		if g.eng.HistoryLen() != n {
			t.Error("undo allowed after the game ended")
		}
	}
}

func TestRenderShowsMarksAndStatus(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))
	playAt(g, 4, 4)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "Ultimate Tic-Tac-Toe") {
		t.Error("title missing")
	}
	if !strings.Contains(out, "[X]") {
		t.Error("last move marker missing")
	}
	if !strings.Contains(out, "to move on board 4") {
		t.Errorf("status line missing, got %q", g.StatusLine())
	}

	row, col := g.Cursor()
	area := core.NewRect(0, 0, 80, 24).Centered(fieldW, layoutH)
	cx, cy := cellOrigin(area.X, area.Y+3, row, col)
	if !screen.GetCell(cx+1, cy).Reverse {
		t.Error("cursor cell not highlighted")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected the too-small message")
	}
}

func TestVanishingMarksFlash(t *testing.T) {
	g := NewVanish()
	g.Reset(testConfig(core.ModeLocal))

	// X fills three cells of board 4 while O answers elsewhere.
	for _, mv := range [][2]int{{4, 0}, {0, 4}, {4, 1}, {1, 4}, {4, 8}, {8, 4}} {
		playAt(g, mv[0], mv[1])
	}
	pending := g.vanishing()
	if !pending[engine.Placement{Board: 4, Cell: 0}] {
		t.Fatalf("vanishing() = %v, want board 4 cell 0", pending)
	}

	g.opts.FlashEvictions = false
	if got := g.vanishing(); got != nil {
		t.Errorf("vanishing() with flashing off = %v", got)
	}
}

func TestStalledGameEnds(t *testing.T) {
	g := New()
	g.Reset(testConfig(core.ModeLocal))

	x, o, e := engine.X, engine.O, engine.Empty
	var pos engine.Position
	pos.ToMove = engine.X
	pos.Active = engine.AnyBoard
	for i, m := range []engine.Mark{o, x, o, o, x, x, x, o} {
		pos.Board[i].Cells = [9]engine.Mark{m, m, m, e, e, e, e, e, e}
	}
	pos.Board[8].Cells = [9]engine.Mark{x, o, x, x, o, o, o, x, x}

	eng, err := engine.Load(pos)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	g.eng = eng

	if !g.State().GameOver {
		t.Error("stalled game should be over")
	}
	if got := g.Result().Winner; got != "none" {
		t.Errorf("Result().Winner = %q, want none", got)
	}
	if got := g.StatusLine(); !strings.Contains(got, "No board left") {
		t.Errorf("StatusLine() = %q", got)
	}
}
