package engine

import "fmt"

// Position is a read-only snapshot of a game, sufficient to search from.
type Position struct {
	Board   MetaBoard
	Active  Constraint
	ToMove  Mark
	Variant Variant
}

// Game is the move engine for one game session. It owns the board, the
// active-board constraint, the player to move and the move history.
// A Game is not safe for concurrent use; callers serialize access.
type Game struct {
	variant   Variant
	board     MetaBoard
	current   Mark
	active    Constraint
	result    Result
	history   []Move
	evictions int
}

// New returns a game in its initial state: empty boards, X to move,
// no active-board constraint.
func New(v Variant) *Game {
	g := &Game{variant: v}
	g.Reset()
	return g
}

// Load rebuilds a game from a snapshot. Sub-board and game results are
// recomputed from the cells; the history starts empty. Under Disappearing
// the move orders must list exactly the marks on each sub-board.
func Load(pos Position) (*Game, error) {
	if pos.ToMove != X && pos.ToMove != O {
		return nil, fmt.Errorf("engine: invalid player to move %v", pos.ToMove)
	}
	if !pos.Active.Any() && !validIndex(pos.Active.Board()) {
		return nil, fmt.Errorf("engine: invalid active board %d", pos.Active)
	}
	if pos.Variant == Disappearing {
		if err := checkOrders(pos.Board); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	g := &Game{
		variant: pos.Variant,
		board:   pos.Board,
		current: pos.ToMove,
		active:  pos.Active,
	}
	for i := range g.board {
		g.board[i].recompute()
		if pos.Variant == Classic {
			g.board[i].XOrder = MoveOrder{}
			g.board[i].OOrder = MoveOrder{}
		}
	}
	if !g.active.Any() && g.board[g.active.Board()].Decided() {
		g.active = AnyBoard
	}
	g.result = g.board.Outcome()
	return g, nil
}

// checkOrders verifies that each move order holds only the player's own
// marks, once each, and accounts for all of them.
func checkOrders(m MetaBoard) error {
	for i, b := range m {
		for _, p := range []Mark{X, O} {
			q := b.Order(p)
			if n := b.Count(p); n > MaxLiveMarks {
				return fmt.Errorf("%w: board %d holds %d %v marks", ErrBadOrder, i, n, p)
			}
			seen := map[int]bool{}
			for _, c := range q.Cells() {
				if !validIndex(c) || b.Cells[c] != p || seen[c] {
					return fmt.Errorf("%w: board %d %v order lists cell %d", ErrBadOrder, i, p, c)
				}
				seen[c] = true
			}
			if q.Len() != b.Count(p) {
				return fmt.Errorf("%w: board %d has unlisted %v marks", ErrBadOrder, i, p)
			}
		}
	}
	return nil
}

// Reset discards the history and returns to the initial state.
func (g *Game) Reset() {
	g.board = MetaBoard{}
	g.current = X
	g.active = AnyBoard
	g.result = Result{}
	g.history = nil
	g.evictions = 0
}

// CanPlay reports whether the player to move may play on the given board.
func (g *Game) CanPlay(board int) bool {
	if !validIndex(board) {
		return false
	}
	if g.Over() {
		return false
	}
	if g.board[board].Decided() {
		return false
	}
	return g.active.Allows(board)
}

// MakeMove plays the current player's mark. It returns false without
// changing anything if the game is over, the board is not playable, or the
// cell is occupied.
func (g *Game) MakeMove(board, cell int) bool {
	if !validIndex(cell) || !g.CanPlay(board) {
		return false
	}
	if g.board[board].Cells[cell] != Empty {
		return false
	}

	player := g.current
	if g.variant.Apply(&g.board[board], cell, player) >= 0 {
		g.evictions++
	}

	// Recomputed every move: eviction can revoke a meta win.
	g.result = g.board.Outcome()
	g.active = NextConstraint(g.board, cell)
	g.current = player.Opponent()
	g.history = append(g.history, Move{Board: board, Cell: cell, Player: player})
	return true
}

// UndoMove takes back the last move. Marks evicted by that move are not
// restored, and any game result is cleared rather than reconstructed.
func (g *Game) UndoMove() {
	if len(g.history) == 0 {
		return
	}

	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]

	sb := &g.board[last.Board]
	sb.Cells[last.Cell] = Empty
	sb.order(last.Player).remove(last.Cell)
	sb.recompute()

	g.result = Result{}
	g.current = last.Player

	if len(g.history) == 0 {
		g.active = AnyBoard
		return
	}
	prev := g.history[len(g.history)-1]
	g.active = NextConstraint(g.board, prev.Cell)
}

// Variant returns the rule set in use.
func (g *Game) Variant() Variant {
	return g.variant
}

// Board returns a copy of the meta-board.
func (g *Game) Board() MetaBoard {
	return g.board
}

// CurrentPlayer returns the player to move.
func (g *Game) CurrentPlayer() Mark {
	return g.current
}

// Active returns the active-board constraint.
func (g *Game) Active() Constraint {
	return g.active
}

// Winner returns the game result and, for a line win, the sub-boards
// forming the line.
func (g *Game) Winner() Result {
	return g.result
}

// Over reports whether the game has ended: it is decided, or no sub-board
// is left to play on.
func (g *Game) Over() bool {
	return g.result.Winner.Decided() || g.board.Stalled()
}

// Stalled reports whether the game ended without a result because every
// sub-board is decided and no meta line exists.
func (g *Game) Stalled() bool {
	return !g.result.Winner.Decided() && g.board.Stalled()
}

// HistoryLen returns the number of moves played.
func (g *Game) HistoryLen() int {
	return len(g.history)
}

// History returns a copy of the move history, oldest first.
func (g *Game) History() []Move {
	out := make([]Move, len(g.history))
	copy(out, g.history)
	return out
}

// LastMove returns the most recent move.
func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// Evictions returns how many marks have disappeared this game.
func (g *Game) Evictions() int {
	return g.evictions
}

// Position returns a snapshot suitable for handing to a search.
func (g *Game) Position() Position {
	return Position{
		Board:   g.board,
		Active:  g.active,
		ToMove:  g.current,
		Variant: g.variant,
	}
}

// PendingEvictions lists, for the player to move, the mark that would
// disappear on each sub-board where they already hold MaxLiveMarks marks.
// It is always empty under Classic.
func (g *Game) PendingEvictions() []Placement {
	if g.variant != Disappearing || g.Over() {
		return nil
	}
	var out []Placement
	for i, b := range g.board {
		q := b.Order(g.current)
		if q.Len() < MaxLiveMarks {
			continue
		}
		if cell, ok := q.Oldest(); ok {
			out = append(out, Placement{Board: i, Cell: cell})
		}
	}
	return out
}
