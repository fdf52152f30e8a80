package engine

// Board geometry.
const (
	BoardCount   = 9 // sub-boards on the meta-board
	CellCount    = 9 // cells per sub-board
	MaxLiveMarks = 3 // per player per sub-board in the disappearing variant
)

// MoveOrder is the oldest-first queue of cells a player currently holds on
// one sub-board. It is only maintained under the disappearing variant.
type MoveOrder struct {
	cells [MaxLiveMarks]int8
	n     uint8
}

// Len returns the number of tracked marks.
func (q MoveOrder) Len() int {
	return int(q.n)
}

// Oldest returns the cell of the oldest tracked mark.
func (q MoveOrder) Oldest() (int, bool) {
	if q.n == 0 {
		return 0, false
	}
	return int(q.cells[0]), true
}

// Cells returns the tracked cells, oldest first.
func (q MoveOrder) Cells() []int {
	out := make([]int, q.n)
	for i := range out {
		out[i] = int(q.cells[i])
	}
	return out
}

// Contains reports whether the cell is tracked.
func (q MoveOrder) Contains(cell int) bool {
	for i := 0; i < int(q.n); i++ {
		if int(q.cells[i]) == cell {
			return true
		}
	}
	return false
}

// push appends a cell. A full queue drops its oldest entry first, though
// callers always evict before pushing onto a full queue.
func (q *MoveOrder) push(cell int) {
	if int(q.n) == MaxLiveMarks {
		q.popOldest()
	}
	q.cells[q.n] = int8(cell)
	q.n++
}

// popOldest removes and returns the oldest cell, or -1 if empty.
func (q *MoveOrder) popOldest() int {
	if q.n == 0 {
		return -1
	}
	oldest := int(q.cells[0])
	copy(q.cells[:], q.cells[1:q.n])
	q.n--
	q.cells[q.n] = 0
	return oldest
}

// remove deletes a cell wherever it sits in the queue.
func (q *MoveOrder) remove(cell int) bool {
	for i := 0; i < int(q.n); i++ {
		if int(q.cells[i]) != cell {
			continue
		}
		copy(q.cells[i:], q.cells[i+1:q.n])
		q.n--
		q.cells[q.n] = 0
		return true
	}
	return false
}

// SubBoard is one 3x3 board. Cells are indexed row-major 0-8.
type SubBoard struct {
	Cells   [CellCount]Mark
	Winner  Winner
	WinLine Line

	XOrder MoveOrder
	OOrder MoveOrder
}

// Decided reports whether the sub-board is won or drawn.
func (b SubBoard) Decided() bool {
	return b.Winner.Decided()
}

// Full reports whether every cell is occupied.
func (b SubBoard) Full() bool {
	for _, c := range b.Cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Order returns the move order of the given player.
func (b SubBoard) Order(p Mark) MoveOrder {
	if p == O {
		return b.OOrder
	}
	return b.XOrder
}

func (b *SubBoard) order(p Mark) *MoveOrder {
	if p == O {
		return &b.OOrder
	}
	return &b.XOrder
}

// Count returns how many cells hold the given mark.
func (b SubBoard) Count(m Mark) int {
	n := 0
	for _, c := range b.Cells {
		if c == m {
			n++
		}
	}
	return n
}

// recompute derives the winner and line from the cells alone.
func (b *SubBoard) recompute() {
	r := Evaluate(b.Cells)
	b.Winner = r.Winner
	b.WinLine = r.Line
}

// MetaBoard is the 3x3 arrangement of sub-boards. Sub-board i sits at the
// same grid position as cell i inside a sub-board.
type MetaBoard [BoardCount]SubBoard

// Results returns the sub-board winners as marks. Drawn sub-boards are
// neutral and map to Empty so they never complete a meta line.
func (m MetaBoard) Results() [BoardCount]Mark {
	var out [BoardCount]Mark
	for i, b := range m {
		out[i] = b.Winner.Mark()
	}
	return out
}

// Outcome decides the meta-game from the sub-board results alone. A drawn
// sub-board is neutral, so the game is only drawn when all nine are won
// and no line forms.
func (m MetaBoard) Outcome() Result {
	return Evaluate(m.Results())
}

// Stalled reports whether every sub-board is decided while the meta-game
// is not. Such a position has no legal moves and no winner.
func (m MetaBoard) Stalled() bool {
	for _, b := range m {
		if !b.Decided() {
			return false
		}
	}
	return !m.Outcome().Winner.Decided()
}

// Marks returns the number of occupied cells across all sub-boards.
func (m MetaBoard) Marks() int {
	n := 0
	for _, b := range m {
		n += CellCount - b.Count(Empty)
	}
	return n
}

// Swapped returns the board with X and O exchanged everywhere, including
// sub-board winners and move orders.
func (m MetaBoard) Swapped() MetaBoard {
	var out MetaBoard
	for i, b := range m {
		s := SubBoard{
			WinLine: b.WinLine,
			XOrder:  b.OOrder,
			OOrder:  b.XOrder,
		}
		for c, v := range b.Cells {
			s.Cells[c] = v.Opponent()
		}
		switch b.Winner {
		case WinnerX:
			s.Winner = WinnerO
		case WinnerO:
			s.Winner = WinnerX
		default:
			s.Winner = b.Winner
		}
		out[i] = s
	}
	return out
}

// Placement addresses one cell on the meta-board.
type Placement struct {
	Board int
	Cell  int
}

// Move is a placement made by a player. Moves are immutable once recorded.
type Move struct {
	Board  int
	Cell   int
	Player Mark
}

// Placement returns the move's target.
func (mv Move) Placement() Placement {
	return Placement{Board: mv.Board, Cell: mv.Cell}
}

func validIndex(i int) bool {
	return i >= 0 && i < 9
}
