package engine

import "fmt"

// Variant selects how a placement is applied to a sub-board.
type Variant uint8

const (
	// Classic marks are permanent.
	Classic Variant = iota
	// Disappearing keeps at most MaxLiveMarks marks per player per
	// sub-board; the fourth evicts that player's oldest mark there.
	Disappearing
)

// String returns the variant name used in config and notation.
func (v Variant) String() string {
	if v == Disappearing {
		return "disappearing"
	}
	return "classic"
}

// ParseVariant accepts the names produced by String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "classic", "":
		return Classic, nil
	case "disappearing", "vanish":
		return Disappearing, nil
	default:
		return Classic, fmt.Errorf("engine: unknown variant %q", s)
	}
}

// Apply places p on cell of b and recomputes the sub-board from scratch.
// Under Disappearing the player's oldest mark is evicted first when they
// already hold MaxLiveMarks on this board; the evicted cell is returned, or
// -1 when nothing was evicted. The target cell must be empty.
//
// Because the winner is recomputed after eviction, a previously won
// sub-board can fall back to undecided.
func (v Variant) Apply(b *SubBoard, cell int, p Mark) int {
	evicted := -1
	if v == Disappearing {
		q := b.order(p)
		if q.Len() >= MaxLiveMarks {
			evicted = q.popOldest()
			b.Cells[evicted] = Empty
		}
	}

	b.Cells[cell] = p
	if v == Disappearing {
		b.order(p).push(cell)
	}

	b.recompute()
	return evicted
}

// Constraint is the active-board constraint: AnyBoard or a board index.
type Constraint int8

// AnyBoard lets the player to move choose any undecided sub-board.
const AnyBoard Constraint = -1

// OnBoard returns a constraint pinned to the given board.
func OnBoard(board int) Constraint {
	return Constraint(board)
}

// Any reports whether the constraint leaves every board open.
func (c Constraint) Any() bool {
	return c < 0
}

// Board returns the constrained board index, or -1 for AnyBoard.
func (c Constraint) Board() int {
	if c.Any() {
		return -1
	}
	return int(c)
}

// Allows reports whether the constraint permits the given board.
func (c Constraint) Allows(board int) bool {
	return c.Any() || int(c) == board
}

// String returns "any" or the board index.
func (c Constraint) String() string {
	if c.Any() {
		return "any"
	}
	return fmt.Sprintf("%d", int(c))
}

// NextConstraint returns where the opponent must play after a mark on
// cell: sub-board cell, unless that sub-board is decided or full.
func NextConstraint(m MetaBoard, cell int) Constraint {
	if !validIndex(cell) {
		return AnyBoard
	}
	target := m[cell]
	if target.Decided() || target.Full() {
		return AnyBoard
	}
	return OnBoard(cell)
}
