// Package engine implements the Ultimate Tic-Tac-Toe rules: nine 3x3
// sub-boards arranged on a 3x3 meta-board, where the cell a player marks
// decides which sub-board the opponent must play next.
//
// The package has no UI or I/O dependencies beyond the textual fixture
// notation. All board types are plain values, so copying a MetaBoard yields
// an independent snapshot that can be simulated on freely.
package engine

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// String returns "X", "O" or "." for an empty cell.
func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// Opponent returns the other player. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Winner is the result of a sub-board or of the whole game.
type Winner uint8

const (
	NoWinner Winner = iota
	WinnerX
	WinnerO
	Draw
)

// String returns a short human-readable name.
func (w Winner) String() string {
	switch w {
	case WinnerX:
		return "X"
	case WinnerO:
		return "O"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// Decided reports whether the board has a winner or is drawn.
func (w Winner) Decided() bool {
	return w != NoWinner
}

// Mark returns the winning player's mark, or Empty for a draw or no result.
func (w Winner) Mark() Mark {
	switch w {
	case WinnerX:
		return X
	case WinnerO:
		return O
	default:
		return Empty
	}
}

// WinnerOf converts a player's mark into the matching Winner.
func WinnerOf(m Mark) Winner {
	switch m {
	case X:
		return WinnerX
	case O:
		return WinnerO
	default:
		return NoWinner
	}
}
