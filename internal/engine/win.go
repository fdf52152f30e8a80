package engine

// Line is a triple of cell (or sub-board) indices.
// The zero value is not a valid line.
type Line [3]int

// Valid reports whether the line holds three distinct indices.
func (l Line) Valid() bool {
	return l[0] != l[1]
}

// Lines are the eight winning lines of a 3x3 grid in checking order:
// rows, then columns, then diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Result is a winner together with the line that produced it.
// Line is only valid for WinnerX and WinnerO.
type Result struct {
	Winner Winner
	Line   Line
}

// Evaluate decides a 3x3 grid. The first line in Lines whose three cells
// hold the same mark wins; otherwise a grid with no empty cell is a draw.
func Evaluate(cells [9]Mark) Result {
	for _, l := range Lines {
		a := cells[l[0]]
		if a != Empty && a == cells[l[1]] && a == cells[l[2]] {
			return Result{Winner: WinnerOf(a), Line: l}
		}
	}

	for _, c := range cells {
		if c == Empty {
			return Result{}
		}
	}
	return Result{Winner: Draw}
}
