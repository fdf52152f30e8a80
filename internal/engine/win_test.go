package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func grid(s string) [9]Mark {
	var cells [9]Mark
	for i, r := range s {
		switch r {
		case 'X':
			cells[i] = X
		case 'O':
			cells[i] = O
		}
	}
	return cells
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		cells string
		want  Winner
		line  Line
	}{
		{"empty", ".........", NoWinner, Line{}},
		{"top row", "XXX.O.O..", WinnerX, Line{0, 1, 2}},
		{"middle column", ".O..O..O.", WinnerO, Line{1, 4, 7}},
		{"main diagonal", "X...X...X", WinnerX, Line{0, 4, 8}},
		{"anti diagonal", "..O.O.O..", WinnerO, Line{2, 4, 6}},
		{"full draw", "XOXXOOOXX", Draw, Line{}},
		{"win on full board", "XXXOOXOXO", WinnerX, Line{0, 1, 2}},
		{"open", "XO.......", NoWinner, Line{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(grid(tt.cells))
			assert.Equal(t, tt.want, got.Winner)
			assert.Equal(t, tt.line, got.Line)
		})
	}
}

func TestEvaluateFirstLineWins(t *testing.T) {
	// Row 0 and column 0 both complete; rows are checked first.
	got := Evaluate(grid("XXXX..X.."))
	assert.Equal(t, Line{0, 1, 2}, got.Line)
}

// symmetries of the 3x3 grid as (row, col) maps.
var symmetries = []func(r, c int) (int, int){
	func(r, c int) (int, int) { return r, c },
	func(r, c int) (int, int) { return c, 2 - r },
	func(r, c int) (int, int) { return 2 - r, 2 - c },
	func(r, c int) (int, int) { return 2 - c, r },
	func(r, c int) (int, int) { return r, 2 - c },
	func(r, c int) (int, int) { return 2 - r, c },
	func(r, c int) (int, int) { return c, r },
	func(r, c int) (int, int) { return 2 - c, 2 - r },
}

func transform(cells [9]Mark, f func(r, c int) (int, int)) [9]Mark {
	var out [9]Mark
	for i, m := range cells {
		r, c := f(i/3, i%3)
		out[r*3+c] = m
	}
	return out
}

func hasLine(cells [9]Mark, m Mark) bool {
	for _, l := range Lines {
		if cells[l[0]] == m && cells[l[1]] == m && cells[l[2]] == m {
			return true
		}
	}
	return false
}

func TestEvaluateSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	checked := 0
	for checked < 2000 {
		var cells [9]Mark
		for i := range cells {
			cells[i] = Mark(rng.Intn(3))
		}
		// Grids where both players hold a line depend on checking order.
		if hasLine(cells, X) && hasLine(cells, O) {
			continue
		}
		checked++

		want := Evaluate(cells).Winner
		for i, f := range symmetries {
			got := Evaluate(transform(cells, f)).Winner
			if got != want {
				t.Fatalf("symmetry %d of %v: Evaluate() = %v, want %v", i, cells, got, want)
			}
		}
	}
}

func TestMetaOutcomeTreatsDrawAsNeutral(t *testing.T) {
	var m MetaBoard
	m[0].Winner = WinnerX
	m[1].Winner = Draw
	m[2].Winner = WinnerX

	assert.Equal(t, NoWinner, m.Outcome().Winner)

	m[1].Winner = WinnerX
	got := m.Outcome()
	assert.Equal(t, WinnerX, got.Winner)
	assert.Equal(t, Line{0, 1, 2}, got.Line)
}

func TestMetaOutcomeWithDrawnBoardIsUndecided(t *testing.T) {
	var m MetaBoard
	results := []Winner{WinnerO, WinnerX, WinnerO, WinnerO, WinnerX, WinnerX, WinnerX, WinnerO, Draw}
	for i, w := range results {
		m[i].Winner = w
	}
	assert.Equal(t, NoWinner, m.Outcome().Winner)
	assert.True(t, m.Stalled())

	// Nine won boards without a line draw the game.
	m[8].Winner = WinnerX
	got := m.Outcome()
	assert.Equal(t, Draw, got.Winner)
	assert.False(t, got.Line.Valid())
	assert.False(t, m.Stalled())

	m[8].Winner = NoWinner
	assert.False(t, m.Stalled(), "an open board is still playable")
}
