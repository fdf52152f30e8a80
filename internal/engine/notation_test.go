package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCoordsRoundTrip(t *testing.T) {
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			p := GridPlacement(row, col)
			r, c := GridCoords(p)
			if r != row || c != col {
				t.Errorf("GridCoords(GridPlacement(%d, %d)) = (%d, %d)", row, col, r, c)
			}
		}
	}
	assert.Equal(t, Placement{Board: 4, Cell: 4}, GridPlacement(4, 4))
	assert.Equal(t, Placement{Board: 2, Cell: 3}, GridPlacement(1, 6))
}

func TestParsePosition(t *testing.T) {
	const fixture = `
# opening after two moves
# variant: classic
# to-move: X
# active: 4

...|...|...
...|.X.|...
...|...|...
---+---+---
...|...|...
...|.O.|...
...|...|...
---+---+---
...|...|...
...|...|...
...|...|...
`
	pos, err := ParsePosition(strings.NewReader(fixture))
	require.NoError(t, err)
	assert.Equal(t, Classic, pos.Variant)
	assert.Equal(t, X, pos.ToMove)
	assert.Equal(t, OnBoard(4), pos.Active)
	assert.Equal(t, X, pos.Board[1].Cells[4])
	assert.Equal(t, O, pos.Board[4].Cells[4])
	assert.Equal(t, 2, pos.Board.Marks())
}

func TestParsePositionDefaults(t *testing.T) {
	rows := strings.Repeat(".........\n", 8)
	pos, err := ParsePosition(strings.NewReader("X........\n" + rows))
	require.NoError(t, err)
	assert.Equal(t, Classic, pos.Variant)
	assert.Equal(t, O, pos.ToMove, "to-move inferred from counts")
	assert.True(t, pos.Active.Any())
}

func TestParsePositionErrors(t *testing.T) {
	empty := strings.Repeat(".........\n", 9)

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"too few rows", strings.Repeat(".........\n", 8), ErrBadGrid},
		{"too many rows", empty + ".........\n", ErrBadGrid},
		{"short row", "........\n" + strings.Repeat(".........\n", 8), ErrBadGrid},
		{"bad character", "....Z....\n" + strings.Repeat(".........\n", 8), ErrBadGrid},
		{"bad variant", "# variant: giant\n" + empty, ErrBadHeader},
		{"bad active", "# active: 12\n" + empty, ErrBadHeader},
		{"bad to-move", "# to-move: Z\n" + empty, ErrBadHeader},
		{"order off grid", "# variant: disappearing\n# x-order: 0.0\n" + empty, ErrBadOrder},
		{"unlisted marks", "# variant: disappearing\n# x-order: -\nX........\n" + strings.Repeat(".........\n", 8), ErrBadOrder},
		{"four live marks", "# variant: disappearing\nXX.......\nXX.......\n" + strings.Repeat(".........\n", 7), ErrBadOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePosition(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, v := range []Variant{Classic, Disappearing} {
		t.Run(v.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(5))
			for game := 0; game < 20; game++ {
				g := New(v)
				for n := 0; n < 40 && !g.Over(); n++ {
					moves := legal(g)
					p := moves[rng.Intn(len(moves))]
					require.True(t, g.MakeMove(p.Board, p.Cell))
				}

				want := g.Position()
				text := FormatPosition(want)
				got, err := ParsePosition(strings.NewReader(text))
				require.NoError(t, err, text)
				require.Equal(t, want, got, text)
			}
		})
	}
}

func TestLoadParsedDisappearingOrder(t *testing.T) {
	const fixture = `
# variant: disappearing
# to-move: X
# active: 3
# x-order: 3.3 3.0 3.1
# o-order: 3.7
.........
.........
.........
XX.......
X........
.O.......
.........
.........
.........
`
	pos, err := ParsePosition(strings.NewReader(fixture))
	require.NoError(t, err)

	g, err := Load(pos)
	require.NoError(t, err)
	assert.Equal(t, []Placement{{Board: 3, Cell: 3}}, g.PendingEvictions())

	require.True(t, g.MakeMove(3, 5))
	sb := g.Board()[3]
	assert.Equal(t, Empty, sb.Cells[3])
	assert.Equal(t, []int{0, 1, 5}, sb.XOrder.Cells())
}

func TestReplayMoves(t *testing.T) {
	g := New(Classic)
	play(t, g, Placement{4, 4}, Placement{4, 0}, Placement{0, 8})

	list := FormatMoves(g.History())
	assert.Equal(t, "4.4 4.0 0.8", list)

	replayed, err := ReplayMoves(Classic, list)
	require.NoError(t, err)
	assert.Equal(t, g.Position(), replayed.Position())

	_, err = ReplayMoves(Classic, "4.4 3.0")
	assert.Error(t, err)
	_, err = ReplayMoves(Classic, "4-4")
	assert.Error(t, err)
}

func TestParsePlacement(t *testing.T) {
	p, err := ParsePlacement("8.2")
	require.NoError(t, err)
	assert.Equal(t, Placement{Board: 8, Cell: 2}, p)

	for _, bad := range []string{"", "4", "4.", ".4", "9.0", "0.9", "-1.0", "a.b"} {
		_, err := ParsePlacement(bad)
		assert.Error(t, err, "ParsePlacement(%q)", bad)
	}
}
