package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, g *Game, moves ...Placement) {
	t.Helper()
	for i, p := range moves {
		require.Truef(t, g.MakeMove(p.Board, p.Cell), "move %d %+v rejected", i, p)
	}
}

func legal(g *Game) []Placement {
	var out []Placement
	for b := 0; b < BoardCount; b++ {
		if !g.CanPlay(b) {
			continue
		}
		for c, m := range g.board[b].Cells {
			if m == Empty {
				out = append(out, Placement{Board: b, Cell: c})
			}
		}
	}
	return out
}

func TestNewGame(t *testing.T) {
	g := New(Classic)
	assert.Equal(t, X, g.CurrentPlayer())
	assert.True(t, g.Active().Any())
	assert.Equal(t, NoWinner, g.Winner().Winner)
	assert.Zero(t, g.HistoryLen())
	assert.Equal(t, MetaBoard{}, g.Board())
	for b := 0; b < BoardCount; b++ {
		assert.True(t, g.CanPlay(b))
	}
}

func TestMakeMoveRejects(t *testing.T) {
	tests := []struct {
		name  string
		setup []Placement
		board int
		cell  int
	}{
		{"board out of range", nil, 9, 0},
		{"negative board", nil, -1, 0},
		{"cell out of range", nil, 0, 9},
		{"occupied cell", []Placement{{4, 4}}, 4, 4},
		{"wrong board", []Placement{{4, 2}}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Classic)
			play(t, g, tt.setup...)
			before := g.Position()
			hist := g.HistoryLen()

			assert.False(t, g.MakeMove(tt.board, tt.cell))
			assert.Equal(t, before, g.Position())
			assert.Equal(t, hist, g.HistoryLen())
		})
	}
}

func TestDiagonalWinOnCenterBoard(t *testing.T) {
	g := New(Classic)
	play(t, g,
		Placement{4, 0}, Placement{0, 4},
		Placement{4, 4}, Placement{4, 1},
		Placement{1, 2}, Placement{2, 4},
		Placement{4, 8},
	)

	sb := g.Board()[4]
	assert.Equal(t, WinnerX, sb.Winner)
	assert.Equal(t, Line{0, 4, 8}, sb.WinLine)
	// Sub-board 8 is still open, so O is sent there.
	assert.Equal(t, OnBoard(8), g.Active())
	assert.False(t, g.CanPlay(4))

	// A cell 4 now points at the decided centre board.
	play(t, g, Placement{8, 4})
	assert.True(t, g.Active().Any())
	assert.False(t, g.CanPlay(4))
	for c := range sb.Cells {
		assert.False(t, g.MakeMove(4, c))
	}
}

func TestDisappearingEvictsOldest(t *testing.T) {
	g := New(Disappearing)
	play(t, g,
		Placement{3, 0}, Placement{0, 3},
		Placement{3, 3}, Placement{3, 7},
		Placement{7, 1}, Placement{1, 3},
		Placement{3, 1}, Placement{1, 4},
		Placement{4, 2}, Placement{2, 3},
	)

	require.Equal(t, OnBoard(3), g.Active())
	require.Equal(t, X, g.CurrentPlayer())
	assert.Equal(t, []int{0, 3, 1}, g.Board()[3].XOrder.Cells())
	assert.Contains(t, g.PendingEvictions(), Placement{Board: 3, Cell: 0})

	play(t, g, Placement{3, 5})

	sb := g.Board()[3]
	assert.Equal(t, Empty, sb.Cells[0])
	assert.Equal(t, X, sb.Cells[5])
	assert.Equal(t, []int{3, 1, 5}, sb.XOrder.Cells())
	assert.Equal(t, []int{7}, sb.OOrder.Cells())
	assert.Equal(t, 1, g.Evictions())
	assert.Equal(t, NoWinner, sb.Winner)
}

func TestPendingEvictionsEmptyInClassic(t *testing.T) {
	g := New(Classic)
	play(t, g, Placement{3, 0}, Placement{0, 3}, Placement{3, 3}, Placement{3, 4})
	assert.Empty(t, g.PendingEvictions())
}

func TestUndoRestoresClassicState(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for game := 0; game < 50; game++ {
		g := New(Classic)
		for !g.Over() {
			moves := legal(g)
			require.NotEmpty(t, moves)
			p := moves[rng.Intn(len(moves))]

			before := g.Position()
			hist := g.HistoryLen()
			require.True(t, g.MakeMove(p.Board, p.Cell))
			g.UndoMove()
			require.Equal(t, before, g.Position(), "undo of %+v", p)
			require.Equal(t, hist, g.HistoryLen())

			require.True(t, g.MakeMove(p.Board, p.Cell))
		}
	}
}

func TestUndoClearsWinner(t *testing.T) {
	g := New(Classic)
	play(t, g,
		Placement{0, 0}, Placement{0, 3},
		Placement{3, 0}, Placement{0, 4},
		Placement{4, 0}, Placement{0, 5}, // O wins board 0
	)
	require.Equal(t, WinnerO, g.Board()[0].Winner)

	g.UndoMove()
	assert.Equal(t, NoWinner, g.Board()[0].Winner)
	assert.Equal(t, O, g.CurrentPlayer())
	assert.Equal(t, OnBoard(0), g.Active())
}

func TestUndoOnEmptyHistory(t *testing.T) {
	g := New(Disappearing)
	g.UndoMove()
	assert.Equal(t, New(Disappearing).Position(), g.Position())
}

func TestReset(t *testing.T) {
	g := New(Disappearing)
	play(t, g, Placement{4, 4}, Placement{4, 0})
	g.Reset()
	assert.Equal(t, New(Disappearing).Position(), g.Position())
	assert.Zero(t, g.HistoryLen())
	assert.Zero(t, g.Evictions())
}

// TestRandomPlayoutInvariants plays random games in both variants and
// checks the structural invariants after every move.
func TestRandomPlayoutInvariants(t *testing.T) {
	for _, v := range []Variant{Classic, Disappearing} {
		t.Run(v.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			for game := 0; game < 100; game++ {
				g := New(v)
				for n := 0; n < 400 && !g.Over(); n++ {
					moves := legal(g)
					require.NotEmpty(t, moves, "unfinished game with no legal move")
					p := moves[rng.Intn(len(moves))]
					require.True(t, g.MakeMove(p.Board, p.Cell))
					checkInvariants(t, g, p)
				}
				if g.Stalled() {
					require.Empty(t, legal(g))
					require.Equal(t, NoWinner, g.Winner().Winner)
				}
			}
		})
	}
}

func checkInvariants(t *testing.T, g *Game, last Placement) {
	t.Helper()
	m := g.Board()

	switch g.Variant() {
	case Classic:
		require.Equal(t, g.HistoryLen(), m.Marks())
	case Disappearing:
		require.Equal(t, g.HistoryLen()-g.Evictions(), m.Marks())
	}

	require.Equal(t, NextConstraint(m, last.Cell), g.Active())
	require.Equal(t, m.Outcome(), g.Winner())

	for i, b := range m {
		require.Equal(t, Evaluate(b.Cells).Winner, b.Winner, "board %d", i)

		if g.Variant() == Disappearing {
			for _, p := range []Mark{X, O} {
				require.LessOrEqual(t, b.Count(p), MaxLiveMarks, "board %d player %v", i, p)
				require.Equal(t, b.Count(p), b.Order(p).Len())
				for _, c := range b.Order(p).Cells() {
					require.Equal(t, p, b.Cells[c])
				}
			}
		}

		if b.Decided() {
			for c := 0; c < CellCount; c++ {
				require.False(t, g.MakeMove(i, c), "decided board %d accepted cell %d", i, c)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	var pos Position
	pos.ToMove = O
	pos.Variant = Classic
	pos.Board[2].Cells = grid("XXX......")
	pos.Active = OnBoard(2)

	g, err := Load(pos)
	require.NoError(t, err)
	assert.Equal(t, WinnerX, g.Board()[2].Winner)
	assert.True(t, g.Active().Any(), "decided active board falls back to any")
	assert.Equal(t, O, g.CurrentPlayer())

	pos.ToMove = Empty
	_, err = Load(pos)
	assert.Error(t, err)
}

func stalledPosition() Position {
	var pos Position
	pos.ToMove = X
	pos.Variant = Classic
	wins := map[Mark]string{X: "XXX......", O: "OOO......"}
	for i, m := range []Mark{O, X, O, O, X, X, X, O} {
		pos.Board[i].Cells = grid(wins[m])
	}
	pos.Board[8].Cells = grid("XOXXOOOXX")
	return pos
}

func TestStalledGameEndsWithoutWinner(t *testing.T) {
	g, err := Load(stalledPosition())
	require.NoError(t, err)

	assert.Equal(t, NoWinner, g.Winner().Winner)
	assert.True(t, g.Stalled())
	assert.True(t, g.Over())
	assert.Empty(t, legal(g))
	for b := 0; b < BoardCount; b++ {
		assert.False(t, g.CanPlay(b))
	}
}

func TestLoadChecksMoveOrders(t *testing.T) {
	base := func() Position {
		var pos Position
		pos.ToMove = O
		pos.Variant = Disappearing
		pos.Board[0].Cells = grid("XX......O")
		pos.Board[0].XOrder.push(1)
		pos.Board[0].XOrder.push(0)
		pos.Board[0].OOrder.push(8)
		return pos
	}

	_, err := Load(base())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Position)
	}{
		{"unlisted mark", func(p *Position) { p.Board[0].XOrder = MoveOrder{} }},
		{"cell of the other player", func(p *Position) { p.Board[0].OOrder.push(0) }},
		{"empty cell", func(p *Position) { p.Board[0].OOrder.push(5) }},
		{"duplicate", func(p *Position) {
			p.Board[0].XOrder = MoveOrder{}
			p.Board[0].XOrder.push(0)
			p.Board[0].XOrder.push(0)
		}},
		{"four marks", func(p *Position) {
			p.Board[4].Cells = grid("XXXX.....")
			for _, c := range []int{0, 1, 2, 3} {
				p.Board[4].XOrder.push(c)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := base()
			tt.mutate(&pos)
			_, err := Load(pos)
			assert.ErrorIs(t, err, ErrBadOrder)
		})
	}

	// Classic positions carry no orders, so stray ones are dropped.
	pos := base()
	pos.Variant = Classic
	pos.Board[0].XOrder = MoveOrder{}
	g, err := Load(pos)
	require.NoError(t, err)
	assert.Zero(t, g.Board()[0].OOrder.Len())
}
