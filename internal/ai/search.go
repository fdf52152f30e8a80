// Package ai is the computer opponent: legal move generation, a static
// heuristic, and depth-bounded minimax with alpha-beta pruning. The search
// works on value copies of the board and never touches a live engine.Game.
package ai

import (
	"math"

	"github.com/vovakirdan/tui-uttt/internal/engine"
)

// LegalMoves lists the empty cells the player to move may take. With a
// pinned constraint only that board is considered; otherwise every
// undecided board, in board-then-cell order.
func LegalMoves(m engine.MetaBoard, active engine.Constraint) []engine.Placement {
	var moves []engine.Placement

	boards := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if !active.Any() {
		boards = []int{active.Board()}
	}

	for _, b := range boards {
		if m[b].Decided() {
			continue
		}
		for c, v := range m[b].Cells {
			if v == engine.Empty {
				moves = append(moves, engine.Placement{Board: b, Cell: c})
			}
		}
	}
	return moves
}

// Simulate returns a copy of m with the placement applied under the given
// variant. Only the target sub-board changes.
func Simulate(m engine.MetaBoard, p engine.Placement, player engine.Mark, v engine.Variant) engine.MetaBoard {
	v.Apply(&m[p.Board], p.Cell, player)
	return m
}

// Minimax scores m to the given depth with alpha-beta pruning. O maximizes.
func (s *Searcher) Minimax(m engine.MetaBoard, active engine.Constraint, depth, alpha, beta int, maximizing bool, v engine.Variant) int {
	s.nodes++

	if depth == 0 || m.Outcome().Winner.Decided() {
		return Score(m, v)
	}

	moves := LegalMoves(m, active)
	if len(moves) == 0 {
		return Score(m, v)
	}

	if maximizing {
		best := math.MinInt
		for _, mv := range moves {
			child := Simulate(m, mv, engine.O, v)
			val := s.Minimax(child, engine.NextConstraint(child, mv.Cell), depth-1, alpha, beta, false, v)
			best = max(best, val)
			alpha = max(alpha, val)
			if beta <= alpha && !s.disablePruning {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, mv := range moves {
		child := Simulate(m, mv, engine.X, v)
		val := s.Minimax(child, engine.NextConstraint(child, mv.Cell), depth-1, alpha, beta, true, v)
		best = min(best, val)
		beta = min(beta, val)
		if beta <= alpha && !s.disablePruning {
			break
		}
	}
	return best
}

// ScoredMove is a root move with its minimax value.
type ScoredMove struct {
	engine.Placement
	Score int
}

// rootScores plays each legal move for O and scores the reply tree with a
// fresh window, so every score is exact rather than a bound.
func (s *Searcher) rootScores(m engine.MetaBoard, moves []engine.Placement, depth int, v engine.Variant) []ScoredMove {
	out := make([]ScoredMove, len(moves))
	for i, mv := range moves {
		child := Simulate(m, mv, engine.O, v)
		out[i] = ScoredMove{
			Placement: mv,
			Score:     s.Minimax(child, engine.NextConstraint(child, mv.Cell), depth, math.MinInt, math.MaxInt, false, v),
		}
	}
	return out
}

// best returns the first move with the highest score.
func best(scored []ScoredMove) ScoredMove {
	top := scored[0]
	for _, sm := range scored[1:] {
		if sm.Score > top.Score {
			top = sm
		}
	}
	return top
}
