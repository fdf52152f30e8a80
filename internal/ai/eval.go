package ai

import (
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-uttt/internal/engine"
)

// Heuristic weights. Scores are from O's point of view: positive favours O.
const (
	WinScore = 10000

	subBoardWeight = 100
	twoInLine      = 50
	oneInLine      = 10
	centerWeight   = 30
	cornerWeight   = 15
	liveMarkWeight = 5
)

var corners = [...]int{0, 2, 6, 8}

// Score statically evaluates a meta-board. A decided game scores
// ±WinScore (or 0 for a draw); otherwise won sub-boards, partial meta lines
// and board placement are weighed, plus live marks under Disappearing.
// Stalled boards get the weighted sum too.
func Score(m engine.MetaBoard, v engine.Variant) int {
	switch m.Outcome().Winner {
	case engine.WinnerO:
		return WinScore
	case engine.WinnerX:
		return -WinScore
	case engine.Draw:
		return 0
	}

	score := 0
	for _, b := range m {
		score += sign(b.Winner) * subBoardWeight
	}

	if v == engine.Disappearing {
		for _, b := range m {
			score += (b.OOrder.Len() - b.XOrder.Len()) * liveMarkWeight
		}
	}

	for _, l := range engine.Lines {
		winners := []engine.Winner{m[l[0]].Winner, m[l[1]].Winner, m[l[2]].Winner}
		o := lo.Count(winners, engine.WinnerO)
		x := lo.Count(winners, engine.WinnerX)
		open := lo.CountBy(winners, func(w engine.Winner) bool { return !w.Decided() })

		switch {
		case o == 2 && open == 1:
			score += twoInLine
		case x == 2 && open == 1:
			score -= twoInLine
		case o == 1 && open == 2:
			score += oneInLine
		case x == 1 && open == 2:
			score -= oneInLine
		}
	}

	score += sign(m[4].Winner) * centerWeight
	for _, c := range corners {
		score += sign(m[c].Winner) * cornerWeight
	}
	return score
}

func sign(w engine.Winner) int {
	switch w {
	case engine.WinnerO:
		return 1
	case engine.WinnerX:
		return -1
	default:
		return 0
	}
}
