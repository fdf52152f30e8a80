package ai

import (
	"fmt"
	"math/rand"

	"lukechampine.com/frand"

	"github.com/vovakirdan/tui-uttt/internal/engine"
)

// Difficulty selects how the computer picks among legal moves.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the levels in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("ai: unknown difficulty %q", s)
	}
}

// Rand is the randomness the policy needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded generator, or a non-reproducible one when seed
// is zero.
func NewRand(seed int64) Rand {
	if seed == 0 {
		return cryptoRand{}
	}
	return rand.New(rand.NewSource(seed))
}

type cryptoRand struct{}

func (cryptoRand) Intn(n int) int    { return frand.Intn(n) }
func (cryptoRand) Float64() float64 { return frand.Float64() }

// DepthTier applies Depth when more than MinMoves moves are legal.
type DepthTier struct {
	MinMoves int `yaml:"min_moves"`
	Depth    int `yaml:"depth"`
}

// Tuning holds the per-difficulty search parameters.
type Tuning struct {
	MediumRandomChance float64     `yaml:"medium_random_chance"`
	MediumDepth        int         `yaml:"medium_depth"`
	HardTiers          []DepthTier `yaml:"hard_tiers"`
}

// DefaultTuning returns the standard parameters: medium plays at random
// half the time and searches depth 2 otherwise; hard searches 3, 4 or 5
// plies as the move count falls through 20 and 10.
func DefaultTuning() Tuning {
	return Tuning{
		MediumRandomChance: 0.5,
		MediumDepth:        2,
		HardTiers: []DepthTier{
			{MinMoves: 20, Depth: 3},
			{MinMoves: 10, Depth: 4},
			{MinMoves: 0, Depth: 5},
		},
	}
}

// HardDepth returns the depth hard difficulty uses with n legal moves.
func (t Tuning) HardDepth(n int) int {
	for _, tier := range t.HardTiers {
		if n > tier.MinMoves {
			return tier.Depth
		}
	}
	if len(t.HardTiers) == 0 {
		return 0
	}
	return t.HardTiers[len(t.HardTiers)-1].Depth
}

// Decision is the outcome of one ComputeMove call.
type Decision struct {
	Move   engine.Move
	Score  int  // minimax value from the mover's side; 0 for random picks
	Depth  int  // search depth, -1 for random picks
	Nodes  int  // positions visited
	Random bool // chosen without search
}

// Searcher picks moves for the computer. It keeps no state between calls
// beyond its random source and node counter, and is not safe for
// concurrent use; give each goroutine its own Searcher.
type Searcher struct {
	rng            Rand
	tuning         Tuning
	disablePruning bool
	nodes          int
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithTuning overrides DefaultTuning.
func WithTuning(t Tuning) Option {
	return func(s *Searcher) { s.tuning = t }
}

// New returns a Searcher drawing randomness from rng.
func New(rng Rand, opts ...Option) *Searcher {
	s := &Searcher{rng: rng, tuning: DefaultTuning()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPruningDisabled turns alpha-beta cutoffs off, leaving plain minimax.
func (s *Searcher) SetPruningDisabled(d bool) {
	s.disablePruning = d
}

// Tuning returns the active parameters.
func (s *Searcher) Tuning() Tuning {
	return s.tuning
}

// ComputeMove picks a move for O. It returns false only when no move is
// legal.
func (s *Searcher) ComputeMove(m engine.MetaBoard, active engine.Constraint, d Difficulty, v engine.Variant) (Decision, bool) {
	s.nodes = 0

	moves := LegalMoves(m, active)
	if len(moves) == 0 {
		return Decision{}, false
	}

	var depth int
	switch d {
	case Easy:
		return s.random(moves), true
	case Medium:
		if s.rng.Float64() < s.tuning.MediumRandomChance {
			return s.random(moves), true
		}
		depth = s.tuning.MediumDepth
	default:
		depth = s.tuning.HardDepth(len(moves))
	}

	top := best(s.rootScores(m, moves, depth, v))
	return Decision{
		Move:  engine.Move{Board: top.Board, Cell: top.Cell, Player: engine.O},
		Score: top.Score,
		Depth: depth,
		Nodes: s.nodes,
	}, true
}

// ComputeMoveFor picks a move for either player. X is searched on the
// colour-swapped board.
func (s *Searcher) ComputeMoveFor(player engine.Mark, m engine.MetaBoard, active engine.Constraint, d Difficulty, v engine.Variant) (Decision, bool) {
	if player != engine.X {
		return s.ComputeMove(m, active, d, v)
	}
	dec, ok := s.ComputeMove(m.Swapped(), active, d, v)
	if !ok {
		return Decision{}, false
	}
	dec.Move.Player = engine.X
	return dec, true
}

// Analyze scores every legal move for the player to move at a fixed depth,
// from that player's side, in enumeration order.
func (s *Searcher) Analyze(pos engine.Position, depth int) []ScoredMove {
	m := pos.Board
	if pos.ToMove == engine.X {
		m = m.Swapped()
	}
	moves := LegalMoves(m, pos.Active)
	if len(moves) == 0 {
		return nil
	}
	return s.rootScores(m, moves, depth, pos.Variant)
}

func (s *Searcher) random(moves []engine.Placement) Decision {
	mv := moves[s.rng.Intn(len(moves))]
	return Decision{
		Move:   engine.Move{Board: mv.Board, Cell: mv.Cell, Player: engine.O},
		Depth:  -1,
		Random: true,
	}
}
