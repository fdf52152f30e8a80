package core

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-uttt/internal/ai"
)

// Match modes.
const (
	ModeComputer = "computer"
	ModeLocal    = "local"
)

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for the computer opponent; 0 means unseeded
	Match    MatchOptions
	Logger   *log.Logger // nil discards game logs
}

// MatchOptions describes who plays and how the computer behaves.
type MatchOptions struct {
	Mode           string // ModeComputer or ModeLocal
	Difficulty     ai.Difficulty
	Tuning         ai.Tuning
	PlayerX        string
	PlayerO        string
	ThinkTicks     int  // Ticks to wait before the computer moves
	FlashEvictions bool // Blink marks about to vanish
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
		Match: MatchOptions{
			Mode:           ModeComputer,
			Difficulty:     ai.Medium,
			Tuning:         ai.DefaultTuning(),
			PlayerX:        "Player X",
			PlayerO:        "Player O",
			ThinkTicks:     30,
			FlashEvictions: true,
		},
	}
}

// MatchResult summarizes a game for storage.
type MatchResult struct {
	Winner    string // "X", "O", "draw", or "none"
	Moves     int
	Evictions int
	MoveList  string
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	GameOver bool // Whether the game has ended
	Thinking bool // Whether the computer is choosing a move; input is locked
	Result   MatchResult
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
