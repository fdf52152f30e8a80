package config

import (
	"time"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
)

// ApplyDifficultyPreset selects a difficulty and the thinking pause that
// goes with it.
func ApplyDifficultyPreset(cfg *Config, d ai.Difficulty) {
	cfg.AI.Difficulty = string(d)

	switch d {
	case ai.Easy:
		cfg.AI.ThinkDelay = 400 * time.Millisecond
	case ai.Medium:
		cfg.AI.ThinkDelay = 500 * time.Millisecond
	case ai.Hard:
		cfg.AI.ThinkDelay = 250 * time.Millisecond
	}
}

// Variant returns the configured rule set. Load has already validated it.
func (c Config) Variant() engine.Variant {
	v, _ := engine.ParseVariant(c.Game.Variant)
	return v
}

// Difficulty returns the configured difficulty, falling back to medium.
func (c Config) Difficulty() ai.Difficulty {
	d, err := ai.ParseDifficulty(c.AI.Difficulty)
	if err != nil {
		return ai.Medium
	}
	return d
}

// ThinkTicks converts the thinking pause to simulation ticks at the given
// tick rate.
func (c Config) ThinkTicks(tickRate int) int {
	if tickRate <= 0 {
		tickRate = 60
	}
	return int(c.AI.ThinkDelay * time.Duration(tickRate) / time.Second)
}
