package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/tui-uttt/internal/ai"
)

//go:embed defaults/uttt.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			Variant:        "classic",
			Mode:           ModeComputer,
			PlayerX:        "Player X",
			PlayerO:        "Player O",
			FlashEvictions: true,
		},
		AI: AIConfig{
			Difficulty: string(ai.Medium),
			ThinkDelay: 500 * time.Millisecond,
			Tuning:     ai.DefaultTuning(),
		},
		Storage: StorageConfig{
			Path: "~/.uttt/uttt.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.uttt/uttt.log",
		},
	}
}
