// Package config provides YAML-based configuration loading for the game,
// the computer opponent and match storage.
package config

import (
	"time"

	"github.com/vovakirdan/tui-uttt/internal/ai"
)

// Play modes.
const (
	ModeComputer = "computer" // human X against the computer as O
	ModeLocal    = "local"    // two players sharing one terminal
)

// Config contains all configuration for the application.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	AI      AIConfig      `yaml:"ai"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig defines match defaults.
type GameConfig struct {
	Variant        string `yaml:"variant"` // "classic" or "disappearing"
	Mode           string `yaml:"mode"`    // "computer" or "local"
	PlayerX        string `yaml:"player_x"`
	PlayerO        string `yaml:"player_o"`
	FlashEvictions bool   `yaml:"flash_evictions"` // Blink marks about to vanish
}

// AIConfig defines the computer opponent.
type AIConfig struct {
	Difficulty string        `yaml:"difficulty"`
	ThinkDelay time.Duration `yaml:"think_delay"` // Pause before the computer moves
	Tuning     ai.Tuning     `yaml:"tuning"`
}

// StorageConfig defines where match history is kept.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig defines logging defaults. Command-line flags take precedence.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Used by full-screen commands
}
