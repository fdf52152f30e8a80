package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
)

const configFile = "uttt.yaml"

// Load loads the application configuration. Values missing from the file
// keep their defaults.
// Search order: customPath -> ~/.uttt/configs/uttt.yaml -> ./configs/uttt.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if parsed, ok := tryFile(userCfgPath); ok {
			return parsed, nil
		}
	}

	// Try local configs directory
	if parsed, ok := tryFile(filepath.Join("configs", configFile)); ok {
		return parsed, nil
	}

	// Use embedded default YAML
	embedded := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryFile loads an optional config file. Unreadable or invalid files are
// skipped so the next location can be tried.
func tryFile(path string) (Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".uttt", "configs", filename)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := engine.ParseVariant(c.Game.Variant); err != nil {
		return fmt.Errorf("game.variant: %w", err)
	}
	switch c.Game.Mode {
	case ModeComputer, ModeLocal:
	default:
		return fmt.Errorf("game.mode: unknown mode %q", c.Game.Mode)
	}
	if _, err := ai.ParseDifficulty(c.AI.Difficulty); err != nil {
		return fmt.Errorf("ai.difficulty: %w", err)
	}
	if c.AI.ThinkDelay < 0 {
		return fmt.Errorf("ai.think_delay: must not be negative")
	}

	t := c.AI.Tuning
	if t.MediumRandomChance < 0 || t.MediumRandomChance > 1 {
		return fmt.Errorf("ai.tuning.medium_random_chance: %v outside [0, 1]", t.MediumRandomChance)
	}
	if t.MediumDepth < 0 {
		return fmt.Errorf("ai.tuning.medium_depth: must not be negative")
	}
	if len(t.HardTiers) == 0 {
		return fmt.Errorf("ai.tuning.hard_tiers: at least one tier required")
	}
	for i, tier := range t.HardTiers {
		if tier.Depth < 0 {
			return fmt.Errorf("ai.tuning.hard_tiers[%d]: depth must not be negative", i)
		}
	}
	return nil
}
