package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/config"
	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/games/ultimate"
	"github.com/vovakirdan/tui-uttt/internal/platform/tui"
	"github.com/vovakirdan/tui-uttt/internal/registry"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

var (
	flagMode       string
	flagDifficulty string
	flagNameX      string
	flagNameO      string
)

var playCmd = &cobra.Command{
	Use:   "play [classic|disappearing]",
	Short: "Play a game",
	Long: `Start a game with the given rules (classic by default).

Controls:
  Arrows/WASD  - Move the cursor
  Enter/Space  - Place a mark
  U            - Undo (your move and the computer's reply)
  R            - Restart
  Esc          - Back to the menu
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a screenshot

Modes:
  computer - You play X, the computer plays O
  local    - Two players share the keyboard

Difficulty options:
  easy   - Random legal moves
  medium - Random half the time, otherwise a shallow search
  hard   - Deeper search, deeper still as the position narrows

Examples:
  uttt play
  uttt play disappearing
  uttt play --difficulty hard
  uttt play --mode local --name-x Ann --name-o Bob`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick variant, mode and difficulty interactively",
	Long: `Start in interactive menu mode.

Use the arrow keys to choose a row and change its value, Enter to start.
After a game you can return to the menu with Esc.

Controls:
  Up/Down/j/k     - Choose a row
  Left/Right/h/l  - Change the value
  Enter/Space     - Start or select
  Tab             - Match history
  Q               - Quit

Examples:
  uttt menu
  uttt menu --fps 30
  uttt menu --db ./uttt.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Play mode: computer, local (default from config)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Computer difficulty: easy, medium, hard")
	playCmd.Flags().StringVar(&flagNameX, "name-x", "", "Name shown for X")
	playCmd.Flags().StringVar(&flagNameO, "name-o", "", "Name shown for O in local mode")
}

// applyPlayFlags folds the play flags into the loaded configuration.
func applyPlayFlags(cfg *config.Config, args []string) {
	if len(args) == 1 {
		v, err := engine.ParseVariant(args[0])
		if err != nil {
			fail("%v", err)
		}
		cfg.Game.Variant = v.String()
	}
	if flagMode != "" {
		cfg.Game.Mode = flagMode
	}
	if flagDifficulty != "" {
		d, err := ai.ParseDifficulty(flagDifficulty)
		if err != nil {
			fail("%v", err)
		}
		config.ApplyDifficultyPreset(cfg, d)
	}
	if flagNameX != "" {
		cfg.Game.PlayerX = flagNameX
	}
	if flagNameO != "" {
		cfg.Game.PlayerO = flagNameO
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	applyPlayFlags(&cfg, args)

	logger, closeLog := newLogger(cfg, true, "uttt")
	defer closeLog()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	rc := runtimeConfig(cfg, logger)
	variant := cfg.Variant()

	game, err := registry.Create(ultimate.IDFor(variant))
	if err != nil {
		fail("creating game: %v", err)
	}

	back, err := tui.Run(game, store, rc)
	if err != nil {
		fail("running game: %v", err)
	}
	if back {
		menuLoop(store, rc, variant)
	}
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	logger, closeLog := newLogger(cfg, true, "uttt")
	defer closeLog()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	menuLoop(store, runtimeConfig(cfg, logger), cfg.Variant())
}

// menuLoop alternates between the setup menu, the history screen and
// games until the player quits.
func menuLoop(store *storage.Store, cfg core.RuntimeConfig, variant engine.Variant) {
	for {
		menuResult, err := tui.RunMenu(cfg, variant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Keep the choices for the next round
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsHistory {
			goBack, histErr := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if menuResult.GameID == ultimate.IDVanish {
			variant = engine.Disappearing
		} else {
			variant = engine.Classic
		}

		back, err := tui.Run(game, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			return
		}
	}
}
