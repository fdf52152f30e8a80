package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/arena"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

var (
	flagArenaGames    int
	flagArenaWorkers  int
	flagArenaX        string
	flagArenaO        string
	flagArenaVariant  string
	flagArenaMaxMoves int
	flagArenaSave     bool
)

var arenaCmd = &cobra.Command{
	Use:   "arena",
	Short: "Let the computer play itself",
	Long: `Play many computer-vs-computer games in parallel and report the
results: wins per side, draws and game length.

Games that reach --max-moves without a result are counted as unfinished;
this can happen in the disappearing variant.

Examples:
  uttt arena
  uttt arena --games 500 --x easy --o hard
  uttt arena --variant disappearing --workers 4 --seed 1
  uttt arena --save`,
	Args: cobra.NoArgs,
	Run:  runArena,
}

func init() {
	arenaCmd.Flags().IntVar(&flagArenaGames, "games", 100, "Number of games")
	arenaCmd.Flags().IntVar(&flagArenaWorkers, "workers", runtime.NumCPU(), "Games played at once")
	arenaCmd.Flags().StringVar(&flagArenaX, "x", "medium", "Difficulty of X")
	arenaCmd.Flags().StringVar(&flagArenaO, "o", "hard", "Difficulty of O")
	arenaCmd.Flags().StringVar(&flagArenaVariant, "variant", "", "classic or disappearing (default from config)")
	arenaCmd.Flags().IntVar(&flagArenaMaxMoves, "max-moves", arena.DefaultMaxMoves, "Move cap per game")
	arenaCmd.Flags().BoolVar(&flagArenaSave, "save", false, "Record finished games in the match database")
}

func runArena(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false, "uttt-arena")
	defer closeLog()

	xd, err := ai.ParseDifficulty(flagArenaX)
	if err != nil {
		fail("--x: %v", err)
	}
	od, err := ai.ParseDifficulty(flagArenaO)
	if err != nil {
		fail("--o: %v", err)
	}
	variant := cfg.Variant()
	if flagArenaVariant != "" {
		if variant, err = engine.ParseVariant(flagArenaVariant); err != nil {
			fail("--variant: %v", err)
		}
	}

	var store *storage.Store
	if flagArenaSave {
		if store = openStore(cfg); store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := arena.Run(ctx, arena.Config{
		Games:    flagArenaGames,
		Workers:  flagArenaWorkers,
		X:        xd,
		O:        od,
		Variant:  variant,
		Seed:     flagSeed,
		MaxMoves: flagArenaMaxMoves,
		Tuning:   cfg.AI.Tuning,
		Store:    store,
		Logger:   logger,
	})
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("%s: X %s vs O %s\n\n", variant, xd, od)
	fmt.Println(rep.String())
}
