package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive text shell",
	Long: `Start a line-oriented shell for playing and analysing positions.

Type help inside the shell for the command list. Positions can be saved
and loaded in the same text format bestmove reads.

Examples:
  uttt shell
  uttt shell --seed 7 --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runShell,
}

func runShell(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false, "uttt")
	defer closeLog()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	sc := shell.NewController(shell.Options{
		Variant:    cfg.Variant(),
		Difficulty: cfg.Difficulty(),
		Tuning:     cfg.AI.Tuning,
		Seed:       flagSeed,
		Store:      store,
		Logger:     logger,
	})
	if err := sc.Loop(); err != nil {
		fail("%v", err)
	}
}
