package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
)

var flagBestDifficulty string

var bestmoveCmd = &cobra.Command{
	Use:   "bestmove [file]",
	Short: "Print the computer's move for a position",
	Long: `Read a position in text form from a file, or from standard input
when no file is given, and print the move the computer would play for
the side to move.

Position format: nine rows of nine cells ('X', 'O' or '.'); '|' and
"---+---+---" separators are optional. Headers are optional too:
  # variant: disappearing
  # to-move: O
  # active: 4                (or "any")
  # x-order: 4.0 4.1 0.2     (oldest first, disappearing only)
  # o-order: -

'uttt shell' writes this format with its save command.

Examples:
  uttt bestmove position.txt
  uttt bestmove --difficulty medium --seed 3 < position.txt`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBestmove,
}

func init() {
	bestmoveCmd.Flags().StringVar(&flagBestDifficulty, "difficulty", "hard", "Difficulty: easy, medium, hard")
}

func runBestmove(_ *cobra.Command, args []string) {
	d, err := ai.ParseDifficulty(flagBestDifficulty)
	if err != nil {
		fail("%v", err)
	}

	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, openErr := os.Open(args[0])
		if openErr != nil {
			fail("%v", openErr)
		}
		defer f.Close()
		r = f
	}

	pos, err := engine.ParsePosition(r)
	if err != nil {
		fail("%v", err)
	}

	cfg := loadConfig()
	s := ai.New(ai.NewRand(flagSeed), ai.WithTuning(cfg.AI.Tuning))
	dec, ok := s.ComputeMoveFor(pos.ToMove, pos.Board, pos.Active, d, pos.Variant)
	if !ok {
		fail("no legal moves: the game is over")
	}

	fmt.Printf("%d.%d\n", dec.Move.Board, dec.Move.Cell)
	if dec.Random {
		fmt.Fprintf(os.Stderr, "%s, %s: random pick\n", pos.ToMove, d)
		return
	}
	fmt.Fprintf(os.Stderr, "%s, %s: score %d, depth %d, %d nodes\n",
		pos.ToMove, d, dec.Score, dec.Depth, dec.Nodes)
}
