package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

var (
	flagHistLimit   int
	flagHistVariant string
	flagHistID      int64
	flagHistClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded matches",
	Long: `Display recent finished matches and win rates per difficulty.

With --id, show one match in full: its move list and final position.

Examples:
  uttt history
  uttt history --limit 50 --variant disappearing
  uttt history --id 12
  uttt history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().StringVar(&flagHistVariant, "variant", "", "Only show one variant: classic, disappearing")
	historyCmd.Flags().Int64Var(&flagHistID, "id", 0, "Show a single match")
	historyCmd.Flags().BoolVar(&flagHistClear, "clear", false, "Delete all recorded matches")
}

func runHistory(_ *cobra.Command, _ []string) {
	if flagHistVariant != "" {
		if _, err := engine.ParseVariant(flagHistVariant); err != nil {
			fail("%v", err)
		}
	}

	cfg := loadConfig()
	store := openStore(cfg)
	if store == nil {
		fail("match history is unavailable")
	}
	defer store.Close()

	if flagHistClear {
		if err := store.ClearMatches(); err != nil {
			fail("%v", err)
		}
		fmt.Println("Match history cleared.")
		return
	}

	if flagHistID > 0 {
		showMatch(store, flagHistID)
		return
	}

	matches, err := store.RecentMatchesByVariant(flagHistVariant, flagHistLimit)
	if err != nil {
		fail("retrieving matches: %v", err)
	}

	fmt.Println("Match History")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'uttt play' to record the first one!")
		return
	}

	fmt.Printf("  %-5s  %-16s  %-12s  %-8s  %-10s  %-6s  %s\n",
		"ID", "Date", "Variant", "Mode", "Difficulty", "Winner", "Moves")
	fmt.Printf("  %-5s  %-16s  %-12s  %-8s  %-10s  %-6s  %s\n",
		"--", "----", "-------", "----", "----------", "------", "-----")
	for _, m := range matches {
		difficulty := m.Difficulty
		if difficulty == "" {
			difficulty = "-"
		}
		fmt.Printf("  %-5d  %-16s  %-12s  %-8s  %-10s  %-6s  %d\n",
			m.ID, m.CreatedAt.Format("2006-01-02 15:04"), m.Variant, m.Mode,
			difficulty, m.Winner, m.Moves)
	}

	stats, err := store.StatsByDifficulty(flagHistVariant)
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-10s  %5s  %5s  %5s  %5s  %s\n", "Difficulty", "Games", "X", "O", "Draw", "Avg moves")
	for _, st := range stats {
		label := st.Difficulty
		if label == "" {
			label = "two players"
		}
		fmt.Printf("  %-10s  %5d  %5d  %5d  %5d  %.1f\n",
			label, st.Games, st.XWins, st.OWins, st.Draws, st.AvgMoves)
	}
}

// showMatch prints one match and replays its moves to show the final
// position.
func showMatch(store *storage.Store, id int64) {
	m, err := store.MatchByID(id)
	if err != nil {
		fail("%v", err)
	}
	if m == nil {
		fail("no match with id %d", id)
	}

	fmt.Printf("Match %d - %s, %s\n", m.ID, m.Variant, m.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("X: %s  O: %s\n", m.PlayerX, m.PlayerO)
	if m.Difficulty != "" {
		fmt.Printf("Difficulty: %s\n", m.Difficulty)
	}
	fmt.Printf("Winner: %s after %d moves (%ds)\n", m.Winner, m.Moves, m.Duration)
	if m.Evictions > 0 {
		fmt.Printf("Vanished marks: %d\n", m.Evictions)
	}
	fmt.Println()
	fmt.Println(m.MoveList)

	v, err := engine.ParseVariant(m.Variant)
	if err != nil {
		return
	}
	game, err := engine.ReplayMoves(v, m.MoveList)
	if err != nil {
		fmt.Printf("\nCannot replay moves: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Print(engine.FormatPosition(game.Position()))
}
