package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := Match{
		GameID:     "ultimate",
		Variant:    "classic",
		Mode:       "computer",
		Difficulty: "hard",
		PlayerX:    "Ada",
		PlayerO:    "Computer",
		Winner:     "O",
		Moves:      41,
		MoveList:   "4.4 4.0 0.4",
		Duration:   95,
	}

	id, err := store.SaveMatch(want)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() = nil, want match")
	}

	want.ID = id
	got.CreatedAt = want.CreatedAt
	if *got != want {
		t.Errorf("MatchByID() = %+v, want %+v", *got, want)
	}
}

func TestStoreMatchByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.MatchByID(42)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("MatchByID() = %+v, want nil", got)
	}
}

func TestStoreRecentMatches(t *testing.T) {
	store := openTestStore(t)

	variants := []string{"classic", "disappearing", "classic", "classic", "disappearing"}
	for i, v := range variants {
		if _, err := store.SaveMatch(Match{GameID: "ultimate", Variant: v, Mode: "local", Winner: "X", Moves: i}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("RecentMatches(3) returned %d matches", len(recent))
	}
	// Newest first
	if recent[0].Moves != 4 || recent[2].Moves != 2 {
		t.Errorf("RecentMatches() order = %d..%d, want 4..2", recent[0].Moves, recent[2].Moves)
	}

	vanish, err := store.RecentMatchesByVariant("disappearing", 10)
	if err != nil {
		t.Fatalf("RecentMatchesByVariant() failed: %v", err)
	}
	if len(vanish) != 2 {
		t.Errorf("RecentMatchesByVariant() returned %d matches, want 2", len(vanish))
	}
	for _, m := range vanish {
		if m.Variant != "disappearing" {
			t.Errorf("RecentMatchesByVariant() included variant %q", m.Variant)
		}
	}
}

func TestStoreStatsByDifficulty(t *testing.T) {
	store := openTestStore(t)

	matches := []Match{
		{Difficulty: "easy", Winner: "X", Moves: 30},
		{Difficulty: "easy", Winner: "X", Moves: 50},
		{Difficulty: "hard", Winner: "O", Moves: 40},
		{Difficulty: "hard", Winner: "draw", Moves: 60},
		{Difficulty: "hard", Winner: "X", Moves: 50},
		{Difficulty: "hard", Winner: "O", Moves: 10, Variant: "disappearing"},
	}
	for _, m := range matches {
		m.GameID = "ultimate"
		m.Mode = "computer"
		if m.Variant == "" {
			m.Variant = "classic"
		}
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.StatsByDifficulty("classic")
	if err != nil {
		t.Fatalf("StatsByDifficulty() failed: %v", err)
	}

	want := []DifficultyStats{
		{Difficulty: "easy", Games: 2, XWins: 2, AvgMoves: 40},
		{Difficulty: "hard", Games: 3, XWins: 1, OWins: 1, Draws: 1, AvgMoves: 50},
	}
	if len(stats) != len(want) {
		t.Fatalf("StatsByDifficulty() returned %d rows, want %d", len(stats), len(want))
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("StatsByDifficulty()[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}

	all, err := store.StatsByDifficulty("")
	if err != nil {
		t.Fatalf("StatsByDifficulty() failed: %v", err)
	}
	if all[1].Games != 4 {
		t.Errorf("StatsByDifficulty(\"\") hard games = %d, want 4", all[1].Games)
	}
}

func TestStoreClearMatches(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		store.SaveMatch(Match{GameID: "ultimate", Variant: "classic", Mode: "local", Winner: "none"})
	}

	if err := store.ClearMatches(); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}

	recent, _ := store.RecentMatches(10)
	if len(recent) != 0 {
		t.Errorf("Expected 0 matches after clear, got %d", len(recent))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
