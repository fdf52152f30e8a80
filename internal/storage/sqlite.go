// Package storage provides SQLite-based persistence for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// Match is one finished (or abandoned) game.
type Match struct {
	ID         int64
	GameID     string
	Variant    string
	Mode       string // "computer", "local" or "arena"
	Difficulty string // Empty for local games
	PlayerX    string
	PlayerO    string
	Winner     string // "X", "O", "draw", or "none" when unfinished or stalled
	Moves      int
	Evictions  int
	MoveList   string // Space-separated board.cell pairs
	Duration   int    // Duration in seconds
	CreatedAt  time.Time
}

// DifficultyStats aggregates matches played at one difficulty.
type DifficultyStats struct {
	Difficulty string
	Games      int
	XWins      int
	OWins      int
	Draws      int
	AvgMoves   float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer at a time; concurrent arena workers queue on the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT '',
			player_x TEXT NOT NULL,
			player_o TEXT NOT NULL,
			winner TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			evictions INTEGER NOT NULL DEFAULT 0,
			move_list TEXT NOT NULL DEFAULT '',
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_variant ON matches(variant);
		CREATE INDEX IF NOT EXISTS idx_matches_difficulty ON matches(variant, difficulty);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a match. Returns the ID of the inserted record.
func (s *Store) SaveMatch(m Match) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO matches
		 (game_id, variant, mode, difficulty, player_x, player_o, winner, moves, evictions, move_list, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.GameID,
		m.Variant,
		m.Mode,
		m.Difficulty,
		m.PlayerX,
		m.PlayerO,
		m.Winner,
		m.Moves,
		m.Evictions,
		m.MoveList,
		m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, game_id, variant, mode, difficulty, player_x, player_o,
	winner, moves, evictions, move_list, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (Match, error) {
	var m Match
	var createdAt any
	err := row.Scan(
		&m.ID,
		&m.GameID,
		&m.Variant,
		&m.Mode,
		&m.Difficulty,
		&m.PlayerX,
		&m.PlayerO,
		&m.Winner,
		&m.Moves,
		&m.Evictions,
		&m.MoveList,
		&m.Duration,
		&createdAt,
	)
	if err != nil {
		return m, err
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentMatches retrieves the most recent matches across all variants.
func (s *Store) RecentMatches(limit int) ([]Match, error) {
	return s.RecentMatchesByVariant("", limit)
}

// RecentMatchesByVariant retrieves the most recent matches of one variant,
// or of every variant when variant is empty.
func (s *Store) RecentMatchesByVariant(variant string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ? = '' OR variant = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

// MatchByID retrieves a match by its ID. Returns nil if it does not exist.
func (s *Store) MatchByID(id int64) (*Match, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// StatsByDifficulty aggregates results per difficulty for one variant, or
// for every variant when variant is empty. Local two-player games are
// reported under an empty difficulty.
func (s *Store) StatsByDifficulty(variant string) ([]DifficultyStats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = 'X' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 'O' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = 'draw' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(moves), 0)
		 FROM matches
		 WHERE ? = '' OR variant = ?
		 GROUP BY difficulty
		 ORDER BY difficulty`,
		variant, variant,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get difficulty stats: %w", err)
	}
	defer rows.Close()

	var stats []DifficultyStats
	for rows.Next() {
		var st DifficultyStats
		if err := rows.Scan(&st.Difficulty, &st.Games, &st.XWins, &st.OWins, &st.Draws, &st.AvgMoves); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearMatches deletes all recorded matches.
func (s *Store) ClearMatches() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}
