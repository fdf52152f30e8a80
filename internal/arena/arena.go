// Package arena plays computer-vs-computer matches in parallel and
// summarises the results.
package arena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/games/ultimate"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

// DefaultMaxMoves caps a single game. Disappearing games can cycle.
const DefaultMaxMoves = 300

// Mode is the storage mode recorded for arena matches.
const Mode = "arena"

// ErrNoGames is returned when a run asks for zero games.
var ErrNoGames = errors.New("arena: no games requested")

// Config describes one arena run.
type Config struct {
	Games    int
	Workers  int
	X        ai.Difficulty
	O        ai.Difficulty
	Variant  engine.Variant
	Seed     int64 // 0 plays non-reproducible games
	MaxMoves int
	Tuning   ai.Tuning
	Store    *storage.Store // nil skips saving
	Logger   *log.Logger
}

func (c *Config) normalize() error {
	if c.Games <= 0 {
		return ErrNoGames
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxMoves <= 0 {
		c.MaxMoves = DefaultMaxMoves
	}
	if c.X == "" {
		c.X = ai.Medium
	}
	if c.O == "" {
		c.O = ai.Medium
	}
	if c.Tuning.HardTiers == nil {
		c.Tuning = ai.DefaultTuning()
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return nil
}

// zeroSeed stands in for a per-game seed of 0, which would otherwise
// select the unseeded source.
const zeroSeed = math.MaxInt64

// seedFor returns the seed of game i.
func (c *Config) seedFor(i int) int64 {
	if c.Seed == 0 {
		return 0
	}
	if s := c.Seed + int64(i); s != 0 {
		return s
	}
	return zeroSeed
}

// GameResult is the outcome of one arena game.
type GameResult struct {
	Index     int
	Seed      int64
	Winner    engine.Winner
	Finished  bool // false when the move cap was hit
	Stalled   bool // ended with every sub-board decided and no winner
	Moves     int
	Evictions int
	MoveList  string
	Elapsed   time.Duration
}

// Report aggregates a run.
type Report struct {
	Games       int
	XWins       int
	OWins       int
	Draws       int
	Stalled     int
	Unfinished  int
	MeanMoves   float64
	StdDevMoves float64
	Evictions   int
	Elapsed     time.Duration
	Results     []GameResult
}

// Run plays cfg.Games games on at most cfg.Workers goroutines. The first
// error cancels the remaining games.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	cfg.Logger.Info("arena started",
		"games", cfg.Games, "workers", cfg.Workers,
		"x", cfg.X, "o", cfg.O, "variant", cfg.Variant)

	start := time.Now()
	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Games {
		g.Go(func() error {
			res, err := PlayOne(ctx, cfg, i)
			if err != nil {
				return err
			}
			results[i] = res
			cfg.Logger.Info("arena game finished",
				"game", i+1, "winner", res.Winner, "moves", res.Moves,
				"evictions", res.Evictions, "elapsed", res.Elapsed)
			if res.Finished {
				return saveResult(ctx, cfg, res)
			}
			cfg.Logger.Warn("arena game hit move cap", "game", i+1, "max_moves", cfg.MaxMoves)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := Summarize(results)
	rep.Elapsed = time.Since(start)
	return rep, nil
}

// PlayOne plays game i of a run to the end or to the move cap.
func PlayOne(ctx context.Context, cfg Config, i int) (GameResult, error) {
	if err := cfg.normalize(); err != nil {
		return GameResult{}, err
	}
	seed := cfg.seedFor(i)
	players := map[engine.Mark]struct {
		searcher   *ai.Searcher
		difficulty ai.Difficulty
	}{
		engine.X: {ai.New(ai.NewRand(seed), ai.WithTuning(cfg.Tuning)), cfg.X},
		engine.O: {ai.New(ai.NewRand(-seed), ai.WithTuning(cfg.Tuning)), cfg.O},
	}

	start := time.Now()
	game := engine.New(cfg.Variant)
	for !game.Over() && game.HistoryLen() < cfg.MaxMoves {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		p := players[game.CurrentPlayer()]
		dec, ok := p.searcher.ComputeMoveFor(game.CurrentPlayer(), game.Board(), game.Active(), p.difficulty, cfg.Variant)
		if !ok {
			return GameResult{}, fmt.Errorf("arena: game %d: no legal move for %s after %d moves",
				i+1, game.CurrentPlayer(), game.HistoryLen())
		}
		if !game.MakeMove(dec.Move.Board, dec.Move.Cell) {
			return GameResult{}, fmt.Errorf("arena: game %d: illegal move %d.%d",
				i+1, dec.Move.Board, dec.Move.Cell)
		}
	}

	return GameResult{
		Index:     i,
		Seed:      seed,
		Winner:    game.Winner().Winner,
		Finished:  game.Over(),
		Stalled:   game.Stalled(),
		Moves:     game.HistoryLen(),
		Evictions: game.Evictions(),
		MoveList:  engine.FormatMoves(game.History()),
		Elapsed:   time.Since(start),
	}, nil
}

// saveResult stores a finished game. Another process may hold the database
// lock, so writes are retried.
func saveResult(ctx context.Context, cfg Config, res GameResult) error {
	if cfg.Store == nil {
		return nil
	}
	match := storage.Match{
		GameID:     ultimate.IDFor(cfg.Variant),
		Variant:    cfg.Variant.String(),
		Mode:       Mode,
		Difficulty: fmt.Sprintf("%s/%s", cfg.X, cfg.O),
		PlayerX:    "Computer (" + string(cfg.X) + ")",
		PlayerO:    "Computer (" + string(cfg.O) + ")",
		Winner:     res.Winner.String(),
		Moves:      res.Moves,
		Evictions:  res.Evictions,
		MoveList:   res.MoveList,
		Duration:   int(res.Elapsed.Seconds()),
	}
	err := retry.Do(
		func() error {
			_, err := cfg.Store.SaveMatch(match)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			cfg.Logger.Warn("retrying match save", "game", res.Index+1, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("arena: save game %d: %w", res.Index+1, err)
	}
	return nil
}

// Summarize counts outcomes and computes game-length statistics.
func Summarize(results []GameResult) *Report {
	rep := &Report{Games: len(results), Results: results}
	moves := make([]float64, 0, len(results))
	for _, r := range results {
		moves = append(moves, float64(r.Moves))
		rep.Evictions += r.Evictions
		if !r.Finished {
			rep.Unfinished++
			continue
		}
		switch r.Winner {
		case engine.WinnerX:
			rep.XWins++
		case engine.WinnerO:
			rep.OWins++
		case engine.Draw:
			rep.Draws++
		default:
			if r.Stalled {
				rep.Stalled++
			}
		}
	}
	switch len(moves) {
	case 0:
	case 1:
		rep.MeanMoves = moves[0]
	default:
		rep.MeanMoves, rep.StdDevMoves = stat.MeanStdDev(moves, nil)
	}
	return rep
}

// String renders the report for the terminal.
func (r *Report) String() string {
	var b strings.Builder
	pct := func(n int) float64 {
		if r.Games == 0 {
			return 0
		}
		return 100 * float64(n) / float64(r.Games)
	}
	fmt.Fprintf(&b, "Games:      %d\n", r.Games)
	fmt.Fprintf(&b, "X wins:     %d (%.1f%%)\n", r.XWins, pct(r.XWins))
	fmt.Fprintf(&b, "O wins:     %d (%.1f%%)\n", r.OWins, pct(r.OWins))
	fmt.Fprintf(&b, "Draws:      %d (%.1f%%)\n", r.Draws, pct(r.Draws))
	if r.Stalled > 0 {
		fmt.Fprintf(&b, "Stalled:    %d (%.1f%%)\n", r.Stalled, pct(r.Stalled))
	}
	if r.Unfinished > 0 {
		fmt.Fprintf(&b, "Unfinished: %d\n", r.Unfinished)
	}
	fmt.Fprintf(&b, "Moves:      %.1f ± %.1f\n", r.MeanMoves, r.StdDevMoves)
	if r.Evictions > 0 {
		fmt.Fprintf(&b, "Vanished:   %d\n", r.Evictions)
	}
	fmt.Fprintf(&b, "Elapsed:    %s", r.Elapsed.Round(time.Millisecond))
	return b.String()
}
