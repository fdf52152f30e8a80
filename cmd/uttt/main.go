// uttt plays Ultimate Tic-Tac-Toe in the terminal, against the computer or
// a friend, locally or over SSH.
//
// Usage:
//
//	uttt play [variant]      - Play a game (classic or disappearing)
//	uttt menu                - Pick variant, mode and difficulty interactively
//	uttt serve               - Start SSH server for remote play
//	uttt history             - Show recorded matches
//	uttt shell               - Interactive text shell for analysis
//	uttt arena               - Computer-vs-computer matches
//	uttt bestmove [file]     - Print the computer's move for a position
//	uttt list                - List game modes
//
// Global flags:
//
//	--config <path>    - Config file (default: ~/.uttt/configs/uttt.yaml)
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Seed the computer player for reproducible games
//	--db <path>        - Set database path (default: ~/.uttt/uttt.db)
//	--log-level <lvl>  - debug, info, warn or error
//	--log-file <path>  - Log file for full-screen commands
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-uttt/internal/config"
	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/tui-uttt/internal/games/ultimate"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uttt",
	Short: "Ultimate Tic-Tac-Toe in your terminal",
	Long: `Ultimate Tic-Tac-Toe is played on nine small boards arranged in a
3x3 grid. The cell you play in decides which board your opponent plays on
next. Win three small boards in a row to win the game.

The disappearing variant keeps at most three marks per player on each
small board; a fourth mark removes that player's oldest one.

Available commands:
  play      - Play a game directly
  menu      - Interactive setup menu
  serve     - Start SSH server for remote play
  history   - View recorded matches
  shell     - Text shell with hints and position files
  arena     - Let the computer play itself
  bestmove  - Compute a move for a position file
  list      - Show game modes

Examples:
  uttt play
  uttt play disappearing --difficulty hard
  uttt menu
  uttt serve --ssh :2222
  uttt arena --games 200 --x medium --o hard`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for the computer player (0 = unseeded)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to match database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for full-screen commands (default from config)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(arenaCmd)
	rootCmd.AddCommand(bestmoveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// newLogger builds the root logger. Full-screen commands log to a file so
// log lines never land on the alternate screen; the returned func closes it.
func newLogger(cfg config.Config, toFile bool, prefix string) (*log.Logger, func()) {
	levelName := cfg.Log.Level
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		level = log.InfoLevel
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile {
		path := cfg.Log.File
		if flagLogFile != "" {
			path = flagLogFile
		}
		w = io.Discard
		if path != "" {
			path = expandHome(path)
			//nolint:errcheck // Logging is optional; OpenFile reports the real failure
			os.MkdirAll(filepath.Dir(path), 0o755)
			if f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); openErr == nil {
				w = f
				closeFn = func() { f.Close() }
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn
}

// openStore opens the match database. A failure is reported and the
// command continues without history.
func openStore(cfg config.Config) *storage.Store {
	path := cfg.Storage.Path
	if flagDBPath != "" {
		path = flagDBPath
	}
	store, err := storage.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the current terminal size, or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// runtimeConfig turns the loaded configuration into what a game receives.
func runtimeConfig(cfg config.Config, logger *log.Logger) core.RuntimeConfig {
	width, height := terminalSize()
	rc := core.DefaultConfig()
	rc.ScreenW = width
	rc.ScreenH = height
	rc.TickRate = flagFPS
	rc.Seed = flagSeed
	rc.Logger = logger
	rc.Match = matchOptions(cfg)
	return rc
}

func matchOptions(cfg config.Config) core.MatchOptions {
	return core.MatchOptions{
		Mode:           cfg.Game.Mode,
		Difficulty:     cfg.Difficulty(),
		Tuning:         cfg.AI.Tuning,
		PlayerX:        cfg.Game.PlayerX,
		PlayerO:        cfg.Game.PlayerO,
		ThinkTicks:     cfg.ThinkTicks(flagFPS),
		FlashEvictions: cfg.Game.FlashEvictions,
	}
}
