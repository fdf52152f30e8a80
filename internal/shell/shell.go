// Package shell is an interactive text interface to the engine and the
// computer player: make moves, ask for hints, load and save positions.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
	"github.com/vovakirdan/tui-uttt/internal/storage"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong option syntax")
	errExit              = errors.New("exit")
)

// shellcmd is one parsed input line.
type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// Response is what a command prints on success.
type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// Options configures a Controller.
type Options struct {
	Variant    engine.Variant
	Difficulty ai.Difficulty
	Tuning     ai.Tuning
	Seed       int64
	Store      *storage.Store // nil disables the history command
	Logger     *log.Logger
	Out        io.Writer // defaults to the readline instance's stdout
}

// Controller holds the shell's game and dispatches commands.
type Controller struct {
	l          *readline.Instance
	out        io.Writer
	game       *engine.Game
	searcher   *ai.Searcher
	difficulty ai.Difficulty
	store      *storage.Store
	logger     *log.Logger
	commands   map[string]func(*shellcmd) (*Response, error)
}

// NewController creates a shell with a fresh game.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = ai.Hard
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	sc := &Controller{
		out:        out,
		game:       engine.New(opts.Variant),
		searcher:   ai.New(ai.NewRand(opts.Seed), ai.WithTuning(opts.Tuning)),
		difficulty: difficulty,
		store:      opts.Store,
		logger:     logger,
	}
	sc.commands = map[string]func(*shellcmd) (*Response, error){
		"show":    sc.show,
		"move":    sc.move,
		"m":       sc.move,
		"undo":    sc.undo,
		"reset":   sc.reset,
		"ai":      sc.aiMove,
		"hint":    sc.hint,
		"variant": sc.variant,
		"load":    sc.load,
		"save":    sc.save,
		"moves":   sc.moves,
		"history": sc.history,
		"help":    sc.help,
		"exit":    sc.exit,
		"quit":    sc.exit,
	}
	return sc
}

// Game returns the shell's current game.
func (sc *Controller) Game() *engine.Game {
	return sc.game
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func (sc *Controller) completer() *readline.PrefixCompleter {
	variants := readline.PcItem("variant",
		readline.PcItem(engine.Classic.String()),
		readline.PcItem(engine.Disappearing.String()),
	)
	difficulties := make([]readline.PrefixCompleterInterface, 0, len(ai.Difficulties))
	for _, d := range ai.Difficulties {
		difficulties = append(difficulties, readline.PcItem(string(d)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("show"),
		readline.PcItem("move"),
		readline.PcItem("undo"),
		readline.PcItem("reset"),
		readline.PcItem("ai", difficulties...),
		readline.PcItem("hint"),
		variants,
		readline.PcItem("load", readline.PcItemDynamic(listFiles)),
		readline.PcItem("save", readline.PcItemDynamic(listFiles)),
		readline.PcItem("moves"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// listFiles offers files in the current directory for load and save.
func listFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".uttt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}

// Loop reads and runs commands until exit, EOF, or an interrupt on an
// empty line. Command errors are printed and the loop continues.
func (sc *Controller) Loop() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36muttt>\033[0m ",
		HistoryFile:     historyFile(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    sc.completer(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	sc.l = l
	sc.out = l.Stdout()
	defer l.Close()

	showMessage(sc.game.Variant().String()+" game. Type help for commands.", sc.out)

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		}

		if err := sc.Execute(line); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			showMessage("Error: "+err.Error(), l.Stderr())
		}
	}
	sc.logger.Debug("exiting shell loop")
	return nil
}

// Execute runs a single command line and prints its response.
func (sc *Controller) Execute(line string) error {
	cmd, err := extractFields(line)
	if errors.Is(err, errNoData) {
		return nil
	}
	if err != nil {
		return err
	}

	sc.logger.Debug("shell command", "cmd", cmd.cmd, "args", cmd.args)

	handler, ok := sc.commands[cmd.cmd]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", cmd.cmd)
	}
	resp, err := handler(cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		showMessage(resp.message, sc.out)
	}
	return nil
}

// extractFields splits a line into command, positional arguments and
// "-name value" options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}

	cmd := &shellcmd{
		cmd:     strings.ToLower(fields[0]),
		args:    []string{},
		options: map[string]string{},
	}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if !strings.HasPrefix(f, "-") || len(f) == 1 {
			cmd.args = append(cmd.args, f)
			continue
		}
		if i+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		cmd.options[strings.TrimPrefix(f, "-")] = fields[i+1]
		i++
	}
	return cmd, nil
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}
