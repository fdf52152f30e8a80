package shell

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-uttt/internal/ai"
	"github.com/vovakirdan/tui-uttt/internal/engine"
)

const (
	defaultHintDepth = 3
	maxHintDepth     = 7
	defaultHistory   = 10
)

var errGameOver = errors.New("the game is over; undo or reset")

func (sc *Controller) show(*shellcmd) (*Response, error) {
	return msg(sc.describe()), nil
}

// describe renders the position and a status line.
func (sc *Controller) describe() string {
	var b strings.Builder
	b.WriteString(engine.FormatPosition(sc.game.Position()))
	b.WriteString("\n")

	if res := sc.game.Winner(); res.Winner.Decided() {
		if res.Winner == engine.Draw {
			b.WriteString("Game drawn.")
		} else {
			fmt.Fprintf(&b, "%s wins.", res.Winner)
		}
	} else if sc.game.Stalled() {
		b.WriteString("No board left to play; the game ends without a winner.")
	} else {
		where := "any board"
		if a := sc.game.Active(); !a.Any() {
			where = fmt.Sprintf("board %d", a.Board())
		}
		fmt.Fprintf(&b, "%s to move on %s.", sc.game.CurrentPlayer(), where)
	}
	fmt.Fprintf(&b, " Moves: %d", sc.game.HistoryLen())
	if sc.game.Variant() == engine.Disappearing {
		fmt.Fprintf(&b, ", vanished: %d", sc.game.Evictions())
	}
	return b.String()
}

// parsePlacement accepts "b.c" or "b c".
func parsePlacement(args []string) (engine.Placement, error) {
	switch len(args) {
	case 1:
		return engine.ParsePlacement(args[0])
	case 2:
		return engine.ParsePlacement(args[0] + "." + args[1])
	default:
		return engine.Placement{}, errors.New("usage: move <board> <cell>")
	}
}

func (sc *Controller) move(cmd *shellcmd) (*Response, error) {
	p, err := parsePlacement(cmd.args)
	if err != nil {
		return nil, err
	}
	if sc.game.Over() {
		return nil, errGameOver
	}
	if !sc.game.CanPlay(p.Board) {
		return nil, fmt.Errorf("board %d is not playable; active: %s", p.Board, sc.game.Active())
	}
	if !sc.game.MakeMove(p.Board, p.Cell) {
		return nil, fmt.Errorf("cell %d.%d is taken", p.Board, p.Cell)
	}
	return msg(sc.describe()), nil
}

func (sc *Controller) undo(*shellcmd) (*Response, error) {
	if sc.game.HistoryLen() == 0 {
		return nil, errors.New("nothing to undo")
	}
	sc.game.UndoMove()
	return msg(sc.describe()), nil
}

func (sc *Controller) reset(*shellcmd) (*Response, error) {
	sc.game.Reset()
	return msg(sc.describe()), nil
}

func (sc *Controller) aiMove(cmd *shellcmd) (*Response, error) {
	d := sc.difficulty
	if len(cmd.args) > 0 {
		var err error
		if d, err = ai.ParseDifficulty(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	if sc.game.Over() {
		return nil, errGameOver
	}

	pos := sc.game.Position()
	dec, ok := sc.searcher.ComputeMoveFor(pos.ToMove, pos.Board, pos.Active, d, pos.Variant)
	if !ok {
		return nil, errors.New("no legal moves")
	}
	if !sc.game.MakeMove(dec.Move.Board, dec.Move.Cell) {
		return nil, fmt.Errorf("computer move %d.%d rejected", dec.Move.Board, dec.Move.Cell)
	}

	sc.logger.Debug("shell ai move", "difficulty", d, "score", dec.Score, "depth", dec.Depth, "nodes", dec.Nodes)

	how := "random"
	if !dec.Random {
		how = fmt.Sprintf("score %d, depth %d, %d nodes", dec.Score, dec.Depth, dec.Nodes)
	}
	return msg(fmt.Sprintf("%s plays %d.%d (%s)\n%s", dec.Move.Player, dec.Move.Board, dec.Move.Cell, how, sc.describe())), nil
}

func (sc *Controller) hint(cmd *shellcmd) (*Response, error) {
	depth := defaultHintDepth
	if v, ok := cmd.options["depth"]; ok {
		cmd.args = append([]string{v}, cmd.args...)
	}
	if len(cmd.args) > 0 {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil || n < 0 || n > maxHintDepth {
			return nil, fmt.Errorf("depth must be between 0 and %d", maxHintDepth)
		}
		depth = n
	}
	if sc.game.Over() {
		return nil, errGameOver
	}

	scored := sc.searcher.Analyze(sc.game.Position(), depth)
	if len(scored) == 0 {
		return nil, errors.New("no legal moves")
	}
	slices.SortStableFunc(scored, func(a, b ai.ScoredMove) int {
		return b.Score - a.Score
	})
	limit := 10
	if v, ok := cmd.options["top"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	lines := lo.Map(lo.Slice(scored, 0, limit), func(s ai.ScoredMove, i int) string {
		return fmt.Sprintf("%2d. %d.%d  %6d", i+1, s.Board, s.Cell, s.Score)
	})
	header := fmt.Sprintf("%d legal moves for %s at depth %d:", len(scored), sc.game.CurrentPlayer(), depth)
	return msg(header + "\n" + strings.Join(lines, "\n")), nil
}

func (sc *Controller) variant(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg("variant: " + sc.game.Variant().String()), nil
	}
	v, err := engine.ParseVariant(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.game = engine.New(v)
	return msg(sc.describe()), nil
}

func (sc *Controller) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pos, err := engine.ParsePosition(f)
	if err != nil {
		return nil, err
	}
	g, err := engine.Load(pos)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(sc.describe()), nil
}

func (sc *Controller) save(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	data := engine.FormatPosition(sc.game.Position())
	if moves := sc.game.History(); len(moves) > 0 {
		data = "# moves: " + engine.FormatMoves(moves) + "\n" + data
	}
	if err := os.WriteFile(cmd.args[0], []byte(data), 0o644); err != nil {
		return nil, err
	}
	return msg("saved " + cmd.args[0]), nil
}

func (sc *Controller) moves(*shellcmd) (*Response, error) {
	moves := sc.game.History()
	if len(moves) == 0 {
		return msg("no moves yet"), nil
	}
	return msg(engine.FormatMoves(moves)), nil
}

func (sc *Controller) history(cmd *shellcmd) (*Response, error) {
	if sc.store == nil {
		return nil, errors.New("match history is unavailable")
	}
	limit := defaultHistory
	if len(cmd.args) > 0 {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil || n <= 0 {
			return nil, errors.New("usage: history [count] [-variant classic|disappearing]")
		}
		limit = n
	}
	matches, err := sc.store.RecentMatchesByVariant(cmd.options["variant"], limit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return msg("no matches recorded"), nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Date", "Variant", "Mode", "Difficulty", "Winner", "Moves")
	for _, m := range matches {
		t.Row(
			strconv.FormatInt(m.ID, 10),
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.Variant,
			m.Mode,
			m.Difficulty,
			m.Winner,
			strconv.Itoa(m.Moves),
		)
	}
	return msg(t.String()), nil
}

var helpText = `Commands:
  show                      print the position
  move <board> <cell>       play a move (also: m 4.4)
  undo                      take back the last move
  reset                     start over
  ai [difficulty]           let the computer move for the side to move
  hint [depth] [-top n]     score every legal move for the side to move
  variant [name]            show or switch variant (resets the game)
  load <file>               load a position file
  save <file>               write the position to a file
  moves                     list the moves played
  history [n] [-variant v]  recent stored matches
  help                      this text
  exit                      leave the shell`

func (sc *Controller) help(*shellcmd) (*Response, error) {
	return msg(helpText), nil
}

func (sc *Controller) exit(*shellcmd) (*Response, error) {
	return nil, errExit
}
