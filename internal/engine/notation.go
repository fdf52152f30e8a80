package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Notation errors. Parse errors wrap one of these.
var (
	ErrBadGrid   = errors.New("malformed grid")
	ErrBadHeader = errors.New("malformed header")
	ErrBadOrder  = errors.New("inconsistent move order")
)

// GridPlacement maps a row and column of the 9x9 field to a placement.
func GridPlacement(row, col int) Placement {
	return Placement{
		Board: (row/3)*3 + col/3,
		Cell:  (row%3)*3 + col%3,
	}
}

// GridCoords is the inverse of GridPlacement.
func GridCoords(p Placement) (row, col int) {
	return (p.Board/3)*3 + p.Cell/3, (p.Board%3)*3 + p.Cell%3
}

// FormatPosition renders a position as a fixture:
//
//	# variant: classic
//	# to-move: X
//	# active: any
//	X..|...|...
//	...
//
// Move orders are written only for the disappearing variant.
func FormatPosition(pos Position) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# variant: %s\n", pos.Variant)
	fmt.Fprintf(&sb, "# to-move: %s\n", pos.ToMove)
	fmt.Fprintf(&sb, "# active: %s\n", pos.Active)
	if pos.Variant == Disappearing {
		fmt.Fprintf(&sb, "# x-order: %s\n", formatOrders(pos.Board, X))
		fmt.Fprintf(&sb, "# o-order: %s\n", formatOrders(pos.Board, O))
	}

	for row := 0; row < 9; row++ {
		if row == 3 || row == 6 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 9; col++ {
			if col == 3 || col == 6 {
				sb.WriteByte('|')
			}
			p := GridPlacement(row, col)
			sb.WriteString(pos.Board[p.Board].Cells[p.Cell].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatOrders(m MetaBoard, p Mark) string {
	var parts []string
	for i, b := range m {
		for _, c := range b.Order(p).Cells() {
			parts = append(parts, fmt.Sprintf("%d.%d", i, c))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// ParsePosition reads a fixture written by FormatPosition. Header lines are
// optional: the variant defaults to classic, the constraint to any board,
// and the player to move is inferred from mark counts. Separator characters
// and blank lines are ignored.
func ParsePosition(r io.Reader) (Position, error) {
	var (
		pos     Position
		rows    int
		toMove  string
		xOrder  string
		oOrder  string
		hasXOrd bool
		hasOOrd bool
	)
	pos.Active = AnyBoard

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			key, value, ok := strings.Cut(strings.TrimSpace(line[1:]), ":")
			if !ok {
				continue // plain comment
			}
			key = strings.ToLower(strings.TrimSpace(key))
			value = strings.TrimSpace(value)

			switch key {
			case "variant":
				v, err := ParseVariant(value)
				if err != nil {
					return pos, fmt.Errorf("notation: line %d: %w: %v", lineNo, ErrBadHeader, err)
				}
				pos.Variant = v
			case "to-move":
				toMove = strings.ToUpper(value)
			case "active":
				c, err := parseConstraint(value)
				if err != nil {
					return pos, fmt.Errorf("notation: line %d: %w", lineNo, err)
				}
				pos.Active = c
			case "x-order":
				xOrder, hasXOrd = value, true
			case "o-order":
				oOrder, hasOOrd = value, true
			}
			continue
		}

		cells, sepOnly, err := parseRow(line)
		if err != nil {
			return pos, fmt.Errorf("notation: line %d: %w", lineNo, err)
		}
		if sepOnly {
			continue
		}
		if rows == 9 {
			return pos, fmt.Errorf("notation: line %d: %w: more than 9 rows", lineNo, ErrBadGrid)
		}
		for col, m := range cells {
			p := GridPlacement(rows, col)
			pos.Board[p.Board].Cells[p.Cell] = m
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return pos, fmt.Errorf("notation: read: %w", err)
	}
	if rows != 9 {
		return pos, fmt.Errorf("notation: %w: got %d rows, want 9", ErrBadGrid, rows)
	}

	switch toMove {
	case "X":
		pos.ToMove = X
	case "O":
		pos.ToMove = O
	case "":
		pos.ToMove = inferToMove(pos.Board)
	default:
		return pos, fmt.Errorf("notation: %w: to-move %q", ErrBadHeader, toMove)
	}

	if pos.Variant == Disappearing {
		if err := fillOrder(&pos.Board, X, xOrder, hasXOrd); err != nil {
			return pos, fmt.Errorf("notation: x-order: %w", err)
		}
		if err := fillOrder(&pos.Board, O, oOrder, hasOOrd); err != nil {
			return pos, fmt.Errorf("notation: o-order: %w", err)
		}
	}

	for i := range pos.Board {
		pos.Board[i].recompute()
	}
	return pos, nil
}

func parseConstraint(s string) (Constraint, error) {
	if strings.EqualFold(s, "any") || s == "" {
		return AnyBoard, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !validIndex(n) {
		return AnyBoard, fmt.Errorf("%w: active %q", ErrBadHeader, s)
	}
	return OnBoard(n), nil
}

// parseRow extracts nine marks from a grid line. Lines made only of
// separators report sepOnly.
func parseRow(line string) ([]Mark, bool, error) {
	var cells []Mark
	for _, r := range line {
		switch r {
		case 'X', 'x':
			cells = append(cells, X)
		case 'O', 'o', '0':
			cells = append(cells, O)
		case '.', '_':
			cells = append(cells, Empty)
		case '|', '+', '-', ' ', '\t':
		default:
			return nil, false, fmt.Errorf("%w: unexpected %q", ErrBadGrid, r)
		}
	}
	if len(cells) == 0 {
		return nil, true, nil
	}
	if len(cells) != 9 {
		return nil, false, fmt.Errorf("%w: row has %d cells, want 9", ErrBadGrid, len(cells))
	}
	return cells, false, nil
}

func inferToMove(m MetaBoard) Mark {
	x, o := 0, 0
	for _, b := range m {
		x += b.Count(X)
		o += b.Count(O)
	}
	if x > o {
		return O
	}
	return X
}

// fillOrder populates a player's move orders, either from an explicit
// "board.cell" list or, when absent, in ascending cell order.
func fillOrder(m *MetaBoard, p Mark, spec string, explicit bool) error {
	for i := range m {
		*m[i].order(p) = MoveOrder{}
	}

	if !explicit || spec == "-" {
		for i := range m {
			if explicit && m[i].Count(p) > 0 {
				return fmt.Errorf("%w: board %d has unlisted marks", ErrBadOrder, i)
			}
			if m[i].Count(p) > MaxLiveMarks {
				return fmt.Errorf("%w: board %d holds more than %d marks", ErrBadOrder, i, MaxLiveMarks)
			}
			cells := make([]int, 0, MaxLiveMarks)
			for c, v := range m[i].Cells {
				if v == p {
					cells = append(cells, c)
				}
			}
			sort.Ints(cells)
			for _, c := range cells {
				m[i].order(p).push(c)
			}
		}
		return nil
	}

	for _, tok := range strings.Fields(spec) {
		bs, cs, ok := strings.Cut(tok, ".")
		if !ok {
			return fmt.Errorf("%w: entry %q", ErrBadOrder, tok)
		}
		b, errB := strconv.Atoi(bs)
		c, errC := strconv.Atoi(cs)
		if errB != nil || errC != nil || !validIndex(b) || !validIndex(c) {
			return fmt.Errorf("%w: entry %q", ErrBadOrder, tok)
		}
		q := m[b].order(p)
		if m[b].Cells[c] != p || q.Contains(c) {
			return fmt.Errorf("%w: entry %q does not match the grid", ErrBadOrder, tok)
		}
		if q.Len() == MaxLiveMarks {
			return fmt.Errorf("%w: board %d lists more than %d marks", ErrBadOrder, b, MaxLiveMarks)
		}
		q.push(c)
	}
	for i := range m {
		if m[i].order(p).Len() != m[i].Count(p) {
			return fmt.Errorf("%w: board %d has unlisted marks", ErrBadOrder, i)
		}
	}
	return nil
}

// FormatMoves renders moves as space-separated "board.cell" pairs.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, mv := range moves {
		parts[i] = fmt.Sprintf("%d.%d", mv.Board, mv.Cell)
	}
	return strings.Join(parts, " ")
}

// ParsePlacement reads a single "board.cell" pair.
func ParsePlacement(tok string) (Placement, error) {
	bs, cs, ok := strings.Cut(tok, ".")
	b, errB := strconv.Atoi(bs)
	c, errC := strconv.Atoi(cs)
	if !ok || errB != nil || errC != nil || !validIndex(b) || !validIndex(c) {
		return Placement{}, fmt.Errorf("malformed move %q", tok)
	}
	return Placement{Board: b, Cell: c}, nil
}

// ReplayMoves plays a FormatMoves list on a fresh game.
func ReplayMoves(v Variant, list string) (*Game, error) {
	g := New(v)
	for i, tok := range strings.Fields(list) {
		p, err := ParsePlacement(tok)
		if err != nil {
			return nil, fmt.Errorf("notation: move %d: %w", i+1, err)
		}
		if !g.MakeMove(p.Board, p.Cell) {
			return nil, fmt.Errorf("notation: move %d: illegal %q", i+1, tok)
		}
	}
	return g, nil
}
