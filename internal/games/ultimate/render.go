package ultimate

import (
	"fmt"

	"github.com/vovakirdan/tui-uttt/internal/core"
	"github.com/vovakirdan/tui-uttt/internal/engine"
)

const (
	cellWidth = 3 // " X "
	fieldW    = 9*cellWidth + 2 + 2 // cells, two board separators, border
	fieldH    = 9 + 2 + 2
	layoutH   = fieldH + 8 // title, players, gap, field, gap, status, message, controls
	minWidth  = fieldW + 4
)

// Colors for marks and board state.
const (
	colorX       = core.ColorBrightCyan
	colorO       = core.ColorBrightMagenta
	colorGrid    = core.ColorGray
	colorActive  = core.ColorBrightYellow
	colorDraw    = core.ColorGray
	colorMessage = core.ColorOrange
)

func markColor(m engine.Mark) core.Color {
	switch m {
	case engine.X:
		return colorX
	case engine.O:
		return colorO
	default:
		return core.ColorDefault
	}
}

func winnerColor(w engine.Winner) core.Color {
	switch w {
	case engine.WinnerX:
		return core.ColorCyan
	case engine.WinnerO:
		return core.ColorMagenta
	default:
		return colorDraw
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	g.tooSmall = dst.Width() < minWidth || dst.Height() < layoutH
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	area := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(fieldW, layoutH)
	fieldX, fieldY := area.X, area.Y+3

	dst.DrawTextCentered(area.Y, g.Title(), core.ColorBrightWhite)
	g.renderPlayers(dst, area.Y+1)
	g.renderField(dst, fieldX, fieldY)
	g.renderStatus(dst, fieldY+fieldH+1)
	dst.DrawTextCentered(area.Bottom()-1, g.Controls(), core.ColorGray)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minWidth, layoutH), core.ColorGray)
}

func (g *Game) renderPlayers(dst *core.Screen, y int) {
	xName := fmt.Sprintf("X: %s", g.opts.PlayerX)
	oName := fmt.Sprintf("O: %s", g.opts.PlayerO)
	if g.vsComputer() {
		oName = fmt.Sprintf("O: Computer (%s)", g.opts.Difficulty)
	}
	line := xName + "   vs   " + oName
	x := (dst.Width() - len([]rune(line))) / 2
	dst.DrawTextColor(x, y, xName, colorX)
	dst.DrawTextColor(x+len([]rune(xName))+3, y, "vs", core.ColorGray)
	dst.DrawTextColor(x+len([]rune(xName))+8, y, oName, colorO)
}

// cellOrigin returns the screen position of the left edge of a field cell.
func cellOrigin(fieldX, fieldY, row, col int) (int, int) {
	return fieldX + 1 + col*cellWidth + col/3, fieldY + 1 + row + row/3
}

// renderField draws the 9x9 field with board separators.
func (g *Game) renderField(dst *core.Screen, x, y int) {
	dst.DrawBox(core.NewRect(x, y, fieldW, fieldH), colorGrid)
	for i := 1; i < 3; i++ {
		sepX := x + 1 + i*3*cellWidth + i - 1
		sepY := y + 1 + i*3 + i - 1
		dst.DrawVLine(sepX, y+1, fieldH-2, '│', colorGrid)
		dst.DrawHLine(x+1, sepY, fieldW-2, '─', colorGrid)
		dst.SetColor(sepX, y, '┬', colorGrid)
		dst.SetColor(sepX, y+fieldH-1, '┴', colorGrid)
		dst.SetColor(x, sepY, '├', colorGrid)
		dst.SetColor(x+fieldW-1, sepY, '┤', colorGrid)
	}
	for i := 1; i < 3; i++ {
		for j := 1; j < 3; j++ {
			dst.SetColor(x+1+i*3*cellWidth+i-1, y+1+j*3+j-1, '┼', colorGrid)
		}
	}

	board := g.eng.Board()
	active := g.eng.Active()
	over := g.eng.Over()
	vanishing := g.vanishing()
	lastMove, hasLast := g.eng.LastMove()

	for row := range 9 {
		for col := range 9 {
			p := engine.GridPlacement(row, col)
			sb := board[p.Board]
			mark := sb.Cells[p.Cell]
			cx, cy := cellOrigin(x, y, row, col)

			cell := core.Cell{Rune: '·', Color: colorGrid}
			switch {
			case mark != engine.Empty:
				cell = core.Cell{Rune: []rune(mark.String())[0], Color: markColor(mark)}
				if sb.Decided() && !onLine(sb.WinLine, p.Cell) {
					cell.Color = winnerColor(sb.Winner)
				}
				if vanishing[p] && g.flashOn() {
					cell.Color = colorGrid
				}
			case sb.Decided():
				cell.Color = winnerColor(sb.Winner)
				cell.Rune = ' '
			case !over && active.Allows(p.Board):
				cell.Color = colorActive
			}

			left, right := ' ', ' '
			if hasLast && lastMove.Placement() == p {
				left, right = '[', ']'
			}
			reverse := !over && !g.thinking && row == g.row && col == g.col

			dst.SetCell(cx, cy, core.Cell{Rune: left, Color: cell.Color, Reverse: reverse})
			dst.SetCell(cx+1, cy, core.Cell{Rune: cell.Rune, Color: cell.Color, Reverse: reverse})
			dst.SetCell(cx+2, cy, core.Cell{Rune: right, Color: cell.Color, Reverse: reverse})
		}
	}

	g.renderBoardResults(dst, x, y, board)
}

// renderBoardResults stamps the winner's mark in the middle of every
// decided sub-board, or '=' for a drawn one.
func (g *Game) renderBoardResults(dst *core.Screen, x, y int, board engine.MetaBoard) {
	for i, sb := range board {
		if !sb.Decided() {
			continue
		}
		r := '='
		if m := sb.Winner.Mark(); m != engine.Empty {
			r = []rune(m.String())[0]
		}
		row, col := engine.GridCoords(engine.Placement{Board: i, Cell: 4})
		if board[i].Cells[4] != engine.Empty {
			continue
		}
		cx, cy := cellOrigin(x, y, row, col)
		dst.SetColor(cx+1, cy, r, winnerColor(sb.Winner))
	}
}

func onLine(l engine.Line, cell int) bool {
	if !l.Valid() {
		return false
	}
	for _, c := range l {
		if c == cell {
			return true
		}
	}
	return false
}

// vanishing returns the marks that disappear with the next move, when
// flashing is enabled.
func (g *Game) vanishing() map[engine.Placement]bool {
	if !g.opts.FlashEvictions {
		return nil
	}
	pending := g.eng.PendingEvictions()
	if len(pending) == 0 {
		return nil
	}
	out := make(map[engine.Placement]bool, len(pending))
	for _, p := range pending {
		out[p] = true
	}
	return out
}

// flashOn toggles four times a second.
func (g *Game) flashOn() bool {
	period := uint64(g.tickRate / 4)
	if period == 0 {
		period = 1
	}
	return (g.tick/period)%2 == 0
}

// renderStatus draws whose turn it is or the result, and any message.
func (g *Game) renderStatus(dst *core.Screen, y int) {
	dst.DrawTextCentered(y, g.StatusLine(), g.statusColor())
	if g.message != "" {
		dst.DrawTextCentered(y+1, g.message, colorMessage)
	}
}

// StatusLine describes the turn or the final result.
func (g *Game) StatusLine() string {
	res := g.eng.Winner()
	switch res.Winner {
	case engine.WinnerX:
		return fmt.Sprintf("%s wins! Press R to play again", g.playerName(engine.X))
	case engine.WinnerO:
		return fmt.Sprintf("%s wins! Press R to play again", g.playerName(engine.O))
	case engine.Draw:
		return "Draw! Press R to play again"
	}
	if g.eng.Stalled() {
		return "No board left to play. Press R to play again"
	}

	if g.thinking {
		return "Computer is thinking..."
	}
	cur := g.eng.CurrentPlayer()
	where := "any board"
	if a := g.eng.Active(); !a.Any() {
		where = fmt.Sprintf("board %d", a.Board())
	}
	return fmt.Sprintf("%s (%s) to move on %s", g.playerName(cur), cur, where)
}

func (g *Game) statusColor() core.Color {
	if w := g.eng.Winner().Winner; w.Decided() {
		return winnerColor(w)
	}
	if g.eng.Stalled() {
		return colorDraw
	}
	return markColor(g.eng.CurrentPlayer())
}

func (g *Game) playerName(m engine.Mark) string {
	if m == engine.O {
		if g.vsComputer() {
			return "Computer"
		}
		return g.opts.PlayerO
	}
	return g.opts.PlayerX
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Enter: Place | U: Undo | R: Restart | Q: Quit"
}
