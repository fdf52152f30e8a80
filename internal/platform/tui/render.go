package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-uttt/internal/core"
)

// styleFor returns the lipgloss style for a cell's color and highlight.
func styleFor(c core.Color, reverse bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	if code := c.ANSI(); code != "" {
		style = style.Foreground(lipgloss.Color(code))
	}
	if reverse {
		style = style.Reverse(true)
	}
	return style
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			first := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != first.Color || cell.Reverse != first.Reverse {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(first.Color, first.Reverse).Render(run.String()))
		}
	}
	return sb.String()
}
