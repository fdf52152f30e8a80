package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, want 12x4", s.Width(), s.Height())
	}
	want := strings.Repeat(strings.Repeat(" ", 12)+"\n", 4)
	if got := s.String() + "\n"; got != want {
		t.Errorf("new screen is not blank: %q", got)
	}
}

func TestSetCellClipsOutOfBounds(t *testing.T) {
	s := NewScreen(3, 3)
	for _, p := range [][2]int{{-1, 0}, {3, 0}, {0, -1}, {0, 3}} {
		s.Set(p[0], p[1], 'X') // must not panic
	}
	if strings.ContainsRune(s.String(), 'X') {
		t.Error("out-of-bounds writes reached the buffer")
	}
	if got := s.GetCell(-1, -1); got != blank {
		t.Errorf("GetCell outside = %+v, want blank", got)
	}

	s.SetCell(1, 1, Cell{Rune: 'O', Color: ColorBrightYellow, Reverse: true})
	got := s.GetCell(1, 1)
	if got.Rune != 'O' || got.Color != ColorBrightYellow || !got.Reverse {
		t.Errorf("GetCell(1, 1) = %+v", got)
	}
	s.Clear()
	if s.GetCell(1, 1) != blank {
		t.Error("Clear should drop runes and styling")
	}
}

func TestDrawText(t *testing.T) {
	s := NewScreen(11, 3)
	s.DrawTextColor(8, 0, "abcdef", ColorCyan)
	s.DrawTextCentered(1, "X wins", ColorBrightCyan)
	s.DrawText(0, 2, "é·x")

	tests := []struct {
		y    int
		want string
	}{
		{0, "        abc"},
		{1, "  X wins   "},
		{2, "é·x        "},
	}
	for _, tt := range tests {
		if got := s.Row(tt.y); got != tt.want {
			t.Errorf("Row(%d) = %q, want %q", tt.y, got, tt.want)
		}
	}
	if c := s.GetCell(2, 1); c.Color != ColorBrightCyan {
		t.Errorf("centered text color = %v, want %v", c.Color, ColorBrightCyan)
	}
	if got := s.Row(7); got != strings.Repeat(" ", 11) {
		t.Errorf("Row outside = %q, want spaces", got)
	}
}

func TestDrawBoxAndLines(t *testing.T) {
	s := NewScreen(7, 5)
	s.DrawBox(NewRect(0, 0, 7, 5), ColorGray)
	s.DrawHLine(1, 2, 5, '─', ColorGray)
	s.DrawVLine(3, 1, 3, '│', ColorGray)
	s.SetColor(3, 2, '┼', ColorGray)

	want := strings.Join([]string{
		"┌─────┐",
		"│  │  │",
		"│──┼──│",
		"│  │  │",
		"└─────┘",
	}, "\n")
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestResizeKeepsOverlap(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "abcd")
	s.DrawText(0, 1, "efgh")

	s.Resize(2, 3)
	if got := s.String(); got != "ab\nef\n  " {
		t.Errorf("after shrink = %q", got)
	}

	s.Resize(2, 3) // no-op
	if s.Get(1, 1) != 'f' {
		t.Error("same-size resize should keep content")
	}
}
