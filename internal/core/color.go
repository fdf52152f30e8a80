package core

// Color is a foreground color for a screen cell.
type Color uint8

// Palette used by the board and status lines.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorMagenta
	ColorBrightCyan
	ColorBrightMagenta
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// ansiCodes holds the ANSI 256-color code of each palette entry.
var ansiCodes = [...]string{
	ColorDefault:       "",
	ColorCyan:          "6",
	ColorMagenta:       "5",
	ColorBrightCyan:    "14",
	ColorBrightMagenta: "13",
	ColorBrightYellow:  "11",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// ANSI returns the terminal color code, or "" for the default color.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
