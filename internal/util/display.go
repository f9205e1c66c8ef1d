package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ClearScreen    = "\033[2J"
	ClearLine      = "\033[2K"
	MoveCursorHome = "\033[H"
	HideCursor     = "\033[?25l"
	ShowCursor     = "\033[?25h"

	EnterAltScreen = "\033[?1049h"
	ExitAltScreen  = "\033[?1049l"
)

// GetDisplayWidth returns the number of terminal cells text occupies.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FitWidth truncates or right-pads text to exactly width cells.
func FitWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if GetDisplayWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// HexColor returns the 24-bit foreground sequence for a "#rrggbb" color. Other
// notations yield an empty string so output stays uncolored.
func HexColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return ""
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", v>>16, (v>>8)&0xff, v&0xff)
}

// Colorize wraps text in the sequence for hex, or returns it unchanged.
func Colorize(text, hex string) string {
	seq := HexColor(hex)
	if seq == "" {
		return text
	}
	return seq + text + ColorReset
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}
