// Package layout sizes the terminal explorer screen.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/encukou/portingchart/internal/util"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
	// MinWidth is the narrowest terminal the scrubber is drawn at full detail.
	MinWidth = 20
	margin   = 4
)

// Sizer holds the terminal dimensions used for one frame.
type Sizer struct {
	Width  int
	Height int
}

// NewSizer creates a sizer for a width x height terminal.
func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer measures the terminal on fd, falling back to 80x24.
func TerminalSizer(fd int) *Sizer {
	width, height, err := term.GetSize(fd)
	if err != nil || width <= 0 || height <= 0 {
		util.LogDebugf("Terminal size unavailable, using %dx%d: %v", DefaultWidth, DefaultHeight, err)
		return NewSizer(DefaultWidth, DefaultHeight)
	}
	return NewSizer(width, height)
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// PadString pads s to a display width, counting wide runes as two cells.
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(text)
	if actual >= width {
		return text
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// TrackWidth is the number of scrubber cells, one per cursor stop.
func (s Sizer) TrackWidth() int {
	w := s.Width - margin
	if w < MinWidth {
		w = MinWidth
	}
	return w
}

// Column maps a chart x position onto a scrubber cell.
func (s Sizer) Column(px, plotWidth float64) int {
	n := s.TrackWidth()
	if plotWidth <= 0 || n <= 1 {
		return 0
	}
	col := int(px/plotWidth*float64(n-1) + 0.5)
	if col < 0 {
		return 0
	}
	if col > n-1 {
		return n - 1
	}
	return col
}

// Pixel maps a scrubber cell back onto the chart x range.
func (s Sizer) Pixel(col int, plotWidth float64) float64 {
	n := s.TrackWidth()
	if n <= 1 {
		return 0
	}
	if col < 0 {
		col = 0
	}
	if col > n-1 {
		col = n - 1
	}
	return float64(col) / float64(n-1) * plotWidth
}

// Scrubber draws the time track with the cursor at col.
func (s Sizer) Scrubber(col int) string {
	n := s.TrackWidth()
	if col < 0 {
		col = 0
	}
	if col > n-1 {
		col = n - 1
	}
	return "[" + strings.Repeat("-", col) + "|" + strings.Repeat("-", n-1-col) + "]"
}

// Edges returns left and right labels spread across the scrubber width.
func (s Sizer) Edges(left, right string) string {
	total := s.TrackWidth() + 2
	gap := total - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
