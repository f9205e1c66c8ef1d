// Package interaction drives the terminal chart explorer: a keyboard-moved
// cursor over the time axis with the tooltip of the current position.
package interaction

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/tracker"
	"github.com/encukou/portingchart/internal/presentation/formatter"
	"github.com/encukou/portingchart/internal/presentation/layout"
	"github.com/encukou/portingchart/internal/util"
)

// PageStep is how many cells '[' and ']' move the cursor.
const PageStep = 10

const helpLine = "←/→ h/l move  [/] jump  ↑/↓ j/k layer  home/end  r legend  q quit"

// Explorer holds the cursor state of an interactive session. Every key
// rebuilds the tooltip from the tracker; nothing else is carried over.
type Explorer struct {
	tracker *tracker.Tracker
	sizer   *layout.Sizer
	text    *formatter.TextFormatter
	out     io.Writer

	col     int
	hovered int // index into the layers, -1 for none
	state   model.TooltipState
}

// NewExplorer creates an explorer writing frames to out. The legend is shown
// until the cursor first moves.
func NewExplorer(tr *tracker.Tracker, sizer *layout.Sizer, out io.Writer, color bool) *Explorer {
	return &Explorer{
		tracker: tr,
		sizer:   sizer,
		text:    formatter.NewTextFormatter(color),
		out:     out,
		hovered: -1,
		state:   tr.Legend(),
	}
}

// State returns the tooltip currently shown.
func (e *Explorer) State() model.TooltipState {
	return e.state
}

// Column returns the cursor cell.
func (e *Explorer) Column() int {
	return e.col
}

// Cursor returns the cursor position in chart pixels.
func (e *Explorer) Cursor() float64 {
	return e.sizer.Pixel(e.col, e.tracker.Width())
}

func (e *Explorer) hoveredCategory() string {
	layers := e.tracker.Layers()
	if e.hovered < 0 || e.hovered >= len(layers) {
		return ""
	}
	return layers[e.hovered].Category
}

func (e *Explorer) move(delta int) {
	e.moveTo(e.col + delta)
}

func (e *Explorer) moveTo(col int) {
	if col < 0 {
		col = 0
	}
	if last := e.sizer.TrackWidth() - 1; col > last {
		col = last
	}
	e.col = col
	e.refresh()
}

func (e *Explorer) cycle(delta int) {
	n := len(e.tracker.Layers())
	if n == 0 {
		return
	}
	switch {
	case e.hovered >= 0:
		e.hovered = ((e.hovered+delta)%n + n) % n
	case delta > 0:
		e.hovered = 0
	default:
		e.hovered = n - 1
	}
	e.refresh()
}

func (e *Explorer) refresh() {
	e.state = e.tracker.HandleMove(e.Cursor(), e.hoveredCategory())
}

// Handle applies one key. It reports false when the session should end.
func (e *Explorer) Handle(ev KeyEvent) bool {
	switch ev.Type {
	case KeyEscape:
		return false
	case KeyLeft:
		e.move(-1)
	case KeyRight:
		e.move(1)
	case KeyUp:
		e.cycle(-1)
	case KeyDown:
		e.cycle(1)
	case KeyHome:
		e.moveTo(0)
	case KeyEnd:
		e.moveTo(e.sizer.TrackWidth() - 1)
	case KeyChar:
		switch ev.Key {
		case 'q', 'Q', KeyCtrlC:
			return false
		case 'h':
			e.move(-1)
		case 'l':
			e.move(1)
		case '[':
			e.move(-PageStep)
		case ']':
			e.move(PageStep)
		case 'k':
			e.cycle(-1)
		case 'j':
			e.cycle(1)
		case 'g':
			e.moveTo(0)
		case 'G':
			e.moveTo(e.sizer.TrackWidth() - 1)
		case 'r':
			e.hovered = -1
			e.state = e.tracker.Legend()
		default:
			util.LogDebugf("Ignored key %q", ev.Key)
		}
	}
	return true
}

// Frame renders the current screen without terminal control sequences.
func (e *Explorer) Frame() string {
	var sb strings.Builder
	min, max := e.tracker.Domain()
	left, right := "", ""
	if !min.IsZero() || !max.IsZero() {
		left, right = min.Format(tracker.DateLayout), max.Format(tracker.DateLayout)
	}

	sb.WriteString("portingchart explorer\n\n")
	sb.WriteString(e.sizer.Edges(left, right))
	sb.WriteByte('\n')
	sb.WriteString(e.sizer.Scrubber(e.col))
	sb.WriteString("\n\n")
	sb.WriteString(e.text.Render(e.state))
	sb.WriteByte('\n')
	sb.WriteString(helpLine)
	sb.WriteByte('\n')
	return sb.String()
}

func (e *Explorer) draw() error {
	frame := strings.ReplaceAll(e.Frame(), "\n", "\r\n")
	_, err := fmt.Fprint(e.out, util.ClearScreen+util.MoveCursorHome+frame)
	return err
}

// Run draws the screen and handles keys until a quit key, a closed event
// channel or ctx cancellation.
func (e *Explorer) Run(ctx context.Context, events <-chan KeyEvent) error {
	fmt.Fprint(e.out, util.EnterAltScreen+util.HideCursor)
	defer fmt.Fprint(e.out, util.ShowCursor+util.ExitAltScreen)

	if err := e.draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !e.Handle(ev) {
				return nil
			}
			if err := e.draw(); err != nil {
				util.LogWarnf("Failed to draw explorer frame: %v", err)
			}
		}
	}
}
