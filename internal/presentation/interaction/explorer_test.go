package interaction

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/scale"
	"github.com/encukou/portingchart/internal/core/stack"
	"github.com/encukou/portingchart/internal/core/tracker"
	"github.com/encukou/portingchart/internal/presentation/layout"
	"github.com/encukou/portingchart/internal/testing/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2015, 10, d, 0, 0, 0, 0, time.UTC)
}

func newExplorer(t *testing.T) (*Explorer, *bytes.Buffer) {
	t.Helper()
	samples := []model.Sample{
		{Timestamp: day(10), Category: "done", Value: 5},
		{Timestamp: day(11), Category: "done", Value: 7},
		{Timestamp: day(10), Category: "todo", Value: 3},
		{Timestamp: day(11), Category: "todo", Value: 2},
	}
	layers := stack.New(model.CategoryOrder{"done", "todo"}).Stack(samples)
	x := scale.NewTime(day(10), day(11), 0, 600)
	y := scale.Quantity(stack.MaxTop(layers), false, 540)
	colors := scale.NewColor(map[string]string{"done": "#3c763d", "todo": "#a94442"})
	tr := tracker.New(layers, x, y, colors, tracker.WithLocation(time.UTC))

	var out bytes.Buffer
	return NewExplorer(tr, layout.NewSizer(24, 10), &out, false), &out
}

func TestExplorerStartsWithLegend(t *testing.T) {
	e, _ := newExplorer(t)

	state := e.State()
	assert.True(t, state.Visible)
	assert.Empty(t, state.Date)
	require.Len(t, state.Lines, 2)
	assert.False(t, state.Lines[0].HasValue)
}

func TestExplorerMovesCursor(t *testing.T) {
	e, _ := newExplorer(t)

	assert.True(t, e.Handle(KeyEvent{Type: KeyRight}))
	assert.Equal(t, 1, e.Column())
	assert.Equal(t, "2015-10-10", e.State().Date)
	assert.Equal(t, 5.0, e.State().Lines[0].Value)

	e.Handle(KeyEvent{Type: KeyEnd})
	assert.Equal(t, 19, e.Column())
	assert.Equal(t, 600.0, e.Cursor())
	assert.Equal(t, "2015-10-11", e.State().Date)
	assert.Equal(t, 7.0, e.State().Lines[0].Value)

	e.Handle(KeyEvent{Type: KeyChar, Key: ']'})
	assert.Equal(t, 19, e.Column(), "clamped at the right edge")

	e.Handle(KeyEvent{Type: KeyChar, Key: '['})
	assert.Equal(t, 9, e.Column())

	e.Handle(KeyEvent{Type: KeyChar, Key: 'g'})
	assert.Equal(t, 0, e.Column())
	e.Handle(KeyEvent{Type: KeyChar, Key: 'h'})
	assert.Equal(t, 0, e.Column(), "clamped at the left edge")
}

func TestExplorerCyclesHoveredLayer(t *testing.T) {
	e, _ := newExplorer(t)

	e.Handle(KeyEvent{Type: KeyDown})
	line, ok := e.State().Emphasized()
	require.True(t, ok)
	assert.Equal(t, "done", line.Category)

	e.Handle(KeyEvent{Type: KeyChar, Key: 'j'})
	line, _ = e.State().Emphasized()
	assert.Equal(t, "todo", line.Category)

	e.Handle(KeyEvent{Type: KeyDown})
	line, _ = e.State().Emphasized()
	assert.Equal(t, "done", line.Category, "wraps around")

	e.Handle(KeyEvent{Type: KeyChar, Key: 'r'})
	_, ok = e.State().Emphasized()
	assert.False(t, ok)
	assert.Empty(t, e.State().Date)

	e.Handle(KeyEvent{Type: KeyUp})
	line, _ = e.State().Emphasized()
	assert.Equal(t, "todo", line.Category, "up from none selects the last layer")
}

func TestExplorerQuitKeys(t *testing.T) {
	e, _ := newExplorer(t)

	for _, ev := range []KeyEvent{
		{Type: KeyChar, Key: 'q'},
		{Type: KeyChar, Key: 'Q'},
		{Type: KeyChar, Key: KeyCtrlC},
		{Type: KeyEscape, Key: 27},
	} {
		assert.False(t, e.Handle(ev), "%+v", ev)
	}
	assert.True(t, e.Handle(KeyEvent{Type: KeyChar, Key: 'x'}))
}

func TestExplorerFrame(t *testing.T) {
	e, _ := newExplorer(t)
	e.Handle(KeyEvent{Type: KeyEnd})

	frame := e.Frame()

	assert.Contains(t, frame, "2015-10-10")
	assert.Contains(t, frame, "[-------------------|]")
	assert.Contains(t, frame, "2015-10-11\n  ■ done: 7 packages\n  ■ todo: 2 packages\n")
	assert.Contains(t, frame, "q quit")
}

func TestExplorerRun(t *testing.T) {
	e, out := newExplorer(t)
	events := make(chan KeyEvent, 3)
	events <- KeyEvent{Type: KeyRight}
	events <- KeyEvent{Type: KeyRight}
	events <- KeyEvent{Type: KeyChar, Key: 'q'}

	require.NoError(t, e.Run(context.Background(), events))

	assert.Equal(t, 2, e.Column())
	assert.Equal(t, 3, strings.Count(out.String(), "portingchart explorer"))
	assert.NotContains(t, out.String(), "\n\n", "raw mode output uses CRLF")
}

func TestExplorerRunStopsOnCancel(t *testing.T) {
	e, _ := newExplorer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, make(chan KeyEvent)) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("explorer did not stop")
	}
}

func TestExplorerRunStopsOnClosedChannel(t *testing.T) {
	e, _ := newExplorer(t)
	events := make(chan KeyEvent)
	close(events)

	assert.NoError(t, e.Run(context.Background(), events))
}

func TestExplorerRunLeavesLastFrameOnScreen(t *testing.T) {
	e, _ := newExplorer(t)
	scr := screen.New(24, 80)
	e.out = scr

	events := make(chan KeyEvent, 3)
	events <- KeyEvent{Type: KeyEnd}
	events <- KeyEvent{Type: KeyDown}
	events <- KeyEvent{Type: KeyChar, Key: 'q'}
	require.NoError(t, e.Run(context.Background(), events))

	expected := strings.TrimRight(e.Frame(), "\n")
	for i, line := range strings.Split(expected, "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), scr.Line(i), "row %d", i)
	}
	assert.Equal(t, "portingchart explorer", scr.Line(0))
	assert.True(t, scr.Contains("> ■ done: 7 packages"))
	assert.True(t, scr.CursorVisible())
}
