// Package tracker answers cursor queries against a rendered chart: which sample
// of every layer the cursor points at and what the tooltip shows for it.
package tracker

import (
	"sort"
	"strconv"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/scale"
)

const (
	// DateLayout formats the leading tooltip line.
	DateLayout = "2006-01-02"
	// DefaultUnit is appended to every tooltip value.
	DefaultUnit = " packages"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithUnit sets the suffix appended to tooltip values.
func WithUnit(unit string) Option {
	return func(t *Tracker) {
		t.unit = unit
	}
}

// WithLocation sets the time zone used to format the tooltip date.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// Tracker maps cursor positions to tooltip content. Layers and scales are
// fixed at construction; no state is kept between calls.
type Tracker struct {
	layers []model.Layer
	x      scale.Time
	y      scale.Linear
	colors scale.Color
	unit   string
	loc    *time.Location
}

// New creates a tracker over layers drawn with the given scales.
func New(layers []model.Layer, x scale.Time, y scale.Linear, colors scale.Color, opts ...Option) *Tracker {
	t := &Tracker{
		layers: layers,
		x:      x,
		y:      y,
		colors: colors,
		unit:   DefaultUnit,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NearestPreceding returns the last sample whose timestamp is not after at.
// When every sample is later than at the first sample is returned. ok is false
// only for an empty slice. samples must be in timestamp order.
func NearestPreceding(samples []model.StackedSample, at time.Time) (model.StackedSample, bool) {
	if len(samples) == 0 {
		return model.StackedSample{}, false
	}
	idx := sort.Search(len(samples), func(i int) bool {
		return samples[i].Timestamp.After(at)
	})
	if idx == 0 {
		return samples[0], true
	}
	return samples[idx-1], true
}

// Selection is the sample chosen for one layer at a cursor position.
type Selection struct {
	Category string
	Sample   model.StackedSample
}

// Select inverts the cursor x position, clamped to the chart width, and picks the
// nearest preceding sample of every non-empty layer.
func (t *Tracker) Select(px float64) (time.Time, []Selection) {
	at := t.x.Invert(t.x.ClampRange(px))
	selections := make([]Selection, 0, len(t.layers))
	for _, l := range t.layers {
		s, ok := NearestPreceding(l.Samples, at)
		if !ok {
			continue
		}
		selections = append(selections, Selection{Category: l.Category, Sample: s})
	}
	return at, selections
}

// HandleMove builds the tooltip for a cursor at pixel px while the band of
// hovered is under the cursor. hovered may be empty.
func (t *Tracker) HandleMove(px float64, hovered string) model.TooltipState {
	_, selections := t.Select(px)
	state := model.TooltipState{
		Visible: true,
		Lines:   make([]model.TooltipLine, 0, len(selections)),
	}
	for i, sel := range selections {
		if i == 0 {
			state.Date = sel.Sample.Timestamp.In(t.loc).Format(DateLayout)
		}
		color, _ := t.colors.Lookup(sel.Category)
		state.Lines = append(state.Lines, model.TooltipLine{
			Category:       sel.Category,
			Color:          color,
			Value:          sel.Sample.Value,
			FormattedValue: t.FormatValue(sel.Sample.Value),
			HasValue:       true,
			Emphasized:     sel.Category == hovered,
		})
	}
	return state
}

// HitTest returns the category whose band contains the cursor at (px, py).
func (t *Tracker) HitTest(px, py float64) (string, bool) {
	_, selections := t.Select(px)
	v := t.y.Invert(t.y.ClampRange(py))
	for _, sel := range selections {
		s := sel.Sample
		if s.Height > 0 && v >= s.Base && v <= s.Top() {
			return sel.Category, true
		}
	}
	return "", false
}

// Legend is the panel shown before any interaction: one line per layer without
// values.
func (t *Tracker) Legend() model.TooltipState {
	state := model.TooltipState{
		Visible: true,
		Lines:   make([]model.TooltipLine, 0, len(t.layers)),
	}
	for _, l := range t.layers {
		color, _ := t.colors.Lookup(l.Category)
		state.Lines = append(state.Lines, model.TooltipLine{
			Category: l.Category,
			Color:    color,
		})
	}
	return state
}

// Reset returns the hidden tooltip.
func (t *Tracker) Reset() model.TooltipState {
	return model.TooltipState{}
}

// FormatValue renders a tooltip value with the unit suffix.
func (t *Tracker) FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + t.unit
}

// Layers returns the tracked layers.
func (t *Tracker) Layers() []model.Layer {
	return t.layers
}

// Width returns the horizontal pixel extent of the chart.
func (t *Tracker) Width() float64 {
	r0, r1 := t.x.Range()
	if r1 < r0 {
		return r0 - r1
	}
	return r1 - r0
}

// Domain returns the time extent covered by the chart.
func (t *Tracker) Domain() (time.Time, time.Time) {
	return t.x.Domain()
}
