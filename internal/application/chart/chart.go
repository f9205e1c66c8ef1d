// Package chart runs the rendering pipeline: samples in, stacked layers,
// scales, bands and axes out.
package chart

import (
	"io"
	"time"

	"github.com/encukou/portingchart/internal/config"
	"github.com/encukou/portingchart/internal/core/axis"
	"github.com/encukou/portingchart/internal/core/geometry"
	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/scale"
	"github.com/encukou/portingchart/internal/core/stack"
	"github.com/encukou/portingchart/internal/core/tracker"
	"github.com/encukou/portingchart/internal/presentation/svg"
)

// Chart is one fully computed chart. It is immutable once built.
type Chart struct {
	Layers []model.Layer
	X      scale.Time
	Y      scale.Linear
	Colors scale.Color
	Bands  []geometry.Band
	Time   axis.TimeTicks
	Values []axis.ValueTick

	layout  config.Layout
	tracker *tracker.Tracker
}

// View selects what is drawn over the bands. A nil Cursor draws the legend.
type View struct {
	Cursor  *float64
	Hovered string
}

// Build computes the chart of samples. Every category must have a color;
// ErrUnknownCategory is returned before any band is built otherwise. An empty
// sample set gives an empty chart.
func Build(samples []model.Sample, settings config.Config, loc *time.Location) (*Chart, error) {
	if loc == nil {
		loc = time.Local
	}
	l := settings.Layout

	engine := stack.New(model.CategoryOrder(settings.CategoryOrder), stack.WithNormalize(settings.Normalize))
	layers := engine.Stack(samples)

	min, max, _ := scale.LayerExtent(layers)
	x := scale.NewTime(min, max, 0, float64(l.Width))
	y := scale.Quantity(stack.MaxTop(layers), settings.Normalize, l.PlotBottom())
	colors := scale.NewColor(settings.ColorMapping)

	bands, err := geometry.NewBuilder(x, y, geometry.WithTension(settings.Tension)).Build(layers, colors)
	if err != nil {
		return nil, err
	}

	return &Chart{
		Layers: layers,
		X:      x,
		Y:      y,
		Colors: colors,
		Bands:  bands,
		Time:   axis.Time(x, loc),
		Values: axis.Quantity(y, axis.DefaultQuantityTicks, settings.Normalize),
		layout: l,
		tracker: tracker.New(layers, x, y, colors,
			tracker.WithUnit(settings.Unit),
			tracker.WithLocation(loc)),
	}, nil
}

// Tracker answers cursor queries against the chart.
func (c *Chart) Tracker() *tracker.Tracker {
	return c.tracker
}

// Tooltip returns the tooltip for a cursor at plot x px.
func (c *Chart) Tooltip(px float64, hovered string) model.TooltipState {
	return c.tracker.HandleMove(px, hovered)
}

// Document assembles the drawable document for view.
func (c *Chart) Document(view View) svg.Document {
	doc := svg.Document{
		Layout: c.layout,
		Style:  svg.DefaultStyle(),
		Bands:  c.Bands,
		Time:   c.Time,
		Values: c.Values,
		Panel:  c.tracker.Legend(),
	}
	if view.Cursor != nil {
		px := c.X.ClampRange(*view.Cursor)
		doc.Panel = c.tracker.HandleMove(px, view.Hovered)
		doc.Guide = &px
	}
	return doc
}

// WriteSVG renders the chart for view to w.
func (c *Chart) WriteSVG(w io.Writer, view View) error {
	return svg.Write(w, c.Document(view))
}
