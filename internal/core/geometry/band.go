// Package geometry builds the filled band outlines of stacked layers.
package geometry

import (
	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/scale"
)

// Band is the outline of one layer in pixel space.
type Band struct {
	Category string
	Fill     string
	// Lower traces the layer's base in timestamp order, Upper its top in
	// reverse timestamp order.
	Lower []Point
	Upper []Point
	Path  Path
}

// Option configures a Builder.
type Option func(*Builder)

// WithTension sets the cardinal spline tension. 1 produces straight segments.
func WithTension(tension float64) Option {
	return func(b *Builder) {
		b.tension = tension
	}
}

// Builder maps stacked layers through the chart scales.
type Builder struct {
	x       scale.Time
	y       scale.Linear
	tension float64
}

// NewBuilder creates a geometry builder.
func NewBuilder(x scale.Time, y scale.Linear, opts ...Option) *Builder {
	b := &Builder{x: x, y: y, tension: DefaultTension}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Band returns the band of a single layer. Fill is left empty.
func (b *Builder) Band(layer model.Layer) Band {
	band := Band{Category: layer.Category}
	n := len(layer.Samples)
	if n == 0 {
		return band
	}

	band.Lower = make([]Point, n)
	band.Upper = make([]Point, n)
	for i, s := range layer.Samples {
		x := b.x.Map(s.Timestamp)
		band.Lower[i] = Point{X: x, Y: b.y.Map(s.Base)}
		band.Upper[n-1-i] = Point{X: x, Y: b.y.Map(s.Top())}
	}

	path := Path{{Op: MoveTo, Points: []Point{band.Lower[0]}}}
	path = appendCardinal(path, band.Lower, b.tension)
	path = append(path, Segment{Op: LineTo, Points: []Point{band.Upper[0]}})
	path = appendCardinal(path, band.Upper, b.tension)
	path = append(path, Segment{Op: Close})
	band.Path = path
	return band
}

// Build returns one band per layer with its fill color. Every layer's color is
// checked before any band is built.
func (b *Builder) Build(layers []model.Layer, colors scale.Color) ([]Band, error) {
	if err := colors.Validate(layers); err != nil {
		return nil, err
	}
	bands := make([]Band, 0, len(layers))
	for _, layer := range layers {
		band := b.Band(layer)
		band.Fill, _ = colors.Lookup(layer.Category)
		bands = append(bands, band)
	}
	return bands, nil
}
