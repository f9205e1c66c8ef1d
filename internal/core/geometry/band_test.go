package geometry

import (
	"testing"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/core/scale"
	"github.com/encukou/portingchart/internal/core/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2015, 10, d, 0, 0, 0, 0, time.UTC)
}

func scenarioLayers(t *testing.T) []model.Layer {
	t.Helper()
	samples := []model.Sample{
		{Timestamp: day(10), Category: "done", Value: 5},
		{Timestamp: day(11), Category: "done", Value: 7},
		{Timestamp: day(12), Category: "done", Value: 6},
		{Timestamp: day(10), Category: "todo", Value: 3},
		{Timestamp: day(11), Category: "todo", Value: 2},
		{Timestamp: day(12), Category: "todo", Value: 3},
	}
	return stack.New(model.CategoryOrder{"done", "todo"}).Stack(samples)
}

func newBuilder(opts ...Option) *Builder {
	x := scale.NewTime(day(10), day(12), 0, 600)
	y := scale.NewLinear(0, 9, 540, 0)
	return NewBuilder(x, y, opts...)
}

func TestBandBoundaries(t *testing.T) {
	layers := scenarioLayers(t)
	band := newBuilder().Band(layers[1])

	assert.Equal(t, "todo", band.Category)
	require.Len(t, band.Lower, 3)
	require.Len(t, band.Upper, 3)

	// Lower boundary follows the base left to right.
	assert.Equal(t, Point{X: 0, Y: 240}, band.Lower[0])
	assert.Equal(t, Point{X: 300, Y: 120}, band.Lower[1])
	assert.Equal(t, Point{X: 600, Y: 180}, band.Lower[2])

	// Upper boundary follows the top right to left.
	assert.Equal(t, Point{X: 600, Y: 0}, band.Upper[0])
	assert.Equal(t, Point{X: 300, Y: 0}, band.Upper[1])
	assert.Equal(t, Point{X: 0, Y: 60}, band.Upper[2])

	require.NotEmpty(t, band.Path)
	assert.Equal(t, MoveTo, band.Path[0].Op)
	assert.Equal(t, Close, band.Path[len(band.Path)-1].Op)
}

func TestBandCurveInterpolatesSamples(t *testing.T) {
	band := newBuilder().Band(scenarioLayers(t)[0])

	var ends []Point
	for _, seg := range band.Path {
		switch seg.Op {
		case CurveTo:
			require.Len(t, seg.Points, 3)
			ends = append(ends, seg.Points[2])
		case LineTo, MoveTo:
			ends = append(ends, seg.Points[0])
		}
	}
	expected := append(append([]Point{}, band.Lower...), band.Upper...)
	assert.Equal(t, expected, ends)
}

func TestBandTensionOneIsStraight(t *testing.T) {
	band := newBuilder(WithTension(1)).Band(scenarioLayers(t)[0])

	var prev Point
	curves := 0
	for _, seg := range band.Path {
		switch seg.Op {
		case MoveTo, LineTo:
			prev = seg.Points[0]
		case CurveTo:
			// Zero tangents put the control points on the end points.
			assert.Equal(t, prev, seg.Points[0])
			assert.Equal(t, seg.Points[1], seg.Points[2])
			prev = seg.Points[2]
			curves++
		}
	}
	assert.Equal(t, 4, curves)
}

func TestBandDegenerate(t *testing.T) {
	b := newBuilder()

	empty := b.Band(model.Layer{Category: "none"})
	assert.True(t, empty.Path.Empty())
	assert.Equal(t, "", empty.Path.String())

	single := b.Band(model.Layer{
		Category: "one",
		Samples: []model.StackedSample{
			{Timestamp: day(11), Category: "one", Value: 3, Base: 0, Height: 3},
		},
	})
	assert.Equal(t, "M300,540L300,360Z", single.Path.String())
}

func TestBandTwoSamplesUseLines(t *testing.T) {
	layer := model.Layer{
		Category: "pair",
		Samples: []model.StackedSample{
			{Timestamp: day(10), Base: 0, Height: 9},
			{Timestamp: day(12), Base: 0, Height: 9},
		},
	}

	band := newBuilder().Band(layer)

	assert.Equal(t, "M0,540L600,540L600,0L0,0Z", band.Path.String())
}

func TestBuildChecksColorsFirst(t *testing.T) {
	layers := scenarioLayers(t)
	b := newBuilder()

	bands, err := b.Build(layers, scale.NewColor(map[string]string{"done": "#3c763d"}))
	assert.ErrorIs(t, err, model.ErrUnknownCategory)
	assert.Nil(t, bands)

	bands, err = b.Build(layers, scale.NewColor(map[string]string{"done": "#3c763d", "todo": "#a94442"}))
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.Equal(t, "#3c763d", bands[0].Fill)
	assert.Equal(t, "#a94442", bands[1].Fill)
}

func TestPathString(t *testing.T) {
	p := Path{
		{Op: MoveTo, Points: []Point{{X: 0.5, Y: -0.001}}},
		{Op: CurveTo, Points: []Point{{X: 1, Y: 2}, {X: 3.25, Y: 4}, {X: 5, Y: 6.126}}},
		{Op: Close},
	}

	assert.Equal(t, "M0.5,0C1,2 3.25,4 5,6.13Z", p.String())
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{-0.001, "0"},
		{500, "500"},
		{12.5, "12.5"},
		{1.0 / 3.0, "0.33"},
		{-7.126, "-7.13"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCoord(tt.input))
		})
	}
}
