package scale

import (
	"math"
	"time"

	"github.com/encukou/portingchart/internal/core/model"
)

// Time maps instants onto a pixel range. Internally it is a linear scale over
// Unix milliseconds.
type Time struct {
	lin      Linear
	min, max time.Time
}

// NewTime creates a time scale from [min,max] onto [r0,r1].
func NewTime(min, max time.Time, r0, r1 float64) Time {
	return Time{
		lin: NewLinear(millis(min), millis(max), r0, r1),
		min: min,
		max: max,
	}
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Map returns the x position of t.
func (s Time) Map(t time.Time) float64 {
	return s.lin.Map(millis(t))
}

// Invert returns the instant at pixel px. The result carries the location of the
// domain minimum.
func (s Time) Invert(px float64) time.Time {
	ms := s.lin.Invert(px)
	return time.UnixMilli(int64(math.Round(ms))).In(s.min.Location())
}

// Domain returns the domain bounds.
func (s Time) Domain() (time.Time, time.Time) {
	return s.min, s.max
}

// Range returns the range bounds.
func (s Time) Range() (float64, float64) {
	return s.lin.Range()
}

// ClampRange restricts px to the scale's range.
func (s Time) ClampRange(px float64) float64 {
	return s.lin.ClampRange(px)
}

// TimeExtent returns the earliest and latest timestamps in samples. ok is false
// when samples is empty.
func TimeExtent(samples []model.Sample) (min, max time.Time, ok bool) {
	for i, s := range samples {
		if i == 0 || s.Timestamp.Before(min) {
			min = s.Timestamp
		}
		if i == 0 || s.Timestamp.After(max) {
			max = s.Timestamp
		}
	}
	return min, max, len(samples) > 0
}

// LayerExtent is TimeExtent over stacked layers.
func LayerExtent(layers []model.Layer) (min, max time.Time, ok bool) {
	first := true
	for _, l := range layers {
		for _, s := range l.Samples {
			if first || s.Timestamp.Before(min) {
				min = s.Timestamp
			}
			if first || s.Timestamp.After(max) {
				max = s.Timestamp
			}
			first = false
		}
	}
	return min, max, !first
}
