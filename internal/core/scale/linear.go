package scale

import (
	"math"
)

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from [d0,d1] onto [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Quantity builds the vertical scale of a stacked chart. In normalized mode the
// domain is fixed to [0,1]; otherwise it is [0,maxTop]. The range is inverted so
// that larger values plot higher.
func Quantity(maxTop float64, normalize bool, height float64) Linear {
	if normalize {
		maxTop = 1
	}
	return NewLinear(0, maxTop, height, 0)
}

func (s Linear) degenerate() bool {
	return s.d0 == s.d1
}

// Map returns the range value for v. A degenerate domain maps everything to the
// start of the range.
func (s Linear) Map(v float64) float64 {
	if s.degenerate() {
		return s.r0
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Invert returns the domain value for a range value.
func (s Linear) Invert(px float64) float64 {
	if s.degenerate() || s.r0 == s.r1 {
		return s.d0
	}
	t := (px - s.r0) / (s.r1 - s.r0)
	return s.d0 + t*(s.d1-s.d0)
}

// Domain returns the domain bounds.
func (s Linear) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range returns the range bounds.
func (s Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

// ClampRange restricts px to the scale's range.
func (s Linear) ClampRange(px float64) float64 {
	lo, hi := s.r0, s.r1
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, px))
}

// Ticks returns roughly count evenly spaced round values inside the domain,
// using steps of 1, 2 or 5 times a power of ten.
func (s Linear) Ticks(count int) []float64 {
	lo, hi := s.d0, s.d1
	if lo > hi {
		lo, hi = hi, lo
	}
	if count <= 0 || lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
		if lo == hi && !math.IsNaN(lo) {
			return []float64{lo}
		}
		return nil
	}
	step := tickStep(lo, hi, count)
	start := math.Ceil(lo/step) * step
	stop := math.Floor(hi/step)*step + step*0.5

	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		ticks = append(ticks, round(v, step))
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	span := hi - lo
	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	ratio := float64(count) / span * step
	switch {
	case ratio <= 0.15:
		step *= 10
	case ratio <= 0.35:
		step *= 5
	case ratio <= 0.75:
		step *= 2
	}
	return step
}

func round(v, step float64) float64 {
	digits := math.Max(0, -math.Floor(math.Log10(step)))
	p := math.Pow(10, digits)
	return math.Round(v*p) / p
}
