// Package stack turns per-category samples into stacked layers.
//
// Stacking is positional: the base of the i-th sample of a layer is the sum of
// the heights of the i-th samples of all layers below it. Categories with
// different timestamp sets are therefore aligned by index, not by time.
package stack

import (
	"sort"

	"github.com/encukou/portingchart/internal/core/model"
)

// ValueFunc extracts the stacked quantity from a sample.
type ValueFunc func(model.Sample) float64

// Option configures an Engine.
type Option func(*Engine)

// WithValue replaces the default value accessor.
func WithValue(fn ValueFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.value = fn
		}
	}
}

// WithNormalize switches the engine to normalized (expand) mode, where the
// heights at each sample index sum to 1.
func WithNormalize(normalize bool) Option {
	return func(e *Engine) {
		e.normalize = normalize
	}
}

// Engine computes stacked layers. It holds no state between calls.
type Engine struct {
	order     model.CategoryOrder
	value     ValueFunc
	normalize bool
}

// New creates a stacking engine for the given category order.
func New(order model.CategoryOrder, opts ...Option) *Engine {
	e := &Engine{
		order: order,
		value: func(s model.Sample) float64 { return s.Value },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalized reports whether the engine runs in normalized mode.
func (e *Engine) Normalized() bool {
	return e.normalize
}

type group struct {
	category   string
	firstIndex int
	samples    []model.Sample
}

// partition splits samples by category and sorts every group by timestamp. Samples
// sharing a timestamp are kept in input order. Groups come back in stack order.
func (e *Engine) partition(samples []model.Sample) []group {
	byCategory := make(map[string]*group)
	var groups []*group
	for i, s := range samples {
		g, ok := byCategory[s.Category]
		if !ok {
			g = &group{category: s.Category, firstIndex: i}
			byCategory[s.Category] = g
			groups = append(groups, g)
		}
		g.samples = append(g.samples, s)
	}

	for _, g := range groups {
		sort.SliceStable(g.samples, func(i, j int) bool {
			return g.samples[i].Timestamp.Before(g.samples[j].Timestamp)
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return e.less(groups[i], groups[j])
	})

	out := make([]group, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

// less orders listed categories by their position and unlisted ones after all
// listed ones, by first appearance.
func (e *Engine) less(a, b *group) bool {
	ia, ib := e.order.Index(a.category), e.order.Index(b.category)
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	default:
		return a.firstIndex < b.firstIndex
	}
}

// Stack groups, orders and stacks samples into layers.
func (e *Engine) Stack(samples []model.Sample) []model.Layer {
	groups := e.partition(samples)

	width := 0
	for _, g := range groups {
		width = max(width, len(g.samples))
	}

	heights := make([][]float64, len(groups))
	totals := make([]float64, width)
	for gi, g := range groups {
		heights[gi] = make([]float64, len(g.samples))
		for i, s := range g.samples {
			h := e.value(s)
			heights[gi][i] = h
			totals[i] += h
		}
	}

	if e.normalize {
		for gi := range heights {
			for i, h := range heights[gi] {
				if totals[i] == 0 {
					heights[gi][i] = 0
					continue
				}
				heights[gi][i] = h / totals[i]
			}
		}
	}

	running := make([]float64, width)
	layers := make([]model.Layer, 0, len(groups))
	for gi, g := range groups {
		layer := model.Layer{
			Category: g.category,
			Samples:  make([]model.StackedSample, len(g.samples)),
		}
		for i, s := range g.samples {
			h := heights[gi][i]
			layer.Samples[i] = model.StackedSample{
				Timestamp: s.Timestamp,
				Category:  s.Category,
				Value:     s.Value,
				Base:      running[i],
				Height:    h,
			}
			running[i] += h
		}
		layers = append(layers, layer)
	}
	return layers
}

// MaxTop returns the largest top edge across every stacked sample, or 0 when
// there are none.
func MaxTop(layers []model.Layer) float64 {
	var top float64
	for _, l := range layers {
		for _, s := range l.Samples {
			top = max(top, s.Top())
		}
	}
	return top
}
