package model

import "time"

// Sample is one input record: the count observed for a category at a point in time.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Value     float64   `json:"value"`
}

// StackedSample is a Sample placed on the stack. Base is the cumulative height of
// every layer below it at the same sample index.
type StackedSample struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Value     float64   `json:"value"`
	Base      float64   `json:"base"`
	Height    float64   `json:"height"`
}

// Top returns the upper edge of the sample's band.
func (s StackedSample) Top() float64 {
	return s.Base + s.Height
}

// Layer holds one category's stacked samples in timestamp order.
type Layer struct {
	Category string          `json:"category"`
	Samples  []StackedSample `json:"samples"`
}

// Len returns the number of samples in the layer.
func (l Layer) Len() int {
	return len(l.Samples)
}

// Categories returns the category labels of layers in order.
func Categories(layers []Layer) []string {
	out := make([]string, 0, len(layers))
	for _, l := range layers {
		out = append(out, l.Category)
	}
	return out
}
