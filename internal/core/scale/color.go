package scale

import (
	"github.com/encukou/portingchart/internal/core/model"
)

// Color is the category to color mapping injected by the caller. It is a partial
// mapping: looking up a category that is not present is an error.
type Color struct {
	colors map[string]string
}

// NewColor copies mapping into a new color scale.
func NewColor(mapping map[string]string) Color {
	colors := make(map[string]string, len(mapping))
	for k, v := range mapping {
		colors[k] = v
	}
	return Color{colors: colors}
}

// Lookup returns the color of category or an error wrapping model.ErrUnknownCategory.
func (c Color) Lookup(category string) (string, error) {
	color, ok := c.colors[category]
	if !ok {
		return "", model.UnknownCategoryError(category)
	}
	return color, nil
}

// Validate checks that every layer has a color.
func (c Color) Validate(layers []model.Layer) error {
	for _, l := range layers {
		if _, err := c.Lookup(l.Category); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of mapped categories.
func (c Color) Len() int {
	return len(c.colors)
}
