// Package formatter renders tooltip states for the terminal, JSON consumers and
// HTML pages.
package formatter

import (
	"fmt"
	"io"

	"github.com/encukou/portingchart/internal/core/model"
)

// Formatter writes one tooltip state.
type Formatter interface {
	Format(w io.Writer, state model.TooltipState) error
}

// Supported format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// New returns the formatter for name. color only affects the text format.
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "", FormatText:
		return NewTextFormatter(color), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatHTML:
		return NewHTMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use text, json or html)", name)
	}
}

// lineText is the label of a tooltip line, with its value when present.
func lineText(line model.TooltipLine) string {
	if !line.HasValue {
		return line.Category
	}
	return line.Category + ": " + line.FormattedValue
}
