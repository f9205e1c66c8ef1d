package formatter

import (
	"io"
	"strings"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/util"
)

// Swatch marks a line's layer color in terminal output.
const Swatch = "■"

type TextFormatter struct {
	color bool
}

func NewTextFormatter(color bool) *TextFormatter {
	return &TextFormatter{color: color}
}

// Format writes the date line followed by one line per layer. A hidden state
// writes nothing.
func (f *TextFormatter) Format(w io.Writer, state model.TooltipState) error {
	_, err := io.WriteString(w, f.Render(state))
	return err
}

// Render returns the text Format would write.
func (f *TextFormatter) Render(state model.TooltipState) string {
	if !state.Visible {
		return ""
	}
	var sb strings.Builder
	if state.Date != "" {
		sb.WriteString(state.Date)
		sb.WriteByte('\n')
	}
	for _, line := range state.Lines {
		sb.WriteString(f.Line(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Line renders a single tooltip line. Without color the emphasized line is
// marked with a leading '>'.
func (f *TextFormatter) Line(line model.TooltipLine) string {
	text := lineText(line)
	if !f.color {
		marker := "  "
		if line.Emphasized {
			marker = "> "
		}
		return marker + Swatch + " " + text
	}
	if line.Emphasized {
		text = util.ColorBold + text + util.ColorReset
	}
	return "  " + util.Colorize(Swatch, line.Color) + " " + text
}
