package formatter

import (
	"html"
	"io"
	"strings"

	"github.com/encukou/portingchart/internal/core/model"
)

// HTMLFormatter produces the tooltip markup of the status web page: a paragraph
// of <br>-separated lines, each led by a colored minibadge.
type HTMLFormatter struct{}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

func (f *HTMLFormatter) Format(w io.Writer, state model.TooltipState) error {
	_, err := io.WriteString(w, f.Render(state))
	return err
}

// Render returns the markup, or "" for a hidden state. A state without a date
// is the legend and gets a blank first line instead.
func (f *HTMLFormatter) Render(state model.TooltipState) string {
	if !state.Visible {
		return ""
	}
	lines := make([]string, 0, len(state.Lines)+1)
	if state.Date != "" {
		lines = append(lines, html.EscapeString(state.Date))
	} else {
		lines = append(lines, "&nbsp;")
	}
	for _, line := range state.Lines {
		text := html.EscapeString(lineText(line))
		if line.Emphasized {
			text = "<b>" + text + "</b>"
		}
		lines = append(lines, minibadge(line.Color)+text)
	}
	return "<p>" + strings.Join(lines, "<br>") + "</p>"
}

func minibadge(color string) string {
	return "<span style='background-color:" + html.EscapeString(color) + " !important;' class='minibadge'></span>&nbsp;"
}
