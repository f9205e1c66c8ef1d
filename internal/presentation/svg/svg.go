// Package svg writes a stacked area chart as a standalone SVG document.
package svg

import (
	"bufio"
	"io"
	"strings"

	"github.com/midbel/svg"

	"github.com/encukou/portingchart/internal/config"
	"github.com/encukou/portingchart/internal/core/axis"
	"github.com/encukou/portingchart/internal/core/geometry"
	"github.com/encukou/portingchart/internal/core/model"
)

const (
	// YearTickSize and MonthTickSize are the tick lengths of the two x axis rows.
	YearTickSize  = 20
	MonthTickSize = 5
	// ValueTickSize is the tick length of the quantity axes.
	ValueTickSize = 6
	// GuideOffset shifts the cursor guide right of the pointer.
	GuideOffset = 5

	// LayerIDPrefix prefixes the category name in each layer path id.
	LayerIDPrefix = "layer-"

	labelGap       = 3
	panelRowHeight = 16
	panelPadding   = 6
	swatchSize     = 10
)

// Style holds presentation attributes that are not part of the layout.
type Style struct {
	FontSize   float64
	Background string
	AxisColor  string
	PanelColor string
	GuideColor string
}

// DefaultStyle returns the chart look.
func DefaultStyle() Style {
	return Style{
		FontSize:   10,
		Background: "#ffffff",
		AxisColor:  "#000000",
		PanelColor: "#ffffff",
		GuideColor: "#ffffff",
	}
}

// Document is everything needed to draw one chart.
type Document struct {
	Layout config.Layout
	Style  Style
	Bands  []geometry.Band
	Time   axis.TimeTicks
	Values []axis.ValueTick
	// Panel is the legend or tooltip drawn over the top left of the plot.
	Panel model.TooltipState
	// Guide is the cursor x position in plot coordinates, nil for no guide.
	Guide *float64
}

// Render returns the SVG markup of doc.
func Render(doc Document) string {
	var sb strings.Builder
	// strings.Builder never fails a write.
	_ = Write(&sb, doc)
	return sb.String()
}

// Write renders doc to w.
func Write(w io.Writer, doc Document) error {
	var (
		l  = doc.Layout
		st = doc.Style
	)
	if st.FontSize == 0 {
		st = DefaultStyle()
	}
	width, height := float64(l.TotalWidth()), float64(l.TotalHeight())

	area := svg.NewSVG(svg.WithDimension(width, height))
	bg := svg.NewRect(svg.WithDimension(width, height), svg.WithFill(svg.NewFill(st.Background)))
	area.Append(bg.AsElement())

	plot := svg.NewGroup(svg.WithTranslate(float64(l.MarginLeft), float64(l.MarginTop)))
	plot.Append(drawBands(doc.Bands))
	for _, row := range drawTimeAxis(doc.Time, l, st) {
		plot.Append(row)
	}
	plot.Append(drawValueAxis(doc.Values, 0, -1, "left", st))
	plot.Append(drawValueAxis(doc.Values, float64(l.Width), 1, "right", st))
	if doc.Guide != nil {
		plot.Append(drawGuide(*doc.Guide, l, st))
	}
	if panel, ok := drawPanel(doc.Panel, st); ok {
		plot.Append(panel)
	}
	area.Append(plot.AsElement())

	bw := bufio.NewWriter(w)
	area.Render(bw)
	return bw.Flush()
}

func drawBands(bands []geometry.Band) svg.Element {
	g := svg.NewGroup(svg.WithClass("layers"))
	for _, b := range bands {
		if b.Path.Empty() {
			continue
		}
		pat := svg.NewPath(
			svg.WithID(LayerIDPrefix+b.Category),
			svg.WithClass("layer"),
			svg.WithFill(svg.NewFill(b.Fill)),
		)
		for _, seg := range b.Path {
			switch seg.Op {
			case geometry.MoveTo:
				pat.AbsMoveTo(pos(seg.Points[0]))
			case geometry.LineTo:
				pat.AbsLineTo(pos(seg.Points[0]))
			case geometry.CurveTo:
				pat.AbsCubicCurve(pos(seg.Points[2]), pos(seg.Points[0]), pos(seg.Points[1]))
			case geometry.Close:
				pat.ClosePath()
			}
		}
		g.Append(pat.AsElement())
	}
	return g.AsElement()
}

func pos(p geometry.Point) svg.Pos {
	return svg.NewPos(p.X, p.Y)
}

// drawTimeAxis returns the year row, with the domain line, and the month row.
func drawTimeAxis(ticks axis.TimeTicks, l config.Layout, st Style) []svg.Element {
	var (
		y      = float64(l.Height)
		stroke = svg.NewStroke(st.AxisColor, 1)
		font   = svg.NewFont(st.FontSize)
	)

	years := svg.NewGroup(svg.WithClass("axis x years"), svg.WithTranslate(0, y))
	for _, t := range ticks.Years {
		years.Append(writeTick(t.Pos, YearTickSize, t.Label, stroke, font))
	}
	domain := svg.NewLine(svg.NewPos(0, 0), svg.NewPos(float64(l.Width), 0))
	domain.Stroke = stroke
	years.Append(domain.AsElement())

	months := svg.NewGroup(svg.WithClass("axis x months"), svg.WithTranslate(0, y))
	for _, t := range ticks.Months {
		months.Append(writeTick(t.Pos, MonthTickSize, t.Label, stroke, font))
	}
	return []svg.Element{years.AsElement(), months.AsElement()}
}

func writeTick(x float64, size int, label string, stroke svg.Stroke, font svg.Font) svg.Element {
	grp := svg.NewGroup(svg.WithClass("tick"), svg.WithTranslate(x, 0))
	tick := svg.NewLine(svg.NewPos(0, 0), svg.NewPos(0, float64(size)))
	tick.Stroke = stroke
	grp.Append(tick.AsElement())
	if label != "" {
		text := svg.NewText(label)
		text.Pos = svg.NewPos(0, float64(size+labelGap))
		text.Font = font
		text.Anchor = "middle"
		text.Baseline = "hanging"
		grp.Append(text.AsElement())
	}
	return grp.AsElement()
}

// drawValueAxis draws a vertical axis at x with ticks pointing in dir.
func drawValueAxis(ticks []axis.ValueTick, x float64, dir int, side string, st Style) svg.Element {
	var (
		stroke = svg.NewStroke(st.AxisColor, 1)
		font   = svg.NewFont(st.FontSize)
		anchor = "end"
	)
	if dir > 0 {
		anchor = "start"
	}

	g := svg.NewGroup(svg.WithClass("axis y "+side), svg.WithTranslate(x, 0))
	for _, t := range ticks {
		grp := svg.NewGroup(svg.WithClass("tick"), svg.WithTranslate(0, t.Pos))
		tick := svg.NewLine(svg.NewPos(0, 0), svg.NewPos(float64(dir*ValueTickSize), 0))
		tick.Stroke = stroke
		text := svg.NewText(t.Label)
		text.Pos = svg.NewPos(float64(dir*(ValueTickSize+labelGap)), 0)
		text.Font = font
		text.Anchor = anchor
		text.Baseline = "middle"
		grp.Append(tick.AsElement())
		grp.Append(text.AsElement())
		g.Append(grp.AsElement())
	}
	if len(ticks) > 0 {
		first, last := ticks[0].Pos, ticks[len(ticks)-1].Pos
		domain := svg.NewLine(svg.NewPos(0, first), svg.NewPos(0, last))
		domain.Stroke = stroke
		g.Append(domain.AsElement())
	}
	return g.AsElement()
}

func drawGuide(cursor float64, l config.Layout, st Style) svg.Element {
	g := svg.NewGroup(svg.WithClass("guide"), svg.WithTranslate(cursor+GuideOffset, 0))
	line := svg.NewLine(svg.NewPos(0, 0), svg.NewPos(0, float64(l.Height+l.BottomInset)))
	line.Stroke = svg.NewStroke(st.GuideColor, 1)
	g.Append(line.AsElement())
	return g.AsElement()
}

func drawPanel(panel model.TooltipState, st Style) (svg.Element, bool) {
	if !panel.Visible {
		return nil, false
	}
	rows := len(panel.Lines)
	if panel.Date != "" {
		rows++
	}
	if rows == 0 {
		return nil, false
	}

	g := svg.NewGroup(svg.WithClass("panel"), svg.WithTranslate(panelPadding, panelPadding))
	bg := svg.NewRect(
		svg.WithClass("panel-bg"),
		svg.WithDimension(float64(panelWidth(panel)), float64(rows*panelRowHeight+panelPadding)),
		svg.WithFill(svg.NewFill(st.PanelColor)),
	)
	g.Append(bg.AsElement())

	row := 0
	if panel.Date != "" {
		g.Append(panelRow(row, "date", panel.Date, svg.NewFont(st.FontSize+2)))
		row++
	}
	for _, line := range panel.Lines {
		class := "row"
		font := svg.NewFont(st.FontSize + 2)
		if line.Emphasized {
			class = "row emphasized"
			font.Weight = "bold"
		}
		grp := svg.NewGroup(svg.WithClass(class), svg.WithTranslate(0, float64(baseline(row))))
		swatch := svg.NewRect(
			svg.WithClass("swatch"),
			svg.WithPosition(panelPadding, -swatchSize),
			svg.WithDimension(swatchSize, swatchSize),
			svg.WithFill(svg.NewFill(line.Color)),
		)
		text := svg.NewText(panelText(line))
		text.Pos = svg.NewPos(panelPadding*2+swatchSize, 0)
		text.Font = font
		grp.Append(swatch.AsElement())
		grp.Append(text.AsElement())
		g.Append(grp.AsElement())
		row++
	}
	return g.AsElement(), true
}

func panelRow(row int, class, str string, font svg.Font) svg.Element {
	grp := svg.NewGroup(svg.WithClass(class), svg.WithTranslate(0, float64(baseline(row))))
	text := svg.NewText(str)
	text.Pos = svg.NewPos(panelPadding, 0)
	text.Font = font
	grp.Append(text.AsElement())
	return grp.AsElement()
}

func baseline(row int) int {
	return (row+1)*panelRowHeight + panelPadding/2
}

func panelText(line model.TooltipLine) string {
	if !line.HasValue {
		return line.Category
	}
	return line.Category + ": " + line.FormattedValue
}

// panelWidth estimates the box width from the longest row.
func panelWidth(panel model.TooltipState) int {
	longest := len([]rune(panel.Date))
	for _, line := range panel.Lines {
		if n := len([]rune(panelText(line))); n > longest {
			longest = n
		}
	}
	return panelPadding*3 + swatchSize + longest*7
}
