// Package axis chooses tick marks and labels for the chart axes.
package axis

import (
	"time"

	"github.com/encukou/portingchart/internal/core/scale"
)

// MonthLabelMaxYearSpan is the year span from which month labels are dropped.
const MonthLabelMaxYearSpan = 2

// Tick is a labeled position on the time axis.
type Tick struct {
	Time  time.Time
	Pos   float64
	Label string
}

// TimeTicks holds the two tick rows of the time axis.
type TimeTicks struct {
	Years      []Tick
	Months     []Tick
	ShowMonths bool
}

// ShowMonthLabels reports whether month names fit on an axis spanning
// [min,max]: the calendar year difference must be below MonthLabelMaxYearSpan.
func ShowMonthLabels(min, max time.Time) bool {
	return max.Year()-min.Year() < MonthLabelMaxYearSpan
}

// MonthLabel returns the label of the month tick at t. January is always
// blank since the year tick already marks it.
func MonthLabel(t time.Time, showMonths bool) string {
	if !showMonths || t.Month() == time.January {
		return ""
	}
	return t.Format("Jan")
}

// Time computes year and month ticks for the domain of x, with calendar
// boundaries taken in loc.
func Time(x scale.Time, loc *time.Location) TimeTicks {
	if loc == nil {
		loc = time.Local
	}
	min, max := x.Domain()
	if min.IsZero() && max.IsZero() {
		return TimeTicks{}
	}
	min, max = min.In(loc), max.In(loc)
	show := ShowMonthLabels(min, max)

	ticks := TimeTicks{ShowMonths: show}
	for t := firstYear(min); !t.After(max); t = t.AddDate(1, 0, 0) {
		ticks.Years = append(ticks.Years, Tick{
			Time:  t,
			Pos:   x.Map(t),
			Label: t.Format("2006"),
		})
	}
	for t := firstMonth(min); !t.After(max); t = t.AddDate(0, 1, 0) {
		ticks.Months = append(ticks.Months, Tick{
			Time:  t,
			Pos:   x.Map(t),
			Label: MonthLabel(t, show),
		})
	}
	return ticks
}

func firstYear(t time.Time) time.Time {
	y := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	if y.Before(t) {
		y = y.AddDate(1, 0, 0)
	}
	return y
}

func firstMonth(t time.Time) time.Time {
	m := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	if m.Before(t) {
		m = m.AddDate(0, 1, 0)
	}
	return m
}
