package axis

import (
	"math"
	"strconv"

	"github.com/encukou/portingchart/internal/core/scale"
)

// DefaultQuantityTicks is the tick count asked of the quantity scale.
const DefaultQuantityTicks = 10

// ValueTick is a labeled position on the quantity axis.
type ValueTick struct {
	Value float64
	Pos   float64
	Label string
}

// QuantityFormatter returns the label function for the quantity axis: the raw
// number, or the value as a percentage in normalized mode.
func QuantityFormatter(normalize bool) func(float64) string {
	if normalize {
		return func(v float64) string {
			// Rounding drops float noise such as 0.07*100 = 7.000000000000001.
			pct := math.Round(v*100*1e6) / 1e6
			return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
		}
	}
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Quantity returns the labeled ticks of the quantity axis. The same ticks are
// drawn on the left and right side of the chart.
func Quantity(y scale.Linear, count int, normalize bool) []ValueTick {
	format := QuantityFormatter(normalize)
	values := y.Ticks(count)
	ticks := make([]ValueTick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, ValueTick{
			Value: v,
			Pos:   y.Map(v),
			Label: format(v),
		})
	}
	return ticks
}
