package util

import (
	"fmt"
	"strconv"
	"time"
)

// FormatNumber abbreviates large counts: 999, 1.5K, 2.5M.
func FormatNumber(n float64) string {
	switch {
	case n < 1000:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", n/1000)
	default:
		return fmt.Sprintf("%.1fM", n/1000000)
	}
}

// FormatShare renders a 0..1 share as a percentage with one decimal.
func FormatShare(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// FormatDuration renders render and load timings for logs.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
