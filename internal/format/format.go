// Package format renders game numbers for humans. Formatting is pure; the
// cache exists because the UI asks for the same handful of values every frame.
package format

import (
	"fmt"
	"math"
	"time"
)

var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi"}

// Amount abbreviates a cred/notoriety quantity: 950 -> "950", 1234 -> "1.23K",
// 5.6e9 -> "5.60B". Values beyond the suffix table fall back to scientific
// notation.
func Amount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "?"
	}
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	if v < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%s%.0f", neg, v)
		}
		return fmt.Sprintf("%s%.1f", neg, v)
	}
	mag := int(math.Floor(math.Log10(v) / 3))
	if mag >= len(suffixes) {
		return fmt.Sprintf("%s%.2e", neg, v)
	}
	scaled := v / math.Pow(1000, float64(mag))
	return fmt.Sprintf("%s%.2f%s", neg, scaled, suffixes[mag])
}

// Duration renders a play-time duration as "1h 23m" / "45m 10s" / "12s".
func Duration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
