package attendance

import (
	"fmt"
	"math"
	"strings"
)

// FormatHours renders fractional hours in a human-friendly form.
// Examples: 1.5 → "1h 30m", 0.25 → "15m", 0 → "0m".
func FormatHours(h float64) string {
	m := int(math.Round(h * 60))
	if m <= 0 {
		return "0m"
	}

	hours := m / 60
	mins := m % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 || hours == 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}

	return strings.Join(parts, " ")
}
