package status

import (
	"fmt"
	"time"
)

// FormatDuration renders an elapsed duration as a short human string:
// "45s", "5m 12s", "2h 3m 10s". Sub-second durations render as "less
// than a second"; negative input yields an empty string.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return ""
	}

	if d < time.Second {
		return "less than a second"
	}

	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
