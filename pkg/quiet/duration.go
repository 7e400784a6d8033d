package quiet

import (
	"fmt"
	"time"
)

// FormatDuration renders d rounded to the nearest second as "42s" or "3m 7s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Round(time.Second) / time.Second)
	minutes := total / 60
	seconds := total % 60
	if minutes == 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// secondsToDuration converts a host estimate in seconds to a Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
