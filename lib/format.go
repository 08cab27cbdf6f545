package lib

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as H:MM:SS with a microsecond fraction when
// one is present, e.g. "0:01:05.250000".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Microseconds()
	micros := total % 1_000_000
	seconds := total / 1_000_000
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if micros == 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d:%02d.%06d", hours, minutes, secs, micros)
}
