package domain

import (
	"fmt"
	"time"
)

// FormatElapsed renders a duration as MM:SS.mmm for progress feedback.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
