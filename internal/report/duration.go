package report

import "fmt"

// FormatHHMMSS renders a millisecond duration as hh:mm:ss: floored to
// whole seconds, two-digit zero-padded fields, hours unbounded (not
// wrapped at 24). Negative input clamps to 00:00:00.
func FormatHHMMSS(ms int64) string {
	totalSeconds := ms / 1000
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
