package matrix

import "time"

// Velocity maps the travel time between the half-press and full-press
// contacts onto a MIDI velocity. The map is linear in elapsed time:
// floor or faster gives 127, ceiling or slower gives 1. Integer math
// keeps the curve exact and allocation free.
func Velocity(elapsed, floor, ceiling time.Duration) uint8 {
	if elapsed <= floor {
		return 127
	}
	if elapsed >= ceiling {
		return 1
	}
	return uint8(127 - int64(elapsed-floor)*126/int64(ceiling-floor))
}
