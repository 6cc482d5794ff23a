package realtime

import (
	"math"
	"time"
)

const (
	// DefaultBaseDelay is the first reconnect delay.
	DefaultBaseDelay = 3 * time.Second
	// DefaultMaxDelay caps the reconnect delay growth.
	DefaultMaxDelay = 30 * time.Second
)

// reconnectDelay returns the wait before reconnect attempt n, growing by a
// factor of 1.5 per attempt and capped at max. Attempt 0 waits base.
func reconnectDelay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}
	delay := time.Duration(float64(base) * math.Pow(1.5, float64(attempt)))
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}
