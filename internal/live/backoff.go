// ABOUTME: Reconnect backoff as a pure function of the attempt count
// ABOUTME: Exponential growth from a floor delay, capped at a ceiling

package live

import (
	"math"
	"time"
)

// Reconnect timing. The floor resets only after a successful open.
const (
	ReconnectFloor   = time.Second
	ReconnectGrowth  = 1.6
	ReconnectCeiling = 10 * time.Second
)

// Delay returns the wait before reconnect attempt n (0-based):
// min(floor * growth^n, ceiling).
func Delay(attempt int) time.Duration {
	return delayIn(attempt, ReconnectFloor, ReconnectGrowth, ReconnectCeiling)
}

func delayIn(attempt int, floor time.Duration, growth float64, ceiling time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(floor) * math.Pow(growth, float64(attempt))
	if d > float64(ceiling) {
		return ceiling
	}
	return time.Duration(d)
}
