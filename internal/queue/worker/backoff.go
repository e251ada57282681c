package worker

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff returns how long to wait before the next dequeue after
// a run of consecutive failures. The queue is a courtesy pipeline, so the
// curve starts low and caps quickly; a dead Redis should not turn the
// notifier into a log firehose.
// attempt=0 => 500ms, attempt=1 => 1s, attempt=2 => 2s ... capped at 30s.
func ExponentialBackoff(attempt int) time.Duration {
	base := 500 * time.Millisecond
	capDelay := 30 * time.Second

	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))

	if delay > capDelay {
		delay = capDelay
	}

	// small jitter (0–250ms) to avoid thundering herd
	delay += time.Duration(rand.Intn(250)) * time.Millisecond

	return delay
}
