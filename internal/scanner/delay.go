package scanner

import (
	"context"
	"time"
)

// IntN returns a uniformly distributed value in [0, n). It matches
// math/rand/v2's IntN so the default source drops straight in, while
// tests inject a deterministic one to pin the settle delay.
type IntN func(n int) int

// SleepFunc blocks for the given duration or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SettleDelay draws the randomized pre-capture delay.
// The result is uniform over whole seconds in [min, max], inclusive of
// both bounds, matching the configured sleep range semantics.
func SettleDelay(min, max time.Duration, intn IntN) time.Duration {
	if max <= min {
		return min
	}
	steps := int((max-min)/time.Second) + 1
	return min + time.Duration(intn(steps))*time.Second
}

// sleepContext is the default SleepFunc: a timer that aborts on
// cancellation so an interrupt never has to wait out a long settle delay.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
