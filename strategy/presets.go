package strategy

import "time"

// Default returns the exponential strategy used when no strategy is supplied:
// 3 attempts, 100ms initial delay doubling up to 5s.
func Default() *Exponential {
	return &Exponential{
		initial:     100 * time.Millisecond,
		multiplier:  2.0,
		maxDelay:    5 * time.Second,
		maxAttempts: 3,
	}
}

// Quick returns a preset suited to component startup and other operations
// expected to recover fast: 10 attempts, 50ms initial delay up to 1s.
func Quick() *Exponential {
	return &Exponential{
		initial:     50 * time.Millisecond,
		multiplier:  2.0,
		maxDelay:    time.Second,
		maxAttempts: 10,
	}
}

// Persistent returns a preset for critical resources worth waiting on:
// 30 attempts, 200ms initial delay up to 10s.
func Persistent() *Exponential {
	return &Exponential{
		initial:     200 * time.Millisecond,
		multiplier:  2.0,
		maxDelay:    10 * time.Second,
		maxAttempts: 30,
	}
}
