package strategy

import "time"

// Infinite waits a constant delay between attempts and never stops the run.
// Use only with operations whose context carries a deadline or cancellation,
// otherwise the driver can loop forever.
type Infinite struct {
	delay time.Duration
}

// NewInfinite builds an Infinite strategy. delay must be non-negative.
func NewInfinite(delay time.Duration) (*Infinite, error) {
	if delay < 0 {
		return nil, &ConfigError{Field: "delay", Value: delay.String()}
	}
	return &Infinite{delay: delay}, nil
}

// Decide implements Strategy.
func (i *Infinite) Decide(int, error) (time.Duration, bool) {
	return i.delay, true
}
