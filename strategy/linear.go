package strategy

import (
	"strconv"
	"time"
)

// Linear waits a constant delay between attempts up to a total attempt cap.
type Linear struct {
	delay       time.Duration
	maxAttempts int
}

// NewLinear builds a Linear strategy. delay must be non-negative and
// maxAttempts at least 1.
func NewLinear(delay time.Duration, maxAttempts int) (*Linear, error) {
	if delay < 0 {
		return nil, &ConfigError{Field: "delay", Value: delay.String()}
	}
	if maxAttempts < 1 {
		return nil, &ConfigError{Field: "max_attempts", Value: strconv.Itoa(maxAttempts)}
	}
	return &Linear{delay: delay, maxAttempts: maxAttempts}, nil
}

// Decide implements Strategy.
func (l *Linear) Decide(attempt int, _ error) (time.Duration, bool) {
	if attempt >= l.maxAttempts {
		return 0, false
	}
	return l.delay, true
}
