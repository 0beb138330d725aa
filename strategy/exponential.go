package strategy

import (
	"math"
	"strconv"
	"time"
)

// Defaults applied by NewExponential when an option is not supplied.
const (
	DefaultInitialDelay = 100 * time.Millisecond
	DefaultMultiplier   = 2.0
	DefaultMaxAttempts  = 5
)

// Exponential grows the delay geometrically between attempts:
//
//	delay(n) = initial × multiplier^(n−1)
//
// capped at the configured ceiling when one is set. MaxAttempts counts total
// attempts, so a strategy with MaxAttempts=3 permits delays after attempts 1
// and 2 and stops the run at attempt 3.
//
// No jitter is applied; wrap with NewJittered when attempts must not
// synchronize across clients.
//
// The zero value is not usable; construct with NewExponential.
type Exponential struct {
	initial     time.Duration
	multiplier  float64
	maxDelay    time.Duration // 0 means no ceiling
	maxAttempts int
}

// ExponentialOption configures an Exponential.
type ExponentialOption func(*Exponential)

// WithInitialDelay sets the delay after the first attempt. Must be positive.
func WithInitialDelay(d time.Duration) ExponentialOption {
	return func(e *Exponential) { e.initial = d }
}

// WithMultiplier sets the geometric growth factor. Must be positive,
// typically greater than 1.
func WithMultiplier(m float64) ExponentialOption {
	return func(e *Exponential) { e.multiplier = m }
}

// WithMaxDelay sets a ceiling on the computed delay. Must be at least the
// initial delay.
func WithMaxDelay(d time.Duration) ExponentialOption {
	return func(e *Exponential) { e.maxDelay = d }
}

// WithMaxAttempts sets the total attempt cap. Must be at least 1.
func WithMaxAttempts(n int) ExponentialOption {
	return func(e *Exponential) { e.maxAttempts = n }
}

// NewExponential builds an Exponential from defaults plus opts, validating
// the configuration eagerly. Invalid values surface as *ConfigError.
func NewExponential(opts ...ExponentialOption) (*Exponential, error) {
	e := &Exponential{
		initial:     DefaultInitialDelay,
		multiplier:  DefaultMultiplier,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.initial <= 0 {
		return nil, &ConfigError{Field: "initial_delay", Value: e.initial.String()}
	}
	if e.multiplier <= 0 || math.IsNaN(e.multiplier) || math.IsInf(e.multiplier, 0) {
		return nil, &ConfigError{Field: "multiplier", Value: strconv.FormatFloat(e.multiplier, 'g', -1, 64)}
	}
	if e.maxAttempts < 1 {
		return nil, &ConfigError{Field: "max_attempts", Value: strconv.Itoa(e.maxAttempts)}
	}
	if e.maxDelay != 0 && e.maxDelay < e.initial {
		return nil, &ConfigError{Field: "max_delay", Value: e.maxDelay.String()}
	}
	return e, nil
}

// Decide implements Strategy.
func (e *Exponential) Decide(attempt int, _ error) (time.Duration, bool) {
	if attempt >= e.maxAttempts {
		return 0, false
	}
	return e.delay(attempt), true
}

// delay computes min(initial × multiplier^(attempt−1), ceiling), saturating
// at the ceiling instead of overflowing for large attempt numbers.
func (e *Exponential) delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	ceiling := float64(math.MaxInt64)
	if e.maxDelay > 0 {
		ceiling = float64(e.maxDelay)
	}

	d := float64(e.initial) * math.Pow(e.multiplier, float64(attempt-1))
	if math.IsNaN(d) || d >= ceiling {
		if e.maxDelay > 0 {
			return e.maxDelay
		}
		return time.Duration(math.MaxInt64)
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}
