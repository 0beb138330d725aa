package strategy

import (
	"math/rand"
	"time"
)

// JitterKind selects how Jittered randomizes delays.
type JitterKind string

const (
	// JitterFull draws the delay uniformly from [0, d).
	JitterFull JitterKind = "full"
	// JitterEqual draws the delay uniformly from [d/2, d).
	JitterEqual JitterKind = "equal"
)

// Jittered decorates another strategy with randomized delays to avoid
// synchronized retries across clients. Stop decisions and attempt accounting
// pass through to the inner strategy untouched.
type Jittered struct {
	inner Strategy
	kind  JitterKind
}

// NewJittered wraps inner with jitter of the given kind.
func NewJittered(inner Strategy, kind JitterKind) (*Jittered, error) {
	if inner == nil {
		return nil, &ConfigError{Field: "inner", Value: "nil"}
	}
	switch kind {
	case JitterFull, JitterEqual:
	default:
		return nil, &ConfigError{Field: "jitter", Value: string(kind)}
	}
	return &Jittered{inner: inner, kind: kind}, nil
}

// Decide implements Strategy.
func (j *Jittered) Decide(attempt int, cause error) (time.Duration, bool) {
	d, ok := j.inner.Decide(attempt, cause)
	if !ok || d <= 0 {
		return d, ok
	}
	switch j.kind {
	case JitterEqual:
		half := float64(d) / 2
		return time.Duration(half + rand.Float64()*half), true
	default:
		return time.Duration(rand.Float64() * float64(d)), true
	}
}
