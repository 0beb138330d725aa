// Package strategy defines the pluggable backoff policy consulted by the
// retry driver after a transient rejection, together with the built-in
// exponential, linear, and infinite strategies.
package strategy

import (
	"fmt"
	"time"
)

// Strategy decides whether a run continues after a transient rejection.
//
// attempt is the 1-based number of attempts completed so far; cause is the
// latest rejection context and may be nil. A true ok means wait delay and
// attempt again; false stops the run.
//
// Strategies hold no call-sequencing state (the driver owns the attempt
// counter), so a single instance may be shared across independent driver runs.
type Strategy interface {
	Decide(attempt int, cause error) (delay time.Duration, ok bool)
}

// ConfigError indicates an invalid strategy configuration. It is always
// reported at construction, never mid-run.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("redrive: invalid strategy config: %s=%q", e.Field, e.Value)
}
