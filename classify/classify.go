// Package classify turns plain attempt errors into retry rejections, so that
// operations written as ordinary error-returning functions can drive the
// retry loop with protocol-aware success/failure semantics.
package classify

import (
	"context"
	"errors"

	"github.com/aponysus/redrive/outcome"
)

// Classifier maps a non-nil attempt error to a rejection: terminal or
// transient. Implementations must not be called with a nil error.
type Classifier interface {
	Classify(err error) outcome.Rejection
}

// Built-in classifier registry names.
const (
	ClassifierAlwaysRetry = "always"
	ClassifierHTTP        = "http"
)

// RegisterBuiltins registers the core classifiers into reg.
func RegisterBuiltins(reg *Registry) {
	if reg == nil {
		return
	}
	reg.Register(ClassifierAlwaysRetry, AlwaysRetry{})
	reg.Register(ClassifierHTTP, HTTPClassifier{})
}

// AlwaysRetry treats every error as transient, except context cancellation
// which stops the run immediately. Per-attempt deadline errors are considered
// transient; the driver still honors the run's own context separately.
type AlwaysRetry struct{}

func (AlwaysRetry) Classify(err error) outcome.Rejection {
	if errors.Is(err, context.Canceled) {
		return outcome.FailWith(err)
	}
	return outcome.RetryWith(err)
}
