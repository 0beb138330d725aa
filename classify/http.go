package classify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aponysus/redrive/outcome"
)

// HTTPError is a classify-owned interface that lets the HTTP classifier
// recognize retry semantics without importing integration packages.
//
// Implementations should use status code 0 for transport errors.
type HTTPError interface {
	HTTPStatusCode() int
	HTTPMethod() string
	RetryAfter() (time.Duration, bool)
}

// HTTPClassifier classifies attempt errors for HTTP operations based on an
// HTTPError: 5xx responses and transport errors on idempotent requests are
// transient, 408 and 429 are transient, and the remaining 4xx are terminal.
// Errors that do not implement HTTPError are terminal.
type HTTPClassifier struct {
	// Retryable4xx is an optional set of additional transient 4xx status
	// codes beyond 408 and 429.
	Retryable4xx map[int]struct{}
}

func (c HTTPClassifier) Classify(err error) outcome.Rejection {
	if errors.Is(err, context.Canceled) {
		return outcome.FailWith(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return outcome.RetryWith(err)
	}

	var he HTTPError
	if !errors.As(err, &he) {
		return outcome.FailWith(err)
	}

	status := he.HTTPStatusCode()
	idempotent := isIdempotentMethod(strings.ToUpper(strings.TrimSpace(he.HTTPMethod())))

	switch {
	case status == 0, status >= 500 && status <= 599:
		if !idempotent {
			return outcome.FailWith(err)
		}
		return outcome.RetryWith(err)
	case status == 408, status == 429, c.retryable4xx(status):
		return outcome.RetryWith(err)
	default:
		return outcome.FailWith(err)
	}
}

func (c HTTPClassifier) retryable4xx(status int) bool {
	if c.Retryable4xx == nil {
		return false
	}
	_, ok := c.Retryable4xx[status]
	return ok
}

func isIdempotentMethod(method string) bool {
	switch method {
	case "GET", "HEAD", "PUT", "DELETE", "OPTIONS", "TRACE", "":
		return true
	default:
		return false
	}
}
