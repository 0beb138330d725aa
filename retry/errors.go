package retry

import (
	"errors"
	"fmt"
)

// ErrRetriesExhausted marks runs that were stopped by the strategy rather
// than by a terminal rejection. Match with errors.Is.
var ErrRetriesExhausted = errors.New("redrive: retries exhausted")

// ExhaustedError reports that the strategy stopped the run after a transient
// rejection. Cause is the most recent non-nil rejection context, or nil when
// none was ever supplied.
type ExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *ExhaustedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("redrive: retries exhausted after %d attempt(s): %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("redrive: retries exhausted after %d attempt(s)", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error { return e.Cause }

func (e *ExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }
