// Package observe exposes the lifecycle of a retry run: one record per
// attempt plus a timeline for the whole run. Formatting and export live
// elsewhere; this package only defines the seam.
package observe

import (
	"context"
	"time"

	"github.com/aponysus/redrive/outcome"
)

// AttemptRecord describes a single completed attempt.
type AttemptRecord struct {
	Attempt   int
	StartTime time.Time
	EndTime   time.Time

	OK        bool
	Rejection outcome.Rejection

	// Delay is the backoff scheduled after this attempt; zero when the run
	// terminated here.
	Delay time.Duration
}

// Timeline is the structured record of a single run and all of its attempts.
type Timeline struct {
	Start time.Time
	End   time.Time

	Attempts []AttemptRecord
	FinalErr error
}

// Observer receives lifecycle callbacks for a single run.
type Observer interface {
	OnStart(ctx context.Context)
	OnAttempt(ctx context.Context, rec AttemptRecord)
	OnSuccess(ctx context.Context, tl Timeline)
	OnFailure(ctx context.Context, tl Timeline)
}
