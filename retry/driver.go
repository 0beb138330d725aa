// Package retry drives an asynchronous operation to completion: it invokes
// the operation once per attempt, classifies each outcome, and consults a
// backoff strategy to decide whether to wait and try again or stop.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/aponysus/redrive/observe"
	"github.com/aponysus/redrive/outcome"
	"github.com/aponysus/redrive/strategy"
)

// Operation produces the outcome of one attempt. The driver invokes it once
// per attempt, so each invocation must start a fresh, independent execution;
// a once-run operation is not assumed restartable.
type Operation[T any] func(ctx context.Context) outcome.Result[T]

// Task is the value-less form of Operation.
type Task = Operation[struct{}]

// Driver executes attempts strictly in sequence. It holds no per-run state
// beyond its injected collaborators; the attempt counter lives on the stack
// of one Run, so a Driver may be shared across concurrent runs.
type Driver struct {
	observer observe.Observer
	clock    func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Driver.
type Option func(*Driver)

// WithObserver sets the observer notified of run lifecycle events.
func WithObserver(o observe.Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// WithClock sets the clock used to timestamp attempt records.
func WithClock(f func() time.Time) Option {
	return func(d *Driver) { d.clock = f }
}

// NewDriver creates a Driver. With no options it runs silently on the real
// clock.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	if d.observer == nil {
		d.observer = observe.NoopObserver{}
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	if d.sleep == nil {
		d.sleep = sleepWithContext
	}
	return d
}

// Do executes a value-less operation. See Run.
func (d *Driver) Do(ctx context.Context, strat strategy.Strategy, op Task) error {
	_, err := Run(ctx, d, strat, op)
	return err
}

// Run executes op until it succeeds, is rejected terminally, or strat stops
// the run.
//
// Each iteration invokes op for a fresh attempt and classifies its result:
// a success terminates the run with the value; a terminal rejection
// terminates it with the rejection's cause, surfaced unchanged and without
// consulting strat; a transient rejection asks strat to decide. Attempt
// numbers passed to strat are 1-based and count attempts completed so far.
// When strat declines, Run returns an *ExhaustedError wrapping the most
// recent non-nil rejection cause, or the bare ErrRetriesExhausted marker if
// no cause was ever supplied.
//
// Cancelling ctx during an attempt or during the inter-attempt delay stops
// the loop immediately; op is never invoked again after cancellation is
// observed, and the context's error is returned as-is.
func Run[T any](ctx context.Context, d *Driver, strat strategy.Strategy, op Operation[T]) (T, error) {
	var zero T

	if ctx == nil {
		ctx = context.Background()
	}
	if d == nil {
		d = NewDriver()
	}
	if strat == nil {
		strat = strategy.Default()
	}
	if op == nil {
		return zero, errors.New("redrive: nil operation")
	}

	capture, hasCapture := observe.TimelineCaptureFromContext(ctx)
	observing := hasCapture || !isNoopObserver(d.observer)

	if !observing {
		return run(ctx, d, strat, op, nil)
	}

	tl := &observe.Timeline{Start: d.clock()}
	d.observer.OnStart(ctx)

	val, err := run(ctx, d, strat, op, tl)

	tl.End = d.clock()
	tl.FinalErr = err
	if err == nil {
		d.observer.OnSuccess(ctx, *tl)
	} else {
		d.observer.OnFailure(ctx, *tl)
	}
	observe.StoreTimelineCapture(capture, tl)

	return val, err
}

// run is the attempt loop shared by the silent and observed paths. tl is nil
// on the silent path.
func run[T any](ctx context.Context, d *Driver, strat strategy.Strategy, op Operation[T], tl *observe.Timeline) (T, error) {
	var zero T
	var lastCause error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attemptCtx := observe.WithAttemptInfo(
			observe.WithoutTimelineCapture(ctx),
			observe.AttemptInfo{Attempt: attempt},
		)

		var start time.Time
		if tl != nil {
			start = d.clock()
		}

		res := op(attemptCtx)

		if res.Ok() {
			record(ctx, d, tl, observe.AttemptRecord{
				Attempt:   attempt,
				StartTime: start,
				OK:        true,
			})
			return res.Value(), nil
		}

		rej := res.Rejection()
		if rej.Terminal() {
			record(ctx, d, tl, observe.AttemptRecord{
				Attempt:   attempt,
				StartTime: start,
				Rejection: rej,
			})
			return zero, terminalError(rej)
		}

		if cause := rej.Cause(); cause != nil {
			lastCause = cause
		}

		delay, ok := strat.Decide(attempt, rej.Cause())
		if !ok {
			record(ctx, d, tl, observe.AttemptRecord{
				Attempt:   attempt,
				StartTime: start,
				Rejection: rej,
			})
			return zero, &ExhaustedError{Attempts: attempt, Cause: lastCause}
		}
		if delay < 0 {
			delay = 0
		}

		record(ctx, d, tl, observe.AttemptRecord{
			Attempt:   attempt,
			StartTime: start,
			Rejection: rej,
			Delay:     delay,
		})

		if delay > 0 {
			if err := d.sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
	}
}

func record(ctx context.Context, d *Driver, tl *observe.Timeline, rec observe.AttemptRecord) {
	if tl == nil {
		return
	}
	rec.EndTime = d.clock()
	tl.Attempts = append(tl.Attempts, rec)
	d.observer.OnAttempt(ctx, rec)
}

func terminalError(rej outcome.Rejection) error {
	if cause := rej.Cause(); cause != nil {
		return cause
	}
	return errors.New("redrive: operation failed")
}

func isNoopObserver(obs observe.Observer) bool {
	switch obs.(type) {
	case observe.NoopObserver, *observe.NoopObserver:
		return true
	default:
		return false
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)

	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C: // drain any pending tick so the channel doesn't retain value
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
