package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aponysus/redrive/observe"
	"github.com/aponysus/redrive/outcome"
	"github.com/aponysus/redrive/strategy"
)

func attemptInfo(ctx context.Context) (int, bool) {
	info, ok := observe.AttemptFromContext(ctx)
	return info.Attempt, ok
}

type decideCall struct {
	attempt int
	cause   error
}

// stubStrategy records every Decide call and delegates to fn.
type stubStrategy struct {
	calls []decideCall
	fn    func(attempt int, cause error) (time.Duration, bool)
}

func (s *stubStrategy) Decide(attempt int, cause error) (time.Duration, bool) {
	s.calls = append(s.calls, decideCall{attempt: attempt, cause: cause})
	if s.fn == nil {
		return 0, true
	}
	return s.fn(attempt, cause)
}

// newStubDriver returns a driver whose sleeps are recorded instead of slept.
func newStubDriver(opts ...Option) (*Driver, *[]time.Duration) {
	slept := &[]time.Duration{}
	d := NewDriver(opts...)
	d.sleep = func(_ context.Context, dur time.Duration) error {
		*slept = append(*slept, dur)
		return nil
	}
	return d, slept
}

func TestRun_SuccessFirstAttempt(t *testing.T) {
	d, slept := newStubDriver()
	strat := &stubStrategy{}

	calls := 0
	val, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		calls++
		return outcome.Success(255)
	})

	require.NoError(t, err)
	assert.Equal(t, 255, val)
	assert.Equal(t, 1, calls)
	assert.Empty(t, strat.calls, "strategy must not be consulted after success")
	assert.Empty(t, *slept)
}

func TestRun_FailShortCircuits(t *testing.T) {
	d, slept := newStubDriver()
	strat := &stubStrategy{}
	terminal := errors.New("bad request")

	calls := 0
	_, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		calls++
		return outcome.Fail[int](terminal)
	})

	require.Same(t, terminal, err, "terminal cause must be surfaced unchanged")
	assert.Equal(t, 1, calls)
	assert.Empty(t, strat.calls, "strategy must not be consulted after a terminal rejection")
	assert.Empty(t, *slept, "timer must not run for a terminal rejection")
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
}

func TestRun_SuccessAfterRetries(t *testing.T) {
	d, slept := newStubDriver()
	strat := &stubStrategy{fn: func(attempt int, _ error) (time.Duration, bool) {
		return time.Duration(attempt) * time.Millisecond, true
	}}

	calls := 0
	val, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		calls++
		if calls < 3 {
			return outcome.Retry[int](nil)
		}
		return outcome.Success(42)
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 3, calls)

	// decide is called exactly k-1 times for success on attempt k, with
	// strictly increasing 1-based attempt counts.
	require.Len(t, strat.calls, 2)
	assert.Equal(t, 1, strat.calls[0].attempt)
	assert.Equal(t, 2, strat.calls[1].attempt)

	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, *slept)
}

func TestRun_Exhausted(t *testing.T) {
	d, _ := newStubDriver()
	strat, err := strategy.NewExponential(
		strategy.WithInitialDelay(time.Millisecond),
		strategy.WithMaxAttempts(2),
	)
	require.NoError(t, err)

	down := errors.New("down")
	calls := 0
	_, runErr := Run(context.Background(), d, strat, func(context.Context) outcome.Result[string] {
		calls++
		return outcome.Retry[string](down)
	})

	require.Error(t, runErr)
	assert.Equal(t, 2, calls)

	var exhausted *ExhaustedError
	require.ErrorAs(t, runErr, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.Same(t, down, exhausted.Cause)
	assert.ErrorIs(t, runErr, ErrRetriesExhausted)
	assert.ErrorIs(t, runErr, down)
}

func TestRun_ExhaustedWithoutCause(t *testing.T) {
	d, _ := newStubDriver()
	strat := &stubStrategy{fn: func(int, error) (time.Duration, bool) {
		return 0, false
	}}

	_, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Retry[int](nil)
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.NoError(t, exhausted.Cause)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, "redrive: retries exhausted after 1 attempt(s)", err.Error())
}

func TestRun_RetainsLatestCause(t *testing.T) {
	d, _ := newStubDriver()
	first := errors.New("first")
	second := errors.New("second")
	causes := []error{first, second, nil}

	strat := &stubStrategy{fn: func(attempt int, _ error) (time.Duration, bool) {
		return 0, attempt < len(causes)
	}}

	calls := 0
	_, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		cause := causes[calls]
		calls++
		return outcome.Retry[int](cause)
	})

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Same(t, second, exhausted.Cause, "latest non-nil cause wins")

	// Decide sees the per-attempt cause verbatim, nil included.
	require.Len(t, strat.calls, 3)
	assert.Same(t, first, strat.calls[0].cause)
	assert.Same(t, second, strat.calls[1].cause)
	assert.NoError(t, strat.calls[2].cause)
}

func TestRun_TerminalWithoutCause(t *testing.T) {
	d, _ := newStubDriver()
	_, err := Run(context.Background(), d, &stubStrategy{}, func(context.Context) outcome.Result[int] {
		return outcome.Fail[int](nil)
	})
	require.EqualError(t, err, "redrive: operation failed")
}

func TestRun_UnknownRejectionIsTerminal(t *testing.T) {
	d, slept := newStubDriver()
	strat := &stubStrategy{}

	_, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Rejected[int](outcome.Rejection{})
	})

	require.EqualError(t, err, "redrive: operation failed")
	assert.Empty(t, strat.calls)
	assert.Empty(t, *slept)
}

func TestRun_NilOperation(t *testing.T) {
	_, err := Run[int](context.Background(), NewDriver(), strategy.Default(), nil)
	require.EqualError(t, err, "redrive: nil operation")
}

func TestRun_NilStrategyUsesDefault(t *testing.T) {
	d, slept := newStubDriver()

	calls := 0
	val, err := Run(context.Background(), d, nil, func(context.Context) outcome.Result[int] {
		calls++
		if calls == 1 {
			return outcome.Retry[int](nil)
		}
		return outcome.Success(7)
	})

	require.NoError(t, err)
	assert.Equal(t, 7, val)
	assert.Len(t, *slept, 1)
}

func TestRun_NegativeDelayClamped(t *testing.T) {
	d, slept := newStubDriver()
	strat := &stubStrategy{fn: func(attempt int, _ error) (time.Duration, bool) {
		return -time.Second, attempt < 3
	}}

	_, err := Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Retry[int](nil)
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Empty(t, *slept, "clamped zero delays skip the timer")
}

func TestRun_AttemptInfoInContext(t *testing.T) {
	d, _ := newStubDriver()

	var seen []int
	_, err := Run(context.Background(), d, &stubStrategy{fn: func(attempt int, _ error) (time.Duration, bool) {
		return 0, attempt < 3
	}}, func(ctx context.Context) outcome.Result[int] {
		info, ok := attemptInfo(ctx)
		require.True(t, ok)
		seen = append(seen, info)
		return outcome.Retry[int](nil)
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestDriver_Do(t *testing.T) {
	d, _ := newStubDriver()

	calls := 0
	err := d.Do(context.Background(), &stubStrategy{}, func(context.Context) outcome.Result[struct{}] {
		calls++
		return outcome.Done()
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
