package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aponysus/redrive/outcome"
	"github.com/aponysus/redrive/retry"
	"github.com/aponysus/redrive/strategy"
)

func TestObserver_CountsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)

	strat, err := strategy.NewExponential(
		strategy.WithInitialDelay(time.Millisecond),
		strategy.WithMaxAttempts(5),
	)
	require.NoError(t, err)

	d := retry.NewDriver(retry.WithObserver(obs))

	calls := 0
	val, runErr := retry.Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		calls++
		if calls < 3 {
			return outcome.Retry[int](errors.New("flaky"))
		}
		return outcome.Success(1)
	})
	require.NoError(t, runErr)
	require.Equal(t, 1, val)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsCompleted.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.attempts.WithLabelValues("retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.attempts.WithLabelValues("success")))
}

func TestObserver_ResultLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewObserver(reg)
	d := retry.NewDriver(retry.WithObserver(obs))

	strat, err := strategy.NewExponential(
		strategy.WithInitialDelay(time.Millisecond),
		strategy.WithMaxAttempts(1),
	)
	require.NoError(t, err)

	// Exhausted run.
	_, runErr := retry.Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Retry[int](errors.New("down"))
	})
	require.ErrorIs(t, runErr, retry.ErrRetriesExhausted)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsCompleted.WithLabelValues("exhausted")))

	// Terminal run.
	_, runErr = retry.Run(context.Background(), d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Fail[int](errors.New("bad request"))
	})
	require.Error(t, runErr)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsCompleted.WithLabelValues("terminal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.attempts.WithLabelValues("fail")))

	// Cancelled run.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, runErr = retry.Run(ctx, d, strat, func(context.Context) outcome.Result[int] {
		return outcome.Success(1)
	})
	require.ErrorIs(t, runErr, context.Canceled)
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsCompleted.WithLabelValues("canceled")))
}

func TestNewObserver_NilRegisterer(t *testing.T) {
	obs := NewObserver(nil)
	require.NotNil(t, obs)
	obs.OnStart(context.Background())
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.runsStarted))
}
