// Package metrics exports retry activity as Prometheus metrics via an
// observe.Observer implementation.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aponysus/redrive/observe"
	"github.com/aponysus/redrive/outcome"
	"github.com/aponysus/redrive/retry"
)

// Observer implements observe.Observer on top of a Prometheus registry.
// Attach it to a driver with retry.WithObserver.
type Observer struct {
	runsStarted     prometheus.Counter
	runsCompleted   *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	attemptDuration prometheus.Histogram
	delaySeconds    prometheus.Histogram
}

// NewObserver creates an Observer and registers its collectors with reg.
// It panics if a collector with the same name is already registered, matching
// prometheus.MustRegister behavior.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "redrive",
			Subsystem: "retry",
			Name:      "runs_started_total",
			Help:      "Total number of retry runs started",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redrive",
			Subsystem: "retry",
			Name:      "runs_completed_total",
			Help:      "Total number of retry runs completed, by final result",
		}, []string{"result"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redrive",
			Subsystem: "retry",
			Name:      "attempts_total",
			Help:      "Total number of attempts executed, by outcome",
		}, []string{"outcome"}),
		attemptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "redrive",
			Subsystem: "retry",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of individual attempts",
			Buckets:   prometheus.DefBuckets,
		}),
		delaySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "redrive",
			Subsystem: "retry",
			Name:      "backoff_delay_seconds",
			Help:      "Backoff delays scheduled between attempts",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			o.runsStarted,
			o.runsCompleted,
			o.attempts,
			o.attemptDuration,
			o.delaySeconds,
		)
	}
	return o
}

func (o *Observer) OnStart(context.Context) {
	o.runsStarted.Inc()
}

func (o *Observer) OnAttempt(_ context.Context, rec observe.AttemptRecord) {
	label := "success"
	if !rec.OK {
		switch rec.Rejection.Kind() {
		case outcome.KindRetry:
			label = "retry"
		default:
			label = "fail"
		}
	}
	o.attempts.WithLabelValues(label).Inc()

	if !rec.EndTime.Before(rec.StartTime) {
		o.attemptDuration.Observe(rec.EndTime.Sub(rec.StartTime).Seconds())
	}
	if rec.Delay > 0 {
		o.delaySeconds.Observe(rec.Delay.Seconds())
	}
}

func (o *Observer) OnSuccess(context.Context, observe.Timeline) {
	o.runsCompleted.WithLabelValues("success").Inc()
}

func (o *Observer) OnFailure(_ context.Context, tl observe.Timeline) {
	o.runsCompleted.WithLabelValues(resultLabel(tl.FinalErr)).Inc()
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, retry.ErrRetriesExhausted):
		return "exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "terminal"
	}
}
