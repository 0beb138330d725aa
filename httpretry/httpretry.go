// Package httpretry retries HTTP requests with protocol-aware outcome
// classification: 2xx succeeds, 5xx and transport errors on idempotent
// requests retry, and other 4xx fail terminally.
package httpretry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aponysus/redrive/classify"
	"github.com/aponysus/redrive/retry"
	"github.com/aponysus/redrive/strategy"
)

// Do executes req with retries driven by d and strat. It handles request
// cloning, body draining/closing on rejected responses, and status code
// classification via classify.HTTPClassifier.
//
// Requests with a body must be replayable (GetBody set); http.NewRequest does
// this automatically for common body types.
func Do(ctx context.Context, d *retry.Driver, strat strategy.Strategy, client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return nil, errors.New("redrive: request body is not replayable (GetBody is nil)")
	}

	op := retry.Classified(classify.HTTPClassifier{}, func(ctx context.Context) (*http.Response, error) {
		outReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			outReq.Body = body
		}

		resp, err := client.Do(outReq)
		if err != nil {
			// Wrap transport errors so HTTP classification (idempotency)
			// applies.
			return nil, &StatusError{
				Err:    err,
				Method: req.Method,
			}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		// Drain and close to prevent connection leaks on retry. Drain is
		// capped to avoid hanging on large error bodies.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()

		return nil, &StatusError{
			Code:   resp.StatusCode,
			Method: req.Method,
			Header: resp.Header,
		}
	})

	return retry.Run(ctx, d, strat, op)
}

// StatusError implements classify.HTTPError for rejected responses and
// transport failures.
type StatusError struct {
	Code   int
	Method string
	Header http.Header
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "http status " + strconv.Itoa(e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.Code }
func (e *StatusError) HTTPMethod() string  { return e.Method }

// RetryAfter reports the response's Retry-After header, in seconds or HTTP
// date form.
func (e *StatusError) RetryAfter() (time.Duration, bool) {
	if e.Header == nil {
		return 0, false
	}
	s := e.Header.Get("Retry-After")
	if s == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}

	if t, err := http.ParseTime(s); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
