package retry

import (
	"context"

	"github.com/aponysus/redrive/classify"
	"github.com/aponysus/redrive/outcome"
)

// Classified lifts a plain error-returning function into an Operation,
// using c to classify non-nil errors. A nil classifier treats every error
// as transient.
func Classified[T any](c classify.Classifier, fn func(ctx context.Context) (T, error)) Operation[T] {
	if c == nil {
		c = classify.AlwaysRetry{}
	}
	return func(ctx context.Context) outcome.Result[T] {
		v, err := fn(ctx)
		if err == nil {
			return outcome.Success(v)
		}
		return outcome.Rejected[T](c.Classify(err))
	}
}
