// Package redrive is the convenience entry point: package-level Run and Do
// against a shared default driver.
package redrive

import (
	"context"

	"github.com/aponysus/redrive/retry"
	"github.com/aponysus/redrive/strategy"
)

// Init sets the shared default driver.
// It must be called before Run/Do are used (e.g. at startup).
func Init(d *retry.Driver) {
	retry.SetDefault(d)
}

// Run executes op using the default driver. See retry.Run.
func Run[T any](ctx context.Context, strat strategy.Strategy, op retry.Operation[T]) (T, error) {
	return retry.Run(ctx, retry.DefaultDriver(), strat, op)
}

// Do executes a value-less operation using the default driver.
func Do(ctx context.Context, strat strategy.Strategy, op retry.Task) error {
	return retry.DefaultDriver().Do(ctx, strat, op)
}
