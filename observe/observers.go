package observe

import "context"

// NoopObserver implements Observer with no-op methods.
type NoopObserver struct{}

func (NoopObserver) OnStart(context.Context)                  {}
func (NoopObserver) OnAttempt(context.Context, AttemptRecord) {}
func (NoopObserver) OnSuccess(context.Context, Timeline)      {}
func (NoopObserver) OnFailure(context.Context, Timeline)      {}

// BaseObserver implements Observer with no-op methods.
//
// Users can embed BaseObserver to implement only the callbacks they need.
type BaseObserver struct{}

func (BaseObserver) OnStart(context.Context)                  {}
func (BaseObserver) OnAttempt(context.Context, AttemptRecord) {}
func (BaseObserver) OnSuccess(context.Context, Timeline)      {}
func (BaseObserver) OnFailure(context.Context, Timeline)      {}

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	Observers []Observer
}

func (m MultiObserver) OnStart(ctx context.Context) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnStart(ctx)
		}
	}
}

func (m MultiObserver) OnAttempt(ctx context.Context, rec AttemptRecord) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, rec)
		}
	}
}

func (m MultiObserver) OnSuccess(ctx context.Context, tl Timeline) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSuccess(ctx, tl)
		}
	}
}

func (m MultiObserver) OnFailure(ctx context.Context, tl Timeline) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnFailure(ctx, tl)
		}
	}
}
