// Package outcome defines the classification contract between an attempt and
// the retry driver: each completed attempt yields a success value, a terminal
// rejection, or a transient rejection with an optional diagnostic cause.
package outcome

// Kind describes how a completed attempt was classified.
type Kind int

const (
	KindUnknown Kind = iota
	KindSuccess
	KindFail
	KindRetry
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFail:
		return "fail"
	case KindRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Rejection describes a failed attempt.
//
// A terminal rejection stops the run immediately; its cause is surfaced to the
// caller unchanged. A transient rejection asks the driver to consult its
// strategy, and its cause is advisory: it feeds the strategy and, if the run
// is eventually exhausted, the final error. The cause of a transient rejection
// may be nil.
type Rejection struct {
	kind  Kind
	cause error
}

// FailWith builds a terminal rejection.
func FailWith(cause error) Rejection {
	return Rejection{kind: KindFail, cause: cause}
}

// RetryWith builds a transient rejection. cause may be nil when there is
// nothing useful to report.
func RetryWith(cause error) Rejection {
	return Rejection{kind: KindRetry, cause: cause}
}

func (r Rejection) Kind() Kind { return r.kind }

// Terminal reports whether the rejection stops the run without retrying.
// Rejections of unknown kind are treated as terminal.
func (r Rejection) Terminal() bool { return r.kind != KindRetry }

func (r Rejection) Cause() error { return r.cause }

// Result is the outcome of one attempt: either a success value or a
// Rejection. Results are ephemeral; the driver consumes one per attempt and
// never retains it.
type Result[T any] struct {
	ok        bool
	value     T
	rejection Rejection
}

// Success classifies the attempt as succeeded with value v.
func Success[T any](v T) Result[T] {
	return Result[T]{ok: true, value: v}
}

// Rejected classifies the attempt as failed with rej.
func Rejected[T any](rej Rejection) Result[T] {
	return Result[T]{rejection: rej}
}

// Fail is shorthand for Rejected(FailWith(cause)).
func Fail[T any](cause error) Result[T] {
	return Rejected[T](FailWith(cause))
}

// Retry is shorthand for Rejected(RetryWith(cause)).
func Retry[T any](cause error) Result[T] {
	return Rejected[T](RetryWith(cause))
}

// Done is the success result for value-less operations.
func Done() Result[struct{}] {
	return Success(struct{}{})
}

func (r Result[T]) Ok() bool { return r.ok }

// Value returns the success value. It is the zero value unless Ok reports true.
func (r Result[T]) Value() T { return r.value }

// Rejection returns the rejection. It is meaningful only when Ok reports false.
func (r Result[T]) Rejection() Rejection { return r.rejection }
