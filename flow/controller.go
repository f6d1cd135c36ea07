package flow

import (
	"errors"
	"sync/atomic"
)

// CancelKind distinguishes a soft cancellation, which lets the current
// run observe the cancellation and still drain through to the end node,
// from a hard cancellation, which skips every remaining node and jumps
// straight to the end.
type CancelKind uint8

const (
	CancelSoft CancelKind = iota
	CancelHard
)

const (
	cancelStateNone uint32 = iota
	cancelStateSoft
	cancelStateHard
)

// Controller is the cancellation token shared by a Runner and whoever
// wants to cancel it. Its state only ever moves forward: none -> soft ->
// hard, or none -> hard directly; it never resets. Reads and writes use
// relaxed-equivalent atomics, matching spec.md §5's note that cancellation
// is observed on a best-effort basis between nodes, not a synchronization
// primitive in its own right.
type Controller struct {
	state atomic.Uint32
}

// NewController returns a fresh, not-yet-canceled Controller.
func NewController() *Controller {
	return &Controller{}
}

// Cancel moves the controller to soft- or hard-canceled. A later call with
// a weaker kind than what's already set is a no-op — cancellation only
// escalates.
func (c *Controller) Cancel(force bool) {
	want := cancelStateSoft
	if force {
		want = cancelStateHard
	}
	for {
		cur := c.state.Load()
		if cur >= uint32(want) {
			return
		}
		if c.state.CompareAndSwap(cur, uint32(want)) {
			return
		}
	}
}

// IsSoftCanceled reports whether the controller is soft-canceled; it
// reports false once the controller is hard-canceled.
func (c *Controller) IsSoftCanceled() bool {
	return c.state.Load() == cancelStateSoft
}

// IsHardCanceled reports whether the controller is hard-canceled.
func (c *Controller) IsHardCanceled() bool {
	return c.state.Load() == cancelStateHard
}

// IsCanceled reports whether the controller is canceled at all.
func (c *Controller) IsCanceled() bool {
	return c.state.Load() != cancelStateNone
}

// CancelFactory builds the error value a canceled run substitutes in for
// E. Spec.md §9 leaves this unspecialized for arbitrary E; this module
// specializes it for E = error via DefaultCancelError, per SPEC_FULL.md
// §7's open question decision.
type CancelFactory[E any] interface {
	MakeCancelError(kind CancelKind) E
}

var (
	// ErrSoftCanceled is substituted for a node's input when a Runner
	// observes a soft cancellation.
	ErrSoftCanceled = errors.New("flow: soft-canceled")
	// ErrHardCanceled is substituted at the end node when a Runner
	// observes a hard cancellation.
	ErrHardCanceled = errors.New("flow: hard-canceled")
)

// DefaultCancelError is the CancelFactory[error] this module wires in by
// default: it's the natural choice once E is fixed to error, per
// SPEC_FULL.md §7's decision to default cancel_error<E> for E = error.
type defaultCancelError struct{}

func (defaultCancelError) MakeCancelError(kind CancelKind) error {
	if kind == CancelHard {
		return ErrHardCanceled
	}
	return ErrSoftCanceled
}

// DefaultCancelError is the package-level CancelFactory[error] every
// combinator in this package uses.
var DefaultCancelError CancelFactory[error] = defaultCancelError{}
