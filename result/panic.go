package result

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError wraps a recovered panic value, along with the stack trace
// captured at the moment of recovery. It is the Go rendition of spec.md
// §6.5's "exception capture" interface: this runtime has no stack-unwinding
// exceptions, so capturing the in-flight failure means recovering the
// in-flight panic instead, grounded on the teacher's own
// errPromisePanickedResult / UncaughtPanic (errors.go, internalResult.go).
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap lets errors.Is/As reach through to the panic value when it is
// itself an error (e.g. a callback did `panic(someErr)`).
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Try runs f under a deferred recover, exactly mirroring the teacher's
// handleReturns (internal.go): a panic is captured into the error arm
// instead of propagating, and a normal return becomes the value arm.
func Try[T any](f func() T) (res Result[T, error]) {
	defer func() {
		if v := recover(); v != nil {
			res = Err[T, error](newPanicError(v))
		}
	}()
	return Value[T, error](f())
}

// TryErr runs f, which already returns (T, error), under a deferred
// recover, so that both a returned error and a panic end up in the error
// arm of the result.
func TryErr[T any](f func() (T, error)) (res Result[T, error]) {
	defer func() {
		if v := recover(); v != nil {
			res = Err[T, error](newPanicError(v))
		}
	}()
	v, err := f()
	if err != nil {
		return Err[T, error](err)
	}
	return Value[T, error](v)
}

// ErrNotCopyable is returned when an operation requiring a copyable payload
// is attempted on one that isn't (spec.md §7, "Copy-not-available").
var ErrNotCopyable = errors.New("result: value is not copyable")
