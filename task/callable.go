package task

import "github.com/flowcore/flowcore/result"

// Callable[R] is Wrapper's value-returning counterpart: a type-erased,
// nullary invocable returning an R instead of nothing (spec.md §4.3).
//
// The C++ source lets Callable<Sig> carry an arbitrary R(Args...) signature.
// Go generics have no variadic type parameter list, so an arbitrary
// signature can't be expressed directly; this project resolves spec.md
// §9's open ambiguity about exception-capture by also fixing the supported
// signature to the nullary, single-return-value shape actually needed by
// every call site in this codebase (the future package) —
// see SPEC_FULL.md §7, decision 2. A caller needing extra arguments closes
// over them, exactly as the teacher's goCallback/goResCallback type aliases
// do (callbacks.go).
type Callable[R any] struct {
	call func() R
	copy func() func() R
}

// NewCallable wraps f as a non-copyable Callable[R].
func NewCallable[R any](f func() R) Callable[R] {
	return Callable[R]{call: f}
}

// NewCopyableCallable wraps f as a Callable[R] that can be copied.
func NewCopyableCallable[R any](f func() R, clone func() func() R) Callable[R] {
	return Callable[R]{call: f, copy: clone}
}

// IsEmpty reports whether the callable holds no invocable.
func (c *Callable[R]) IsEmpty() bool { return c.call == nil }

// Emplace installs f, destroying whatever the callable held before.
func (c *Callable[R]) Emplace(f func() R) {
	c.call = f
	c.copy = nil
}

// Clear destroys the held invocable, if any.
func (c *Callable[R]) Clear() {
	c.call = nil
	c.copy = nil
}

// Call invokes the stored invocable directly; a panic inside it propagates
// to the caller. This is spec.md §9's "non-mandatory" capture variant,
// named after the teacher's nonsafe.go split.
func (c *Callable[R]) Call() R {
	return c.call()
}

// NothrowCall invokes the stored invocable under recover, returning any
// panic captured into the error arm of the result instead of letting it
// escape. This is the mandatory-by-default variant (SPEC_FULL.md §7,
// decision 2), named after the teacher's safe.go, and is what spec.md
// §4.3 calls nothrow_call.
func (c *Callable[R]) NothrowCall() result.Result[R, error] {
	return result.Try(c.call)
}

// Move returns a new Callable holding whatever c held, and empties c.
func (c *Callable[R]) Move() Callable[R] {
	out := *c
	c.call = nil
	c.copy = nil
	return out
}

// Swap exchanges the contents of c and other.
func (c *Callable[R]) Swap(other *Callable[R]) {
	*c, *other = *other, *c
}

// Copy returns an independent copy of c, or result.ErrNotCopyable if c was
// constructed with NewCallable instead of NewCopyableCallable.
func (c *Callable[R]) Copy() (Callable[R], error) {
	if c.call == nil {
		return Callable[R]{}, nil
	}
	if c.copy == nil {
		return Callable[R]{}, result.ErrNotCopyable
	}
	return Callable[R]{call: c.copy(), copy: c.copy}, nil
}
