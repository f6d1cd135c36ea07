// Package flow implements the blueprint/runner dataflow engine spec.md
// §4.7 describes: a Blueprint composes calc nodes (transform, then,
// on_error, catch_exception) and control nodes (via) into a pipeline from
// an input type to an output type, which a Runner then drives to
// completion, suspending only at control nodes.
//
// Go has no variadic template packs, so where the original's
// flow_blueprint<I, O, Nodes...> tracks every intermediate node's exact
// type at compile time via template deduction, this package tracks only
// the running input type I and current output type O through each
// combinator's own type parameters, and erases everything in between to
// a slice of nodes (see node.go) the way task.Wrapper already erases a
// callable. E is fixed to error throughout, per SPEC_FULL.md §7.
package flow

import (
	"errors"

	"github.com/flowcore/flowcore/result"
	"github.com/flowcore/flowcore/task"
)

// Blueprint composes a pipeline from an input type I to a current output
// type O. It's a plain value: combinators return a new Blueprint with one
// more node appended, never mutating the one they were given, matching
// the original's move-only, rebuild-on-every-stage composition.
type Blueprint[I, O any] struct {
	nodes []node
}

// New starts an empty, identity blueprint over T — the Go analogue of
// make_blueprint<T>(), minus the single no-op calc node the original
// inserts just to have somewhere for the first real node to fuse into;
// here an empty node slice serves the same purpose.
func New[T any]() Blueprint[T, T] {
	return Blueprint[T, T]{}
}

func appended[I, O any](nodes []node, n node) Blueprint[I, O] {
	next := make([]node, len(nodes)+1)
	copy(next, nodes)
	next[len(nodes)] = n
	return Blueprint[I, O]{nodes: next}
}

// Transform appends a calc node that maps a value with f, short-
// circuiting past f whenever the current output is already an error.
func Transform[I, M, O any](bp Blueprint[I, M], f func(M) O) Blueprint[I, O] {
	n := node{
		kind: calcKind,
		calc: func(in any) any {
			r := in.(result.Result[M, error])
			if r.HasError() {
				return result.Err[O, error](r.Error().Get())
			}
			return result.Try(func() O { return f(r.Value()) })
		},
		mkSoftErr: func() any { return result.Err[M, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	return appended[I, O](bp.nodes, n)
}

// Then appends a calc node whose callable receives the whole incoming
// Result — value or error — and returns a new one, letting it observe,
// recover, or re-wrap an upstream error instead of only ever seeing a
// value the way Transform does.
func Then[I, M, O any](bp Blueprint[I, M], f func(result.Result[M, error]) result.Result[O, error]) Blueprint[I, O] {
	n := node{
		kind: calcKind,
		calc: func(in any) any {
			out := result.Try(func() result.Result[O, error] {
				return f(in.(result.Result[M, error]))
			})
			if out.HasError() {
				return result.Err[O, error](out.Error().Get())
			}
			return out.Value()
		},
		mkSoftErr: func() any { return result.Err[M, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	return appended[I, O](bp.nodes, n)
}

// OnError appends a calc node that only runs when the current output is
// an error, giving f a chance to recover it back into a value of the
// same type. A value already present passes through untouched.
func OnError[I, M any](bp Blueprint[I, M], f func(error) result.Result[M, error]) Blueprint[I, M] {
	n := node{
		kind: calcKind,
		calc: func(in any) any {
			r := in.(result.Result[M, error])
			if r.HasValue() {
				return r
			}
			out := result.Try(func() result.Result[M, error] { return f(r.Error().Get()) })
			if out.HasError() {
				return result.Err[M, error](out.Error().Get())
			}
			return out.Value()
		},
		mkSoftErr: func() any { return result.Err[M, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	return appended[I, M](bp.nodes, n)
}

// CatchException appends a calc node that recovers from a captured panic
// of type Exc specifically (via errors.As over the current error),
// leaving every other error untouched. Exc is almost always
// *result.PanicError, since that's what this module's exception capture
// (result.Try/result.TryErr) produces; the original's catch_exception is
// templated on a concrete exception subclass for the same selective-catch
// reason.
func CatchException[I, M, Exc any](bp Blueprint[I, M], f func(Exc) M) Blueprint[I, M] {
	n := node{
		kind: calcKind,
		calc: func(in any) any {
			r := in.(result.Result[M, error])
			if r.HasValue() {
				return r
			}
			var target Exc
			if !errors.As(r.Error().Get(), &target) {
				return r
			}
			return result.Try(func() M { return f(target) })
		},
		mkSoftErr: func() any { return result.Err[M, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	return appended[I, M](bp.nodes, n)
}

// Via appends a control node: the Runner suspends here and hands the
// continuation to exec, resuming on whatever goroutine exec eventually
// runs it on. The continuation itself is boxed in a task.Wrapper before
// it crosses into exec.Dispatch, exactly as spec.md §4.7 requires a
// control node's suspended continuation be carried as a TaskWrapper
// rather than a bare closure.
func Via[I, O any](bp Blueprint[I, O], exec Executor) Blueprint[I, O] {
	n := node{
		kind: controlKind,
		dispatch: func(resume func(any), in any) {
			w := task.New(func() { resume(in) })
			exec.Dispatch(w.Run)
		},
		mkSoftErr: func() any { return result.Err[O, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	return appended[I, O](bp.nodes, n)
}

// End seals the blueprint into a runnable Program: sink receives the
// final Result exactly once, and its return value (if any side effect
// needs one) is the caller's concern, not the runner's — matching the
// original's end node, whose return value is likewise discarded by the
// runner and must be captured via the closure's own side effects (e.g. a
// future.Task or an aggregate.Delegate).
func End[I, O any](bp Blueprint[I, O], sink func(result.Result[O, error])) *Program[I] {
	n := node{
		kind: endKind,
		calc: func(in any) any {
			sink(in.(result.Result[O, error]))
			return nil
		},
		mkSoftErr: func() any { return result.Err[O, error](DefaultCancelError.MakeCancelError(CancelSoft)) },
	}
	all := append(append([]node{}, bp.nodes...), n)
	return &Program[I]{
		nodes: fuse(all),
		cancelEnd: func() any {
			return result.Err[O, error](DefaultCancelError.MakeCancelError(CancelHard))
		},
	}
}
