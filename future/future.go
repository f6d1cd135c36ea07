// Package future implements the future/task adapter spec.md §4.9
// describes: a Task bundles an invocable with however it captured its
// arguments, runs it at most once, and fulfills a paired Future with the
// outcome.
package future

import (
	"sync/atomic"

	"github.com/flowcore/flowcore/result"
	"github.com/flowcore/flowcore/task"
)

// Future observes the eventual outcome of exactly one Task. It's your
// responsibility not to call Wait from more goroutines than you intend to
// block — Future supports any number of concurrent waiters, but there is
// exactly one writer, the paired Task.
type Future[T, E any] struct {
	done chan struct{}
	res  result.Result[T, E]
}

func newFuture[T, E any]() *Future[T, E] {
	return &Future[T, E]{done: make(chan struct{})}
}

// Wait blocks until the paired Task runs, then returns its outcome.
func (f *Future[T, E]) Wait() result.Result[T, E] {
	<-f.done
	return f.res
}

// Done returns a channel that's closed once the paired Task has run.
func (f *Future[T, E]) Done() <-chan struct{} {
	return f.done
}

// fulfill stores r and releases every waiter. Calling it twice on the
// same Future panics by closing an already-closed channel — Task.Run
// guards against that with its own fired flag, so this should never fire
// twice in practice.
func (f *Future[T, E]) fulfill(r result.Result[T, E]) {
	f.res = r
	close(f.done)
}

// Task wraps a nullary invocable, boxed in a task.Callable exactly as
// spec.md §4.9 ties a future's task to the module's Callable machinery,
// and on Run fulfills its Future exactly once. Run is safe to call from
// multiple goroutines: only the first call executes the wrapped function,
// the rest are no-ops.
type Task[T, E any] struct {
	fired  atomic.Bool
	call   task.Callable[result.Result[T, E]]
	future *Future[T, E]
}

// Run executes the wrapped function and fulfills the future, unless some
// other call to Run already did so.
func (t *Task[T, E]) Run() {
	if t.fired.Swap(true) {
		return
	}
	t.future.fulfill(t.call.Call())
}

// Future returns the Future this Task will fulfill.
func (t *Task[T, E]) Future() *Future[T, E] {
	return t.future
}

func newTask[T, E any](run func() result.Result[T, E]) (*Task[T, E], *Future[T, E]) {
	f := newFuture[T, E]()
	t := &Task[T, E]{call: task.NewCallable(run), future: f}
	return t, f
}

// FromFunc wraps a function that cannot itself report failure. Its
// result is always a value; E is error only so Future composes with the
// rest of the module's error-carrying APIs.
func FromFunc[T any](fn func() T) (*Task[T, error], *Future[T, error]) {
	return newTask[T, error](func() result.Result[T, error] {
		return result.Value[T, error](fn())
	})
}

// FromResultFunc wraps a function that already returns a Result.
func FromResultFunc[T, E any](fn func() result.Result[T, E]) (*Task[T, E], *Future[T, E]) {
	return newTask[T, E](fn)
}

// FromErrFunc wraps a conventional (T, error)-returning function.
func FromErrFunc[T any](fn func() (T, error)) (*Task[T, error], *Future[T, error]) {
	return newTask[T, error](func() result.Result[T, error] {
		v, err := fn()
		if err != nil {
			return result.Err[T, error](err)
		}
		return result.Value[T, error](v)
	})
}
