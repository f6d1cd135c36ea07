package flow

// Executor is the external hand-off point a via node dispatches a
// continuation to. A control node's entire job is calling Dispatch with a
// closure that resumes the run; spec.md §4.7 requires this be the only
// place a run suspends. Implementations must not block the caller of
// Dispatch indefinitely, and must eventually run task exactly once.
type Executor interface {
	Dispatch(task func())
}

// ExecutorFunc adapts a plain function to an Executor.
type ExecutorFunc func(task func())

// Dispatch calls f(task).
func (f ExecutorFunc) Dispatch(task func()) { f(task) }

// Inline is an Executor that runs the task synchronously on the calling
// goroutine — useful for tests and for blueprints that use via purely to
// mark a logical boundary without an actual scheduling hop.
var Inline Executor = ExecutorFunc(func(task func()) { task() })
