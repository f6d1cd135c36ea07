package flow

import (
	"github.com/flowcore/flowcore/result"
)

// Program is a sealed Blueprint, ready to run. Its node list is
// immutable after End builds it, matching spec.md §5's "blueprint storage
// ... content is immutable after sealing" shared-resource policy — many
// Runners, and many goroutines' worth of Runner.Run calls, can share one
// Program concurrently.
type Program[I any] struct {
	nodes     []node
	cancelEnd func() any
}

// Runner drives one Program to completion for one input value,
// suspending at each control node by handing its continuation to an
// Executor. A Runner is single-use: call Run once.
type Runner[I any] struct {
	prog *Program[I]
	ctl  *Controller
}

// NewRunner pairs a Program with a Controller. A nil controller gets a
// fresh, not-yet-canceled one.
func NewRunner[I any](prog *Program[I], ctl *Controller) *Runner[I] {
	if ctl == nil {
		ctl = NewController()
	}
	return &Runner[I]{prog: prog, ctl: ctl}
}

// Controller returns the Runner's cancellation token.
func (r *Runner[I]) Controller() *Controller {
	return r.ctl
}

// Run starts the pipeline with in as the initial value. It returns
// immediately if the first node is (or becomes) a control node; the
// Program's end sink is what eventually observes the final result.
func (r *Runner[I]) Run(in I) {
	r.runFrom(0, result.Value[I, error](in))
}

func (r *Runner[I]) runFrom(idx int, in any) {
	last := len(r.prog.nodes) - 1
	for idx <= last {
		if r.ctl.IsHardCanceled() && idx != last {
			in = r.prog.cancelEnd()
			idx = last
			continue
		}

		n := r.prog.nodes[idx]
		if r.ctl.IsSoftCanceled() {
			in = n.mkSoftErr()
		}

		if n.kind == controlKind {
			next := idx + 1
			runner := r
			n.dispatch(func(resumed any) { runner.runFrom(next, resumed) }, in)
			return
		}

		in = n.calc(in)
		idx++
	}
}

// FastRunner is the one-shot variant spec.md §4.7 names: it consumes its
// Program by value semantics (no controller, no cancellation, no
// sharing) for the common case of a pipeline that runs exactly once and
// is thrown away, mirroring the original's flow_fast_runner.
type FastRunner[I any] struct {
	prog *Program[I]
}

// NewFastRunner wraps prog for a single run.
func NewFastRunner[I any](prog *Program[I]) *FastRunner[I] {
	return &FastRunner[I]{prog: prog}
}

// Run starts the pipeline with in, with no cancellation support.
func (r *FastRunner[I]) Run(in I) {
	r.runFrom(0, result.Value[I, error](in))
}

func (r *FastRunner[I]) runFrom(idx int, in any) {
	last := len(r.prog.nodes) - 1
	for idx <= last {
		n := r.prog.nodes[idx]
		if n.kind == controlKind {
			next := idx + 1
			runner := r
			n.dispatch(func(resumed any) { runner.runFrom(next, resumed) }, in)
			return
		}
		in = n.calc(in)
		idx++
	}
}
