// Package aggregate implements the lock-free fork/join aggregator
// spec.md §4.8 describes: N pre-initialized result slots, each written at
// most once by its own Delegate, with readiness observable without any
// built-in wait policy — callers spin, yield-spin, poll, or wire their
// own condition variable around it.
package aggregate

import (
	"sync/atomic"

	"github.com/flowcore/flowcore/result"
)

type slot[T, E any] struct {
	claimed atomic.Bool // CAS-won by the single Emplace allowed to write val
	ready   atomic.Bool // set only after val is fully written; what readers see
	val     result.Result[T, E]
	_       [6]uint64 // keep neighboring slots off each other's cache line
}

// Aggregator holds N result slots of the same (T, E) shape, one per
// branch of a fork. It's safe to share across goroutines: every write
// goes through a Delegate bound to exactly one slot, and every slot is
// written at most once.
type Aggregator[T, E any] struct {
	slots      []slot[T, E]
	readyCount atomic.Uint64
}

// New builds an Aggregator with n slots, each pre-initialized with the
// given default error so a slot read before its Delegate fires still
// yields a defined value, per spec.md §4.8.
func New[T, E any](n int, defaultErr E) *Aggregator[T, E] {
	a := &Aggregator[T, E]{slots: make([]slot[T, E], n)}
	for i := range a.slots {
		a.slots[i].val = result.Err[T, E](defaultErr)
	}
	return a
}

// Len returns the slot count, N.
func (a *Aggregator[T, E]) Len() int { return len(a.slots) }

// IsSlotReady reports whether slot i has been written.
func (a *Aggregator[T, E]) IsSlotReady(i int) bool {
	return a.slots[i].ready.Load()
}

// IsAnyReady reports whether at least one slot has been written.
func (a *Aggregator[T, E]) IsAnyReady() bool {
	return a.readyCount.Load() != 0
}

// IsAllReady reports whether every slot has been written.
func (a *Aggregator[T, E]) IsAllReady() bool {
	return a.readyCount.Load() == uint64(len(a.slots))
}

// ValueGot returns how many slots have been written so far.
func (a *Aggregator[T, E]) ValueGot() uint64 {
	return a.readyCount.Load()
}

// Value returns slot i's current result. Call only once IsSlotReady(i)
// (or IsAllReady) is true; otherwise it returns the pre-initialized
// default error.
func (a *Aggregator[T, E]) Value(i int) result.Result[T, E] {
	return a.slots[i].val
}

// Snapshot copies every slot's current value and readiness flag. It's
// race-free to call at any time, including while other slots are still
// being written: each slot is written exactly once, so a concurrent
// snapshot either observes the pre-initialized default or the final
// value, never a partial one.
func (a *Aggregator[T, E]) Snapshot() []SlotSnapshot[T, E] {
	out := make([]SlotSnapshot[T, E], len(a.slots))
	for i := range a.slots {
		out[i] = SlotSnapshot[T, E]{
			Ready: a.slots[i].ready.Load(),
			Value: a.slots[i].val,
		}
	}
	return out
}

// SlotSnapshot is one slot's state as observed by Snapshot.
type SlotSnapshot[T, E any] struct {
	Ready bool
	Value result.Result[T, E]
}

// DelegateFor returns a lightweight writer bound to slot i. Call it at
// most once per slot; a second call still works, but the slot accepts only
// one Emplace across all its Delegates, and every later Emplace fails.
func (a *Aggregator[T, E]) DelegateFor(i int) Delegate[T, E] {
	return Delegate[T, E]{agg: a, idx: i}
}

// Delegate writes to exactly one Aggregator slot.
type Delegate[T, E any] struct {
	agg *Aggregator[T, E]
	idx int
}

// Emplace writes r into the delegate's slot, publishes its ready flag,
// and increments the aggregator's ready count. It reports false without
// writing anything if the slot is already occupied.
//
// The slot is claimed with a CompareAndSwap on a dedicated claimed flag
// before val is touched, so two goroutines racing to Emplace the same slot
// never both pass the guard: only the CAS winner writes val. ready is
// published with a separate Store only after that write completes, so a
// concurrent reader of IsSlotReady/Value/Snapshot still never observes a
// ready slot with a partially written val.
func (d Delegate[T, E]) Emplace(r result.Result[T, E]) bool {
	s := &d.agg.slots[d.idx]
	if !s.claimed.CompareAndSwap(false, true) {
		return false
	}
	s.val = r
	s.ready.Store(true)
	d.agg.readyCount.Add(1)
	return true
}
