package queue

import (
	"runtime"
	"sync/atomic"

	"github.com/flowcore/flowcore/cell"
)

// spscSlot holds one ring-buffer slot for the single-producer/single-
// consumer queue. ready publishes occupancy with release/acquire ordering;
// val is only ever touched by whichever side currently owns the slot
// (producer between claiming it and setting ready=1, consumer between
// observing ready=1 and setting ready=0), so it never needs its own
// synchronization (spec.md §4.4, SPSC).
type spscSlot[T any] struct {
	ready atomic.Uint32
	val   cell.Cell[T]
}

// SPSC is a bounded, lock-free, single-producer/single-consumer ring
// buffer. capacity must be a power of two.
type SPSC[T any] struct {
	mask  uint64
	slots []spscSlot[T]
	head  paddedCounter // consumer-owned
	tail  paddedCounter // producer-owned
}

// NewSPSC creates an SPSC queue with room for capacity elements. It panics
// if capacity is not a power of two, mirroring the source's
// static_assert(capacity is a power of 2).
func NewSPSC[T any](capacity uint64) *SPSC[T] {
	if !isPowerOfTwo(capacity) {
		panic("queue: SPSC capacity must be a power of two")
	}
	return &SPSC[T]{
		mask:  capacity - 1,
		slots: make([]spscSlot[T], capacity),
	}
}

// TryEmplace attempts to push v without blocking. It reports false if the
// queue is full.
func (q *SPSC[T]) TryEmplace(v T) bool {
	tail := q.tail.v.Load()
	slot := &q.slots[tail&q.mask]
	if slot.ready.Load() != 0 {
		return false
	}
	slot.val.Construct(v)
	slot.ready.Store(1)
	q.tail.v.Store(tail + 1)
	return true
}

// WaitAndEmplace pushes v, spinning with a scheduler-yield pause until
// there's room. Grounded on the teacher's readAndAcquireLock spin
// (internal/status/status.go), which yields via runtime.Gosched() instead
// of busy-looping tightly.
func (q *SPSC[T]) WaitAndEmplace(v T) {
	for !q.TryEmplace(v) {
		runtime.Gosched()
	}
}

// TryPop attempts to pop a value without blocking. It reports false if the
// queue is empty.
func (q *SPSC[T]) TryPop() (T, bool) {
	head := q.head.v.Load()
	slot := &q.slots[head&q.mask]
	if slot.ready.Load() == 0 {
		var zero T
		return zero, false
	}
	v := slot.val.Steal()
	slot.ready.Store(0)
	q.head.v.Store(head + 1)
	return v, true
}

// WaitAndPop pops a value, spinning until one is available.
func (q *SPSC[T]) WaitAndPop() T {
	for {
		if v, ok := q.TryPop(); ok {
			return v
		}
		runtime.Gosched()
	}
}

// Size returns an approximate element count; it may be stale the instant it
// returns, and is defined only for observability (spec.md §4.4).
func (q *SPSC[T]) Size() uint64 {
	tail := q.tail.v.Load()
	head := q.head.v.Load()
	if tail < head {
		return 0
	}
	return tail - head
}

// Empty reports an approximate emptiness.
func (q *SPSC[T]) Empty() bool {
	return q.Size() == 0
}

// Drain pops and discards every occupied slot. It must only be called once
// both the producer and the consumer have stopped using the queue — it is
// not synchronized against concurrent TryEmplace/TryPop, matching spec.md
// §4.4's note that queue destructors must not be relied on to run across
// threads.
func (q *SPSC[T]) Drain() {
	for {
		if _, ok := q.TryPop(); !ok {
			return
		}
	}
}
