package queue

import (
	"sync/atomic"

	"github.com/flowcore/flowcore/cell"
)

// mpmcSlot carries the generation-tagged sequence counter described in
// spec.md §4.4's MPMC section: even sequence values mean "empty, at this
// generation"; odd sequence values mean "full, at this generation."
type mpmcSlot[T any] struct {
	seq atomic.Uint64
	val cell.Cell[T]
}

// MPMC is a bounded, lock-free, multi-producer/multi-consumer ring buffer,
// modeled after the classic Vyukov bounded queue and on spec.md §4.4's
// description of it: producers and consumers don't coordinate through the
// head/tail counters alone, they coordinate through each slot's own
// sequence counter, which is what lets a producer detect "full" and a
// consumer detect "empty" without taking a lock.
type MPMC[T any] struct {
	capacity uint64
	mask     uint64
	slots    []mpmcSlot[T]
	head     paddedCounter
	tail     paddedCounter
}

// NewMPMC creates an MPMC queue with room for capacity elements. It panics
// if capacity is not a power of two.
func NewMPMC[T any](capacity uint64) *MPMC[T] {
	if !isPowerOfTwo(capacity) {
		panic("queue: MPMC capacity must be a power of two")
	}
	q := &MPMC[T]{
		capacity: capacity,
		mask:     capacity - 1,
		slots:    make([]mpmcSlot[T], capacity),
	}
	for i := range q.slots {
		// every slot starts at generation 0, empty (even sequence 0).
		q.slots[i].seq.Store(0)
	}
	return q
}

// TryEmplace attempts to push v without blocking. It reports false once it
// observes the queue is full.
func (q *MPMC[T]) TryEmplace(v T) bool {
	pos := q.tail.v.Load()
	for {
		slot := &q.slots[pos&q.mask]
		gen := pos / q.capacity
		expected := gen << 1
		cur := slot.seq.Load()

		diff := int64(cur) - int64(expected)
		switch {
		case diff == 0:
			if q.tail.v.CompareAndSwap(pos, pos+1) {
				slot.val.Construct(v)
				slot.seq.Store(expected + 1) // publish: odd, full
				return true
			}
			pos = q.tail.v.Load()
		case diff < 0:
			return false // full: slot hasn't reached this generation's empty state yet
		default:
			pos = q.tail.v.Load() // another producer got ahead of us; resync
		}
	}
}

// TryPop attempts to pop a value without blocking. It reports false once it
// observes the queue is empty.
func (q *MPMC[T]) TryPop() (T, bool) {
	pos := q.head.v.Load()
	for {
		slot := &q.slots[pos&q.mask]
		gen := pos / q.capacity
		expected := (gen << 1) + 1
		cur := slot.seq.Load()

		diff := int64(cur) - int64(expected)
		switch {
		case diff == 0:
			if q.head.v.CompareAndSwap(pos, pos+1) {
				v := slot.val.Steal()
				slot.seq.Store((gen + 1) << 1) // publish: even, next generation
				return v, true
			}
			pos = q.head.v.Load()
		case diff < 0:
			var zero T
			return zero, false // empty: slot hasn't reached this generation's full state yet
		default:
			pos = q.head.v.Load()
		}
	}
}

// Size returns an approximate element count.
func (q *MPMC[T]) Size() uint64 {
	tail := q.tail.v.Load()
	head := q.head.v.Load()
	if tail < head {
		return 0
	}
	return tail - head
}

// Empty reports an approximate emptiness.
func (q *MPMC[T]) Empty() bool {
	return q.Size() == 0
}

// Drain pops and discards every occupied slot; see SPSC.Drain's caveats.
func (q *MPMC[T]) Drain() {
	for {
		if _, ok := q.TryPop(); !ok {
			return
		}
	}
}
