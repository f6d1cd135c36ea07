// Package hazard implements the fixed-size hazard pointer registry
// spec.md §4.6 describes: a bounded array of (owner, ptr) records that
// lets a reader announce "I am currently dereferencing this address" so a
// concurrent retire of that address defers its reclamation instead of
// freeing memory a reader still holds.
package hazard

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/flowcore/flowcore/freelist"
	"github.com/flowcore/flowcore/task"
)

// MaxSlots bounds the registry's record array, mirroring the original's
// fixed hp_mgr::max_slot.
const MaxSlots = 128

// retireCapacity sizes the retire-node pool. The original doubles
// max_slot for its static_list backing the retire list; we follow suit.
const retireCapacity = MaxSlots << 1

type record struct {
	owner atomic.Pointer[Hazard]
	ptr   atomic.Uintptr
	_     [56]byte // pad the pair up towards a cache line
}

// Registry owns the fixed record array plus the retire-node pool and
// in-flight retire list backing Retire/SweepAndReclaim.
type Registry struct {
	records [MaxSlots]record
	nodes   *freelist.FreeList[retireNode]
	retired *freelist.List
}

type retireNode struct {
	ptr unsafe.Pointer
	run task.Wrapper
}

// NewRegistry constructs an empty registry, ready for concurrent use.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   freelist.NewFreeList[retireNode](retireCapacity),
		retired: freelist.NewEmptyList(),
	}
}

// Acquire claims a free slot for the calling goroutine. If every slot is
// already owned, the returned Hazard holds no slot and Available reports
// false — callers must check Available before calling Protect, exactly as
// the original's comment warns.
//
// The original releases a thread's slot on thread exit via a pthread
// destructor; goroutines have no such exit hook, so Release is the
// required, explicit replacement. As a best-effort backstop for a caller
// that drops its Hazard without calling Release, Acquire also attaches a
// finalizer that releases the slot once the Hazard token itself is
// garbage collected — not a substitute for calling Release promptly (the
// GC offers no timing guarantee), just insurance against a permanently
// leaked slot.
func (r *Registry) Acquire() *Hazard {
	h := &Hazard{reg: r}
	h.slot = r.acquireSlot(h)
	if h.slot != nil {
		runtime.SetFinalizer(h, func(h *Hazard) { h.Release() })
	}
	return h
}

func (r *Registry) acquireSlot(owner *Hazard) *record {
	for i := range r.records {
		rec := &r.records[i]
		if rec.owner.CompareAndSwap(nil, owner) {
			return rec
		}
	}
	return nil
}

// IsHazard reports whether any live slot currently protects p.
func (r *Registry) IsHazard(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	target := uintptr(p)
	for i := range r.records {
		if r.records[i].ptr.Load() == target {
			return true
		}
	}
	return false
}

// Retire schedules p for reclamation via deleter, boxed in a task.Wrapper
// exactly as spec.md §4.6 requires a retired node's deleter be carried
// through the Callable/Wrapper machinery rather than as a bare function
// value. If p is not currently protected by any hazard slot, the wrapper
// runs immediately; otherwise p is parked on the retire list until a
// future SweepAndReclaim finds it unprotected.
func (r *Registry) Retire(p unsafe.Pointer, deleter func(unsafe.Pointer)) {
	w := task.New(func() { deleter(p) })
	if !r.IsHazard(p) {
		w.Run()
		return
	}
	idx, c, ok := r.nodes.Acquire()
	if !ok {
		// the retire pool is exhausted; reclaim eagerly from the existing
		// backlog and retry once before giving up and deleting inline,
		// which is safe-but-racy: it can free memory a hazard-protected
		// reader still holds if the pool stays saturated.
		r.SweepAndReclaim()
		idx, c, ok = r.nodes.Acquire()
		if !ok {
			w.Run()
			return
		}
	}
	c.Construct(retireNode{ptr: p, run: w})
	r.retired.Push(r.nodes.Nodes, idx)
}

// SweepAndReclaim detaches the whole retire list and, for each node,
// either runs its wrapped deleter (if no slot protects it anymore) or
// re-appends it to the retire list for a later sweep to retry.
func (r *Registry) SweepAndReclaim() {
	head := r.retired.DetachAll()
	for head != freelist.Empty {
		next := r.nodes.Nodes.Next(head)
		node := *r.nodes.Nodes.Cell(head).Get()
		if !r.IsHazard(node.ptr) {
			node.run.Run()
			r.nodes.Release(head)
		} else {
			r.retired.Push(r.nodes.Nodes, head)
		}
		head = next
	}
}

// Hazard is one goroutine's claim on a registry slot — the Go analogue of
// a thread-owned hazard_ptr. Create one with Registry.Acquire, call
// Protect before dereferencing a shared atomic pointer, and Release when
// done with it.
type Hazard struct {
	reg  *Registry
	slot *record
}

// Available reports whether this Hazard actually holds a slot.
func (h *Hazard) Available() bool { return h.slot != nil }

// Protect announces that the calling goroutine is about to dereference p.
// Available must be true before calling this.
func (h *Hazard) Protect(p unsafe.Pointer) {
	h.slot.ptr.Store(uintptr(p))
}

// Unprotect withdraws the announcement made by the most recent Protect.
func (h *Hazard) Unprotect() {
	h.slot.ptr.Store(0)
}

// Release gives the slot back to the registry, making it available for a
// different goroutine to Acquire. Release is idempotent.
func (h *Hazard) Release() {
	if h.slot == nil {
		return
	}
	h.Unprotect()
	h.slot.owner.Store(nil)
	h.slot = nil
	runtime.SetFinalizer(h, nil)
}

// AcquireProtected loads target, protects the loaded address, and retries
// if target changed in between — the load-protect-verify loop needed
// because Protect and Load aren't a single atomic step.
func AcquireProtected[T any](h *Hazard, target *atomic.Pointer[T]) *T {
	for {
		p := target.Load()
		h.Protect(unsafe.Pointer(p))
		if p == target.Load() {
			return p
		}
	}
}
