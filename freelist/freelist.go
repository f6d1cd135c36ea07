// Copyright 2023 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package freelist holds the fixed-capacity, index-linked, ABA-safe
// lock-free LIFO spec.md §4.5 describes. It backs both the hazard
// package's retire-node pool and its in-flight retire list (two List
// values sharing one Nodes array, exactly as spec.md's "e.g. a retire list
// and a free-slot list" example describes) and the mempool package's
// per-size-class free lists.
package freelist

import (
	"sync/atomic"

	"github.com/flowcore/flowcore/cell"
)

// Empty is the sentinel index meaning "no node". It is the maximum uint32,
// not the node count N, so the same value serves every Nodes array
// regardless of its size.
const Empty uint32 = ^uint32(0)

// Nodes is a fixed array of N index-linked nodes, each capable of holding
// one T. It is shared by one or more List values: a node belongs to at
// most one list at a time, and ownership transfers via Pop/Push, never by
// copying.
type Nodes[T any] struct {
	next []uint32
	val  []cell.Cell[T]
}

// NewNodes allocates storage for n nodes, all initially unlinked (callers
// typically immediately chain them onto a List with NewFreeList).
func NewNodes[T any](n uint32) *Nodes[T] {
	return &Nodes[T]{
		next: make([]uint32, n),
		val:  make([]cell.Cell[T], n),
	}
}

// Len returns the node capacity.
func (n *Nodes[T]) Len() uint32 { return uint32(len(n.next)) }

// Cell returns the cell backing node idx, for the current owner of that
// node to Construct/Destroy/Get/Steal.
func (n *Nodes[T]) Cell(idx uint32) *cell.Cell[T] { return &n.val[idx] }

// Next returns the index node idx currently points to (valid only while
// idx is unlinked from every List, i.e. between Pop/DetachAll and the
// following Push).
func (n *Nodes[T]) Next(idx uint32) uint32 { return n.next[idx] }

// SetNext overwrites node idx's link. Same ownership rule as Next.
func (n *Nodes[T]) SetNext(idx uint32, next uint32) { n.next[idx] = next }

// pack packs a (generation, index) pair into a single uint64: the
// high 32 bits are the generation, rotated on every successful CAS to
// defeat ABA on the index's reuse; the low 32 bits are the node index, or
// Empty. Spec.md §4.5 requires this be a single atomic word, not a
// pointer-plus-counter pair, so that a single CAS updates both fields
// atomically.
func pack(generation, index uint32) uint64 {
	return uint64(generation)<<32 | uint64(index)
}

func unpack(word uint64) (generation, index uint32) {
	return uint32(word >> 32), uint32(word)
}

// List is one lock-free LIFO list of node indices, threaded through a
// shared Nodes array.
type List struct {
	head atomic.Uint64
}

// NewEmptyList returns a List whose head is the empty sentinel.
func NewEmptyList() *List {
	l := &List{}
	l.head.Store(pack(0, Empty))
	return l
}

// Push links idx onto the front of the list.
func (l *List) Push(nodes linker, idx uint32) {
	for {
		old := l.head.Load()
		gen, headIdx := unpack(old)
		nodes.SetNext(idx, headIdx)
		newWord := pack(gen+1, idx)
		if l.head.CompareAndSwap(old, newWord) {
			return
		}
	}
}

// Pop unlinks and returns the node at the front of the list. It reports
// false if the list is empty.
func (l *List) Pop(nodes linker) (uint32, bool) {
	for {
		old := l.head.Load()
		gen, idx := unpack(old)
		if idx == Empty {
			return Empty, false
		}
		next := nodes.Next(idx)
		newWord := pack(gen+1, next)
		if l.head.CompareAndSwap(old, newWord) {
			return idx, true
		}
	}
}

// DetachAll atomically swaps the whole list out for empty, returning the
// index of what was the head (Empty if the list was already empty). This
// is the "detach retire list atomically" operation spec.md §4.6 names for
// sweep_and_reclaim: the caller walks the detached chain with nodes'
// next-index links without racing any concurrent Push.
func (l *List) DetachAll() uint32 {
	for {
		old := l.head.Load()
		gen, idx := unpack(old)
		newWord := pack(gen+1, Empty)
		if l.head.CompareAndSwap(old, newWord) {
			return idx
		}
	}
}

// linker is the minimal interface List needs from a Nodes array, letting
// List stay independent of the element type T.
type linker interface {
	Next(idx uint32) uint32
	SetNext(idx uint32, next uint32)
}

// FreeList bundles a Nodes array with a single List acting as the pool of
// currently-unused node indices — the canonical shape spec.md §4.5
// describes end to end.
type FreeList[T any] struct {
	Nodes *Nodes[T]
	free  *List
}

// NewFreeList allocates n nodes and chains all of them onto the free list.
func NewFreeList[T any](n uint32) *FreeList[T] {
	fl := &FreeList[T]{
		Nodes: NewNodes[T](n),
		free:  NewEmptyList(),
	}
	for i := uint32(0); i < n; i++ {
		fl.free.Push(fl.Nodes, i)
	}
	return fl
}

// Acquire pops a free node index and returns its cell for the caller to
// construct into. It reports false if the pool is exhausted.
func (fl *FreeList[T]) Acquire() (idx uint32, c *cell.Cell[T], ok bool) {
	idx, ok = fl.free.Pop(fl.Nodes)
	if !ok {
		return Empty, nil, false
	}
	return idx, fl.Nodes.Cell(idx), true
}

// Release destroys node idx's cell and returns the node to the free list.
func (fl *FreeList[T]) Release(idx uint32) {
	fl.Nodes.Cell(idx).Destroy()
	fl.free.Push(fl.Nodes, idx)
}
