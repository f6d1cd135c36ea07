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

// Package task holds TaskWrapper, the type-erased void() invocable that
// flow control nodes hand to an Executor, and Callable[R], its
// value-returning counterpart (spec.md §4.3).
//
// The C++ source distinguishes inline small-buffer storage from a heap
// fallback, selected at compile time by the size/alignment/move-capability
// of the stored closure, with a four-pointer vtable for copy/move/destroy/
// run. Go closures are always heap-escaping reference values already managed
// by the GC, so there is no SBO-vs-heap distinction left to make (spec.md
// §9's "collapses to conditional trait implementations" note, taken to its
// Go conclusion: there is nothing left to collapse into an enum, because Go
// never had the inline-buffer case to begin with). What survives is the
// rest of the vtable's *contract*: a TaskWrapper is move-only by default,
// copy is only available when the caller explicitly supplies a cloning
// function, and running it is idempotent-safe only once.
package task

import "github.com/flowcore/flowcore/result"

// Wrapper is a type-erased, move-only, nullary, non-panicking invocable.
// The zero Wrapper is empty.
type Wrapper struct {
	run  func()
	copy func() func()
}

// New wraps f as a non-copyable Wrapper.
func New(f func()) Wrapper {
	return Wrapper{run: f}
}

// NewCopyable wraps f as a Wrapper that can be copied; clone must produce a
// fresh, independently-runnable func() each time it's called (mirroring the
// vtable's copy_construct slot, spec.md §4.3).
func NewCopyable(f func(), clone func() func()) Wrapper {
	return Wrapper{run: f, copy: clone}
}

// IsEmpty reports whether the wrapper holds no invocable.
func (w *Wrapper) IsEmpty() bool { return w.run == nil }

// Emplace installs f, destroying whatever the wrapper held before.
func (w *Wrapper) Emplace(f func()) {
	w.run = f
	w.copy = nil
}

// EmplaceCopyable installs f with an explicit clone function.
func (w *Wrapper) EmplaceCopyable(f func(), clone func() func()) {
	w.run = f
	w.copy = clone
}

// Clear destroys the held invocable, if any.
func (w *Wrapper) Clear() {
	w.run = nil
	w.copy = nil
}

// Run invokes the stored invocable exactly once. Calling Run on an empty
// wrapper is a no-op, matching the "vtable pointer null" empty state rather
// than panicking on a caller's behalf.
func (w *Wrapper) Run() {
	if w.run != nil {
		w.run()
	}
}

// Swap exchanges the contents of w and other.
func (w *Wrapper) Swap(other *Wrapper) {
	*w, *other = *other, *w
}

// Move returns a new Wrapper holding whatever w held, and empties w. This
// is the Go rendition of the C++ source's safe_relocate: always succeeds,
// always leaves the source empty.
func (w *Wrapper) Move() Wrapper {
	out := *w
	w.run = nil
	w.copy = nil
	return out
}

// Copy returns an independent copy of w. It returns result.ErrNotCopyable
// if w was constructed with New instead of NewCopyable — the Go rendition
// of the vtable's nil copy_construct slot (spec.md §4.3, §7).
func (w *Wrapper) Copy() (Wrapper, error) {
	if w.run == nil {
		return Wrapper{}, nil
	}
	if w.copy == nil {
		return Wrapper{}, result.ErrNotCopyable
	}
	return Wrapper{run: w.copy(), copy: w.copy}, nil
}
