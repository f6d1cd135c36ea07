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

// Package cell holds Cell[T], an in-place holder for at most one T, used as
// the storage backing every queue slot in the queue package (spec.md §4.2).
//
// The C++ source backs this with an aligned byte buffer and manual
// placement-new/destroy calls, because C++ has no GC and a raw T field
// would force default-construction of T even while the cell is meant to be
// empty. Go's zero value already serves as "no live T" for almost every T a
// caller will use, and the runtime reclaims T's resources on assignment, so
// Cell collapses to a plain field plus an occupancy flag: the "aligned byte
// storage" ceases to be a distinct concept in a GC'd language (spec.md §9).
package cell

// Cell holds at most one live T, tracked by an explicit occupancy flag
// rather than by the type's own zero value, so T can legitimately be a
// "zero but occupied" value.
type Cell[T any] struct {
	val      T
	occupied bool
}

// HasValue reports whether the cell currently holds a value.
func (c *Cell[T]) HasValue() bool { return c.occupied }

// Construct stores v in the cell. It is a precondition violation to call
// this when the cell already holds a value; callers that can't guarantee
// emptiness should call Emplace instead.
func (c *Cell[T]) Construct(v T) {
	c.val = v
	c.occupied = true
}

// Emplace stores v in the cell, replacing any value already present.
// Go's assignment is always a "strong" replacement in the sense spec.md
// §4.2 cares about (it cannot partially fail), so there is only one code
// path here rather than the tiered (a)-(e) fallback the C++ source needs.
func (c *Cell[T]) Emplace(v T) {
	c.val = v
	c.occupied = true
}

// Destroy clears the cell. It is a no-op if the cell is already empty.
func (c *Cell[T]) Destroy() {
	if !c.occupied {
		return
	}
	var zero T
	c.val = zero
	c.occupied = false
}

// Get returns a reference to the held value. Behavior is defined only when
// HasValue() is true.
func (c *Cell[T]) Get() *T {
	return &c.val
}

// Steal moves the held value out, clearing the cell, and returns it.
// Behavior is defined only when HasValue() is true.
func (c *Cell[T]) Steal() T {
	v := c.val
	c.Destroy()
	return v
}
