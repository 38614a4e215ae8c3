/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package slab is a GC-friendly, index-addressed store for values of a
// single type. Values live in one backing slice and are referenced by a
// stable int index rather than a pointer, so a graph of values (parent,
// buddy, sibling links) can be expressed as plain ints with no GC scan
// cost and no risk of a dangling pointer outliving its owner.
//
// Unlike a fixed-size ring, slots can be freed and reused: Delete pushes
// the slot onto a free list, and the next Alloc pops from it before
// growing the backing slice.
package slab

// Slab stores values of type V, indexed by int.
type Slab[V any] struct {
	items []V
	free  []int
}

// New creates an empty Slab.
func New[V any]() *Slab[V] {
	return &Slab[V]{}
}

// Alloc reserves a slot and returns its index. A reused slot (one
// previously passed to Delete) still holds whatever value it last held;
// Alloc does not clear it. This is deliberate: callers that stamp a
// generation counter into V need to see the slot's previous value
// before overwriting it, to bump the counter rather than reset it. A
// freshly grown slot holds V's zero value.
func (s *Slab[V]) Alloc() int {
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		return i
	}
	var zero V
	s.items = append(s.items, zero)
	return len(s.items) - 1
}

// Get returns a pointer to the value at i. The pointer is valid until i
// is passed to Delete or until an Alloc grows the backing slice (which
// may move it); callers must not retain it past either point.
func (s *Slab[V]) Get(i int) *V {
	return &s.items[i]
}

// Delete releases the slot at i for reuse by a future Alloc. It does not
// shrink the backing slice.
func (s *Slab[V]) Delete(i int) {
	s.free = append(s.free, i)
}

// Len returns the number of slots ever allocated, including ones
// released by Delete (i.e. the backing slice's length, not the live
// count).
func (s *Slab[V]) Len() int {
	return len(s.items)
}
