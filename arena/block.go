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

package arena

import "math/bits"

// blockState mirrors the block state machine: a block is Free or Used
// in exactly one OrderIndex container, Split while its two children
// exist in its place, or Destroyed once coalesced away.
type blockState uint8

const (
	stateFree blockState = iota
	stateUsed
	stateSplit
	stateDestroyed
)

// noIndex marks the absence of a buddy, parent, or list neighbor.
const noIndex = -1

// block is one contiguous sub-range of the arena's address space at a
// given order. buddy and parent are slab indices rather than pointers
// (see arena/internal/slab): the family graph is cyclic (buddies point
// at each other, children point at their parent) and expressing it with
// stable integers keeps ownership exclusively with the arena's slab.
//
// prev/next thread the block through whichever OrderIndex container
// (free or used) currently holds it; they are meaningless while the
// block is Split or Destroyed.
type block struct {
	startAddr  uint64
	order      int
	state      blockState
	generation uint32

	buddy  int
	parent int

	prev int
	next int
}

// orderForSize computes the smallest order k such that
// pageSize * 2^k >= size: the ceiling-log definition of spec §4.2,
// not the source's `size >> shift_count` page-count shortcut (which
// would treat size as a page count rather than a byte count). That
// convention is deliberately not preserved here; see DESIGN.md /
// SPEC_FULL.md §9 for the resolution.
func orderForSize(size, pageSize uint64) int {
	if size == 0 {
		size = 1
	}
	pages := (size + pageSize - 1) / pageSize
	if pages <= 1 {
		return 0
	}
	return bits.Len64(pages - 1)
}
