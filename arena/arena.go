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

// Package arena implements a binary buddy allocator over a flat,
// abstract address range. No real memory is touched: the arena only
// tracks which power-of-two sub-ranges of
// [StartAddr, StartAddr + PageSize*2^MaxOrder) are free or in use.
//
// The arena is single-threaded. A caller that needs to share one Arena
// across goroutines should wrap it in a single mutex; the allocator has
// no internal parallelism worth exploiting.
package arena

import (
	"fmt"
	"math/bits"

	"github.com/cloudwego/buddyarena/arena/internal/slab"
)

// Config holds the immutable parameters of an Arena.
type Config struct {
	// MaxOrder is the highest order the arena manages; the arena spans
	// PageSize * 2^MaxOrder bytes.
	MaxOrder int
	// PageSize is the size, in bytes, of an order-0 block. Must be a
	// positive power of two.
	PageSize uint64
	// StartAddr is the base address of the managed range.
	StartAddr uint64
}

// Arena owns every live block and the per-order free/used containers
// for one managed address range.
type Arena struct {
	cfg         Config
	shiftCount  uint
	fingerprint uint64

	blocks   *slab.Slab[block]
	orderIdx []orderIndex

	rootIndex int
}

// New validates cfg and constructs an Arena with a single free root
// block spanning the whole managed range.
func New(cfg Config) (*Arena, error) {
	if cfg.PageSize == 0 || cfg.PageSize&(cfg.PageSize-1) != 0 {
		return nil, fmt.Errorf("%w: page size must be a power of two, got %d", ErrConfig, cfg.PageSize)
	}
	if cfg.MaxOrder < 0 {
		return nil, fmt.Errorf("%w: max order must be >= 0, got %d", ErrConfig, cfg.MaxOrder)
	}

	a := &Arena{
		cfg:         cfg,
		shiftCount:  uint(bits.TrailingZeros64(cfg.PageSize)),
		fingerprint: fingerprintFor(cfg),
		blocks:      slab.New[block](),
		orderIdx:    make([]orderIndex, cfg.MaxOrder+1),
	}
	for k := range a.orderIdx {
		a.orderIdx[k] = newOrderIndex()
	}

	rootIdx := a.blocks.Alloc()
	root := a.blocks.Get(rootIdx)
	*root = block{
		startAddr: cfg.StartAddr,
		order:     cfg.MaxOrder,
		state:     stateFree,
		buddy:     noIndex,
		parent:    noIndex,
		prev:      noIndex,
		next:      noIndex,
	}
	a.rootIndex = rootIdx
	a.orderIdx[cfg.MaxOrder].pushFree(a.blocks, rootIdx)

	return a, nil
}

// Alloc returns a handle to a block of at least size bytes, or
// ok=false if the arena is exhausted at the order size demands.
func (a *Arena) Alloc(size uint64) (h BlockHandle, ok bool) {
	k := orderForSize(size, a.cfg.PageSize)
	idx, ok := a.allocAt(k)
	if !ok {
		return BlockHandle{}, false
	}
	b := a.blocks.Get(idx)
	return BlockHandle{
		index:       idx,
		generation:  b.generation,
		fingerprint: a.fingerprint,
		startAddr:   b.startAddr,
		order:       b.order,
	}, true
}

// allocAt returns a used block of order k, splitting a higher-order
// block if none is free at k already.
func (a *Arena) allocAt(k int) (int, bool) {
	if k > a.cfg.MaxOrder {
		return 0, false
	}
	oi := &a.orderIdx[k]
	if oi.freeCount > 0 {
		idx := oi.freeHead
		oi.removeFree(a.blocks, idx)
		b := a.blocks.Get(idx)
		b.state = stateUsed
		oi.pushUsed(a.blocks, idx)
		return idx, true
	}

	parentIdx, ok := a.allocAt(k + 1)
	if !ok {
		return 0, false
	}
	// allocAt(k+1) already moved parentIdx into the used container at
	// k+1; it must come back out before the split, so it is never
	// double-counted as both used (at k+1) and split.
	a.orderIdx[k+1].removeUsed(a.blocks, parentIdx)

	_, high := a.split(parentIdx)

	// Deterministic choice (spec: "any choice is correct... the source
	// returns the high-address half"): take the high-address child.
	a.orderIdx[k].removeFree(a.blocks, high)
	hb := a.blocks.Get(high)
	hb.state = stateUsed
	a.orderIdx[k].pushUsed(a.blocks, high)
	return high, true
}

// split replaces the block at parentIdx (order k) with two children at
// order k-1, both inserted into order_index[k-1].free. The parent
// itself is not deleted: it is marked Split and stays in the slab,
// referenced by both children's parent field, so that coalescing it
// back later needs no special "reassemble a fresh root" case (spec
// §9's root-reassembly gap does not arise here).
func (a *Arena) split(parentIdx int) (low, high int) {
	p := a.blocks.Get(parentIdx)
	childOrder := p.order - 1
	childSize := a.cfg.PageSize << uint(childOrder) // NOT pageSize*childOrder (source bug, see SPEC_FULL.md §9)
	parentStart := p.startAddr

	lowIdx := a.blocks.Alloc()
	highIdx := a.blocks.Alloc()

	lb := a.blocks.Get(lowIdx)
	*lb = block{
		startAddr:  parentStart,
		order:      childOrder,
		state:      stateFree,
		generation: lb.generation + 1,
		buddy:      highIdx,
		parent:     parentIdx,
		prev:       noIndex,
		next:       noIndex,
	}
	hb := a.blocks.Get(highIdx)
	*hb = block{
		startAddr:  parentStart + childSize,
		order:      childOrder,
		state:      stateFree,
		generation: hb.generation + 1,
		buddy:      lowIdx,
		parent:     parentIdx,
		prev:       noIndex,
		next:       noIndex,
	}

	// re-fetch p: Alloc() on a grown slab may have reallocated the
	// backing array, invalidating the earlier pointer.
	p = a.blocks.Get(parentIdx)
	p.state = stateSplit

	a.orderIdx[childOrder].pushFree(a.blocks, lowIdx)
	a.orderIdx[childOrder].pushFree(a.blocks, highIdx)
	return lowIdx, highIdx
}

// Free returns handle's block to the arena, coalescing it with its
// buddy (and cascading up) whenever both become free.
func (a *Arena) Free(h BlockHandle) error {
	if h.fingerprint != a.fingerprint {
		return fmt.Errorf("%w: handle belongs to a different arena", ErrInvalidFree)
	}
	if h.index < 0 || h.index >= a.blocks.Len() {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidFree, h.index)
	}
	b := a.blocks.Get(h.index)
	if b.state != stateUsed || b.generation != h.generation {
		return fmt.Errorf("%w: block at index %d is not a live used block (double free or stale handle)", ErrInvalidFree, h.index)
	}
	a.orderIdx[b.order].removeUsed(a.blocks, h.index)
	a.settle(h.index)
	return nil
}

// settle places a block that is logically "just freed" and not
// currently in any container: either back into its order's free list,
// or — if its buddy is also free — coalesced away with the reinstated
// parent settled in turn. This is spec §4.5's recursive free, with the
// "remove from used" step already done by the caller (Free, or the
// previous settle level for a cascading coalesce).
func (a *Arena) settle(idx int) {
	b := a.blocks.Get(idx)
	order := b.order

	buddyIdx := b.buddy
	if buddyIdx == noIndex {
		b.state = stateFree
		a.orderIdx[order].pushFree(a.blocks, idx)
		return
	}

	buddy := a.blocks.Get(buddyIdx)
	if buddy.state != stateFree {
		b.state = stateFree
		a.orderIdx[order].pushFree(a.blocks, idx)
		return
	}

	// Buddy is free: coalesce. Capture parent before destroying either
	// child (spec §9 flags a use-after-free bug in the source from
	// dereferencing a freed block's parent field after destruction).
	parentIdx := b.parent
	a.orderIdx[order].removeFree(a.blocks, buddyIdx)

	b.state = stateDestroyed
	buddy.state = stateDestroyed
	a.blocks.Delete(idx)
	a.blocks.Delete(buddyIdx)

	// parentIdx is never noIndex here: every non-root block has a
	// parent (spec §3), and only a root (buddy == noIndex) could lack
	// one — already handled above. The parent block was never deleted
	// when it was split (see split, above), so reinstating it needs no
	// "fabricate a fresh root" special case (spec §9's open question).
	a.settle(parentIdx)
}

// Destroy releases every block and the order_index table. The arena
// must not be used afterward.
func (a *Arena) Destroy() {
	a.blocks = nil
	a.orderIdx = nil
}
