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

import "github.com/cloudwego/buddyarena/arena/internal/slab"

// orderIndex is the free/used container pair for one order: two
// intrusive doubly linked lists threaded through block.prev/block.next,
// each with a head index (noIndex when empty) and a count kept in sync
// with the list's true length. Insert, pick-one (the head), and
// remove-by-index are all O(1), with no index-shift bug to get wrong.
type orderIndex struct {
	freeHead  int
	freeCount int
	usedHead  int
	usedCount int
}

func newOrderIndex() orderIndex {
	return orderIndex{freeHead: noIndex, usedHead: noIndex}
}

func listPush(blocks *slab.Slab[block], head *int, count *int, idx int) {
	b := blocks.Get(idx)
	b.prev = noIndex
	b.next = *head
	if *head != noIndex {
		blocks.Get(*head).prev = idx
	}
	*head = idx
	*count++
}

func listRemove(blocks *slab.Slab[block], head *int, count *int, idx int) {
	b := blocks.Get(idx)
	if b.prev != noIndex {
		blocks.Get(b.prev).next = b.next
	} else {
		*head = b.next
	}
	if b.next != noIndex {
		blocks.Get(b.next).prev = b.prev
	}
	b.prev, b.next = noIndex, noIndex
	*count--
}

func (oi *orderIndex) pushFree(blocks *slab.Slab[block], idx int) {
	listPush(blocks, &oi.freeHead, &oi.freeCount, idx)
}

func (oi *orderIndex) removeFree(blocks *slab.Slab[block], idx int) {
	listRemove(blocks, &oi.freeHead, &oi.freeCount, idx)
}

func (oi *orderIndex) pushUsed(blocks *slab.Slab[block], idx int) {
	listPush(blocks, &oi.usedHead, &oi.usedCount, idx)
}

func (oi *orderIndex) removeUsed(blocks *slab.Slab[block], idx int) {
	listRemove(blocks, &oi.usedHead, &oi.usedCount, idx)
}
