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

// BlockHandle is a non-owning reference to a block, returned by Alloc
// and accepted by Free. It stays valid until passed to Free; the arena
// retains exclusive ownership of the block itself throughout.
type BlockHandle struct {
	index       int
	generation  uint32
	fingerprint uint64

	startAddr uint64
	order     int
}

// StartAddr returns the base address of the handle's block.
func (h BlockHandle) StartAddr() uint64 { return h.startAddr }

// Order returns the order of the handle's block.
func (h BlockHandle) Order() int { return h.order }

// Size returns the byte size of the handle's block: pageSize * 2^order.
func (h BlockHandle) Size(pageSize uint64) uint64 { return pageSize << uint(h.order) }
