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

import (
	"fmt"
	"sync/atomic"

	"github.com/cloudwego/buddyarena/hash/xfnv"
)

// instanceSeq disambiguates two Arenas constructed with identical
// Config values, so their fingerprints never collide.
var instanceSeq uint64

// fingerprintFor computes the instance fingerprint embedded in every
// BlockHandle an Arena issues. Free rejects a handle whose fingerprint
// doesn't match its own, catching a handle passed to the wrong Arena
// (spec's double-free detection hardened to cross-instance misuse too).
func fingerprintFor(cfg Config) uint64 {
	seq := atomic.AddUint64(&instanceSeq, 1)
	return xfnv.HashStr(fmt.Sprintf("%d:%d:%d:%d", cfg.MaxOrder, cfg.PageSize, cfg.StartAddr, seq))
}
