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

import "errors"

var (
	// ErrConfig is returned by New when the constructor arguments are
	// invalid (page size not a power of two, negative max order, ...).
	ErrConfig = errors.New("arena: invalid config")

	// ErrInvalidFree is returned by (*Arena).Free when the handle does
	// not correspond to a block currently held in the used container of
	// its order, or was issued by a different Arena.
	ErrInvalidFree = errors.New("arena: invalid free")
)
