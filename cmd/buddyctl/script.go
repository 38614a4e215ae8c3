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

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/buddyarena/arena"
)

// runScript reads line-oriented commands from r and drives a against
// them, writing a stats table to out after the script finishes.
//
// Commands:
//
//	alloc <size> [label]   allocate size bytes, optionally naming the handle
//	free <label>           free a previously labeled handle
//	stats                  print the current per-order stats table
//	# ...                  comment, ignored
//
// A free for a label that was already freed, or was never allocated,
// is reported as an error and aborts the script: the live-entries map
// only ever holds labels still outstanding, so the driver itself can't
// reproduce the off-by-one double-free that an index-shifting free
// loop would (see arena.Free's own stale-handle rejection for the
// allocator-level guard).
func runScript(a *arena.Arena, r io.Reader, out io.Writer) error {
	live := make(map[string]arena.BlockHandle)
	anonSeq := 0

	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]

		switch cmd {
		case "alloc":
			if len(fields) < 2 {
				return fmt.Errorf("line %d: alloc requires a size", lineNo)
			}
			size, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return fmt.Errorf("line %d: bad size %q: %w", lineNo, fields[1], err)
			}
			label := ""
			if len(fields) >= 3 {
				label = fields[2]
			} else {
				anonSeq++
				label = fmt.Sprintf("_%d", anonSeq)
			}
			h, ok := a.Alloc(size)
			if !ok {
				logInfo("line %d: alloc %d failed: arena exhausted at this order", lineNo, size)
				continue
			}
			live[label] = h
			logDebug("line %d: alloc %d -> %s @0x%x", lineNo, size, label, h.StartAddr())

		case "free":
			if len(fields) < 2 {
				return fmt.Errorf("line %d: free requires a label", lineNo)
			}
			label := fields[1]
			h, ok := live[label]
			if !ok {
				return fmt.Errorf("line %d: free %q: no live allocation with that label", lineNo, label)
			}
			if err := a.Free(h); err != nil {
				return fmt.Errorf("line %d: free %q: %w", lineNo, label, err)
			}
			delete(live, label)
			logDebug("line %d: free %s", lineNo, label)

		case "stats":
			if err := writeStats(out, a.Stats()); err != nil {
				return fmt.Errorf("line %d: stats: %w", lineNo, err)
			}

		default:
			return fmt.Errorf("line %d: unknown command %q", lineNo, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	if len(live) > 0 {
		logInfo("%d allocation(s) still live at end of script", len(live))
	}
	return writeStats(out, a.Stats())
}
