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
	"fmt"
	"io"

	"github.com/cloudwego/buddyarena/arena"
	"github.com/cloudwego/buddyarena/bufiox"
)

// writeStats renders a per-order stats table to w via a bufiox writer,
// one Malloc'd line at a time, instead of building the whole report in
// a scratch string first.
func writeStats(w io.Writer, stats []arena.OrderStats) error {
	bw := bufiox.NewDefaultWriter(w)

	header := fmt.Sprintf("%-6s %-10s %-10s\n", "order", "free", "used")
	if err := writeLine(bw, header); err != nil {
		return err
	}
	for _, s := range stats {
		line := fmt.Sprintf("%-6d %-10d %-10d\n", s.Order, s.FreeCount, s.UsedCount)
		if err := writeLine(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(bw *bufiox.DefaultWriter, line string) error {
	buf, err := bw.Malloc(len(line))
	if err != nil {
		return err
	}
	copy(buf, line)
	return nil
}
