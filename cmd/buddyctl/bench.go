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
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/cloudwego/buddyarena/arena"
	"github.com/cloudwego/buddyarena/concurrency/gopool"
)

// benchConfig controls a bench run: workers independent Arenas, each
// driven by its own goroutine for ops allocate-or-free cycles.
type benchConfig struct {
	workers  int
	ops      int
	maxOrder int
	pageSize uint64
	seed     int64
}

// runBench fans benchConfig.workers independent Arenas out across
// gopool, aggregating their final per-order stats. Every Arena is
// touched by exactly one goroutine for its whole lifetime: bench
// parallelizes ACROSS arenas, never operations within one, preserving
// the single-threaded-core contract of arena.Arena.
func runBench(cfg benchConfig, out io.Writer) error {
	totals := make([]arena.OrderStats, cfg.maxOrder+1)
	for k := range totals {
		totals[k].Order = k
	}
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for w := 0; w < cfg.workers; w++ {
		w := w
		gopool.CtxGo(context.Background(), func() {
			defer wg.Done()
			stats, err := runBenchWorker(cfg, w)
			if err != nil {
				logError("worker %d: %v", w, err)
				return
			}
			mu.Lock()
			for k, s := range stats {
				totals[k].FreeCount += s.FreeCount
				totals[k].UsedCount += s.UsedCount
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	fmt.Fprintf(out, "aggregated stats across %d workers:\n", cfg.workers)
	return writeStats(out, totals)
}

func runBenchWorker(cfg benchConfig, workerID int) ([]arena.OrderStats, error) {
	a, err := arena.New(arena.Config{MaxOrder: cfg.maxOrder, PageSize: cfg.pageSize})
	if err != nil {
		return nil, err
	}
	defer a.Destroy()

	rng := rand.New(rand.NewSource(cfg.seed + int64(workerID)))
	var live []arena.BlockHandle

	for i := 0; i < cfg.ops; i++ {
		if len(live) > 0 && rng.Intn(2) == 0 {
			j := rng.Intn(len(live))
			if err := a.Free(live[j]); err != nil {
				return nil, fmt.Errorf("worker %d: free: %w", workerID, err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		order := rng.Intn(cfg.maxOrder + 1)
		size := cfg.pageSize << uint(order)
		if h, ok := a.Alloc(size); ok {
			live = append(live, h)
		}
	}

	return a.Stats(), nil
}
