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

// Command buddyctl drives an arena.Arena from the command line, either
// by replaying a script of alloc/free commands or by running a
// concurrent multi-arena benchmark.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cloudwego/buddyarena/arena"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "bench":
		benchCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: buddyctl <run|bench> [flags]")
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	maxOrder := fs.Int("max-order", 10, "highest order the arena manages")
	pageSize := fs.Uint64("page-size", 4096, "order-0 block size in bytes")
	script := fs.String("script", "", "path to a script file; stdin if empty")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Parse(args)

	if *debug {
		currentLogLevel = logLevelDebug
	}

	a, err := arena.New(arena.Config{MaxOrder: *maxOrder, PageSize: *pageSize})
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	defer a.Destroy()

	in := os.Stdin
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			logError("%v", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := runScript(a, in, os.Stdout); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

func benchCmd(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	workers := fs.Int("workers", 8, "number of independent arenas to run concurrently")
	ops := fs.Int("ops", 10000, "allocate/free operations per worker")
	maxOrder := fs.Int("max-order", 10, "highest order each arena manages")
	pageSize := fs.Uint64("page-size", 4096, "order-0 block size in bytes")
	seed := fs.Int64("seed", 1, "base random seed")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Parse(args)

	if *debug {
		currentLogLevel = logLevelDebug
	}

	cfg := benchConfig{
		workers:  *workers,
		ops:      *ops,
		maxOrder: *maxOrder,
		pageSize: *pageSize,
		seed:     *seed,
	}
	if err := runBench(cfg, os.Stdout); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}
