/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// moodb loads a LambdaMOO-lineage database file, validates and (if
// necessary) upgrades its object graph, and optionally emits a fresh
// snapshot on the way out.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/dc0d/onexit"

	"github.com/launix-de/moodb/checkpoint"
	"github.com/launix-de/moodb/value"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: moodb [-shutdown-dump] <input-db-file> <output-db-file>")
}

func main() {
	var shutdownDump bool
	var positional []string
	for _, arg := range os.Args[1:] {
		if arg == "-shutdown-dump" {
			shutdownDump = true
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) != 2 {
		usage()
		os.Exit(1)
	}
	inputPath, outputPath := positional[0], positional[1]

	in, err := os.Open(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "moodb: cannot open %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	result, ok := checkpoint.Load(value.NewReader(in))
	in.Close()
	if !ok {
		fmt.Fprintf(os.Stderr, "moodb: %s failed to load\n", inputPath)
		os.Exit(1)
	}

	fmt.Printf("moodb: loaded %d objects from %s (format %d, upgraded=%v)\n",
		result.Table.Len(), inputPath, result.FormatVersion, result.WasUpgraded)

	cfg := &checkpoint.Config{Canonical: outputPath}

	var dumpOnce sync.Once
	dumpOnShutdown := func() {
		dumpOnce.Do(func() {
			ok := checkpoint.Dump(cfg, checkpoint.Shutdown, checkpoint.DumpInput{
				FormatVersion: checkpoint.DBVNextGen,
				Users:         result.Users,
				Table:         result.Table,
				Programs:      result.Programs,
				TaskQueue:     result.TaskQueue,
				Connections:   result.Connections,
			})
			if !ok {
				fmt.Fprintln(os.Stderr, "moodb: shutdown dump did not complete")
			}
		})
	}

	// A SIGTERM/SIGINT at any later point in the process still produces an
	// orderly SHUTDOWN dump (mirrors storage/settings.go's
	// onexit.Register use for flushing the trace file on exit).
	onexit.Register(dumpOnShutdown)

	if shutdownDump {
		dumpOnShutdown()
	}
}
