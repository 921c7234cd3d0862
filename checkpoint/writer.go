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
package checkpoint

import (
	"fmt"
	"os"
	"time"

	units "github.com/docker/go-units"

	"github.com/launix-de/moodb/objdb"
	"github.com/launix-de/moodb/value"
)

// DumpInput bundles everything one dump needs to write a complete file.
// Table must already be in the current (next-gen) layout — the orchestrator
// upgrades before dumping, it never dumps the legacy layout (spec.md §4.4).
type DumpInput struct {
	FormatVersion int
	Users         []objdb.Objid
	Table         *objdb.Table
	Programs      []ProgramRecord
	TaskQueue     []byte
	Connections   []byte
}

func writeSections(c *value.Context, in DumpInput) {
	writeHeader(c, Header{
		FormatVersion: in.FormatVersion,
		NObjs:         int64(in.Table.Len()),
		NPrograms:     int64(len(in.Programs)),
		Users:         in.Users,
	})
	objdb.WriteCurrentObjects(c, in.Table)
	writePrograms(c, in.Programs)
	writeBlobSection(c, in.TaskQueue)
	writeBlobSection(c, in.Connections)
}

// Dump writes in to cfg.Canonical for the given reason, following the
// naming/forking/retry policy of spec.md §4.5. It returns true once a dump
// has been durably installed (or, for a forked CHECKPOINT, once the write
// has been handed off — the fork contract is "parent returns immediately",
// spec.md §5).
func Dump(cfg *Config, reason Reason, in DumpInput) bool {
	if reason == Checkpoint && !cfg.Unforked {
		frozen := in.Table.Snapshot()
		in.Table = frozen
		go func() {
			id := newCorrelationID()
			ok, _ := attemptDump(cfg, reason, in, id)
			logDumpOutcome(id.String(), reason, ok)
		}()
		return true
	}
	return runUntilSuccess(cfg, reason, in)
}

// runUntilSuccess implements the retry policy: CHECKPOINT never retries
// (abandon and return failure); SHUTDOWN and PANIC retry forever with
// cfg.backoff() between attempts after a retryable failure (spec.md §4.5
// step 3). An open or rename failure returns false at once for every reason.
func runUntilSuccess(cfg *Config, reason Reason, in DumpInput) bool {
	for {
		id := newCorrelationID()
		ok, retryable := attemptDump(cfg, reason, in, id)
		logDumpOutcome(id.String(), reason, ok)
		if ok {
			return true
		}
		if !retryable || reason == Checkpoint {
			return false
		}
		time.Sleep(cfg.backoff())
	}
}

// attemptDump runs one full write-sequence attempt (spec.md §4.5 steps
// 1-5). retryable is only meaningful when ok is false: true means a
// SHUTDOWN/PANIC dump failed while writing, syncing or closing the temp file
// and should retry; false means an open or rename failure, which never
// retries regardless of reason, or any failure of a CHECKPOINT dump.
func attemptDump(cfg *Config, reason Reason, in DumpInput, id fmt.Stringer) (ok bool, retryable bool) {
	tempName := cfg.nextTempName(reason)

	f, err := os.Create(tempName)
	if err != nil {
		fmt.Printf("checkpoint[%s]: open %s failed: %v\n", id, tempName, err)
		return false, false
	}

	c := value.NewWriter(f)
	// Flush must run inside the catch: Context buffers into a 64KiB
	// bufio.Writer, so for any dump smaller than that the underlying file
	// write — and any real I/O error — doesn't happen until Flush, which
	// raises dbio_failed exactly like the buffered Write* calls do.
	wroteOK := value.Catch(func() {
		writeSections(c, in)
		c.Flush()
	})
	if wroteOK {
		if err := f.Sync(); err != nil {
			wroteOK = false
		}
	}
	if !wroteOK {
		f.Close()
		_ = os.Remove(tempName)
		fmt.Printf("checkpoint[%s]: %s dump failed mid-write, removed %s\n", id, reason, tempName)
		if reason == Checkpoint {
			return false, false
		}
		return false, true
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempName)
		fmt.Printf("checkpoint[%s]: close %s failed: %v\n", id, tempName, err)
		if reason == Checkpoint {
			return false, false
		}
		return false, true
	}

	if reason != Panic {
		_ = os.Remove(cfg.Canonical)
		if err := os.Rename(tempName, cfg.Canonical); err != nil {
			fmt.Printf("checkpoint[%s]: rename %s -> %s failed: %v\n", id, tempName, cfg.Canonical, err)
			return false, false
		}
	}

	fmt.Printf("checkpoint[%s]: %s dump wrote %s (%s)\n", id, reason, tempName, units.HumanSize(float64(c.BytesWritten())))
	return true, false
}

func logDumpOutcome(id string, reason Reason, ok bool) {
	if ok {
		fmt.Printf("checkpoint[%s]: %s dump succeeded\n", id, reason)
		return
	}
	fmt.Printf("checkpoint[%s]: %s dump abandoned\n", id, reason)
}
