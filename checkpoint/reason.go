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

// Package checkpoint implements the snapshot writer and checkpoint
// orchestrator: dump naming, the fork/goroutine split for CHECKPOINT dumps,
// crash-safe temp-file-then-rename, and the retry policy (spec.md §4.5).
package checkpoint

// Reason names why a dump is being written (spec.md §4.5).
type Reason int

const (
	Shutdown Reason = iota
	Checkpoint
	Panic
)

func (r Reason) String() string {
	switch r {
	case Shutdown:
		return "SHUTDOWN"
	case Checkpoint:
		return "CHECKPOINT"
	case Panic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}
