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

	"github.com/launix-de/moodb/objdb"
	"github.com/launix-de/moodb/value"
)

// LoadResult is the fully materialized world produced by Load: a current-
// layout table regardless of the input's on-disk version (legacy inputs are
// upgraded before Load returns, spec.md §4.4), plus the sections this
// package passes through opaque.
type LoadResult struct {
	FormatVersion int
	Users         []objdb.Objid
	Table         *objdb.Table
	Programs      []ProgramRecord
	TaskQueue     []byte
	Connections   []byte
	WasUpgraded   bool
}

// Load runs the full load orchestration of spec.md §2's control flow: read
// header, select layout by version, read objects, validate, read programs
// and the opaque tail sections, and upgrade if the input was legacy. It
// returns ok=false on any parse error, validator abort, or stream failure —
// never a partial LoadResult (spec.md §7: "a failed load leaves the VM
// uninitialized").
func Load(c *value.Context) (result LoadResult, ok bool) {
	ok = value.Catch(func() {
		h := readHeader(c)
		result.FormatVersion = h.FormatVersion
		result.Users = h.Users

		var legacy *objdb.LegacyTable
		if h.FormatVersion < DBVNextGen {
			legacy = objdb.NewLegacyTable()
			objdb.ReadLegacyObjects(c, legacy, h.NObjs)
			if broken := objdb.ValidateLegacy(legacy); broken {
				value.Fail(fmt.Errorf("legacy object graph failed validation"))
			}
		} else {
			cur := objdb.NewTable()
			objdb.ReadCurrentObjects(c, cur, h.NObjs)
			if broken := objdb.ValidateCurrent(cur); broken {
				value.Fail(fmt.Errorf("object graph failed validation"))
			}
			result.Table = cur
		}

		result.Programs = readPrograms(c, h.NPrograms)
		result.TaskQueue = readBlobSection(c)
		result.Connections = readBlobSection(c)

		if legacy != nil {
			result.Table = objdb.Upgrade(legacy)
			result.WasUpgraded = true
		}
	})
	if !ok {
		result = LoadResult{}
	}
	return result, ok
}
