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

// DBVNextGen is the format-version threshold at which the on-disk layout
// switches from legacy intrusive chains to list-valued relations (spec.md
// GLOSSARY). Versions below it load through the legacy reader and upgrader;
// versions at or above it load directly into the current layout.
const DBVNextGen = 17

const headerPrefix = "** LambdaMOO Database, Format Version "
const headerSuffix = " **"

// Header carries the fixed-format preamble and section counts common to
// both layouts (spec.md §6).
type Header struct {
	FormatVersion int
	NObjs         int64
	NPrograms     int64
	NUsers        int64
	Users         []objdb.Objid
}

func writeHeaderLine(c *value.Context, version int) {
	c.WriteLine(fmt.Sprintf("%s%d%s", headerPrefix, version, headerSuffix))
}

// readHeader reads the format line and the nobjs/nprogs/0/nusers/user-list
// block (spec.md §6). The literal "0" placeholder between nprogs and nusers
// is a reserved count the original format carries but never used; it is
// read and discarded rather than rejected, matching the original's
// tolerance for it. The format line is the one genuinely scanf-shaped read
// in this file format (spec.md §4.1's "scanf-formatted line"), so it goes
// through Context.ReadScanf rather than a hand-rolled prefix/suffix trim.
func readHeader(c *value.Context) Header {
	var version int
	c.ReadScanf(headerPrefix+"%d"+headerSuffix, &version)

	h := Header{FormatVersion: version}
	h.NObjs = c.ReadInt()
	h.NPrograms = c.ReadInt()
	_ = c.ReadInt() // reserved, always 0
	h.NUsers = c.ReadInt()
	if h.NObjs < 0 {
		value.Fail(fmt.Errorf("negative nobjs %d", h.NObjs))
	}
	if h.NPrograms < 0 {
		value.Fail(fmt.Errorf("negative nprograms %d", h.NPrograms))
	}
	if h.NUsers < 0 {
		value.Fail(fmt.Errorf("negative nusers %d", h.NUsers))
	}
	h.Users = make([]objdb.Objid, h.NUsers)
	for i := range h.Users {
		h.Users[i] = c.ReadObj()
	}
	return h
}

func writeHeader(c *value.Context, h Header) {
	writeHeaderLine(c, h.FormatVersion)
	c.WriteInt(h.NObjs)
	c.WriteInt(h.NPrograms)
	c.WriteInt(0)
	c.WriteInt(int64(len(h.Users)))
	for _, u := range h.Users {
		c.WriteObj(u)
	}
}

// readBlobSection reads the task-queue or active-connections section
// (spec.md §2, §6). Both are out-of-scope collaborators (the task scheduler
// and the connection registry, spec.md §1); this package preserves their
// bytes across a load/dump round trip as a single length-prefixed opaque
// blob rather than interpreting their internal structure.
func readBlobSection(c *value.Context) []byte {
	return []byte(c.ReadString())
}

func writeBlobSection(c *value.Context, blob []byte) {
	c.WriteString(string(blob))
}
