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
package objdb

import (
	"strconv"
	"strings"

	"github.com/launix-de/moodb/value"
)

// parseObjectHeader parses "#<id>" or "#<id> recycled" (spec.md §4.2).
func parseObjectHeader(line string) (id Objid, recycled bool, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, false, false
	}
	rest := line[1:]
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		numPart, tail := rest[:sp], strings.TrimSpace(rest[sp+1:])
		n, err := strconv.ParseInt(numPart, 10, 32)
		if err != nil {
			return 0, false, false
		}
		return Objid(n), tail == "recycled", true
	}
	n, err := strconv.ParseInt(rest, 10, 32)
	if err != nil {
		return 0, false, false
	}
	return Objid(n), false, true
}

// ReadCurrentObjects reads nobjs object records in the current (next-gen)
// layout into t.
func ReadCurrentObjects(c *value.Context, t *Table, nobjs int64) {
	for i := int64(0); i < nobjs; i++ {
		readCurrentObjectRecord(c, t)
		if (i+1)%10000 == 0 {
			logProgress("load", i+1, nobjs)
		}
	}
}

func readCurrentObjectRecord(c *value.Context, t *Table) {
	line := c.ReadLine()
	id, recycled, ok := parseObjectHeader(line)
	if !ok {
		value.Fail(errMalformedHeader(line))
	}
	if id != t.NextID() {
		value.Fail(errUnexpectedID(t.NextID(), id))
	}
	if recycled {
		t.AppendRecycled()
		return
	}

	o := &Object{}
	o.Name = c.ReadInternedString()
	o.Flags = uint32(c.ReadInt())
	o.Owner = c.ReadObj()
	o.Location = c.ReadVar()
	o.Contents = c.ReadVar()
	o.Parents = c.ReadVar()
	o.Children = c.ReadVar()
	o.Verbdefs = readVerbdefs(c)
	o.Propdefs = readPropdefs(c)
	o.Propvals = readPropvals(c)
	t.AppendLive(o)
}

// WriteCurrentObjects writes every live-or-recycled slot of t in id order.
func WriteCurrentObjects(c *value.Context, t *Table) {
	n := t.Len()
	for id := 0; id < n; id++ {
		writeCurrentObjectRecord(c, t, Objid(id))
		if (id+1)%10000 == 0 {
			logProgress("dump", int64(id+1), int64(n))
		}
	}
}

func writeCurrentObjectRecord(c *value.Context, t *Table, id Objid) {
	if t.IsRecycled(id) {
		c.WriteLine("#" + strconv.Itoa(int(id)) + " recycled")
		return
	}
	o := t.Get(id)
	c.WriteLine("#" + strconv.Itoa(int(id)))
	c.WriteInternedString(o.Name)
	c.WriteInt(int64(o.Flags))
	c.WriteObj(o.Owner)
	c.WriteVar(o.Location)
	c.WriteVar(o.Contents)
	c.WriteVar(o.Parents)
	c.WriteVar(o.Children)
	writeVerbdefs(c, o.Verbdefs)
	writePropdefs(c, o.Propdefs)
	writePropvals(c, o.Propvals)
}
