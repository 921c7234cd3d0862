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

	"github.com/launix-de/moodb/value"
)

// ReadLegacyObjects reads nobjs v4-layout object records into t.
// spec.md §6 names six intrusive object references per record
// (location, contents, next, parent, child, sibling); §4.2's prose count of
// "seven" is not borne out by either the data model (§3) or the file-format
// grammar (§6), both of which enumerate exactly these six fields.
func ReadLegacyObjects(c *value.Context, t *LegacyTable, nobjs int64) {
	for i := int64(0); i < nobjs; i++ {
		readLegacyObjectRecord(c, t)
		if (i+1)%10000 == 0 {
			logProgress("legacy load", i+1, nobjs)
		}
	}
}

func readLegacyObjectRecord(c *value.Context, t *LegacyTable) {
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

	o := &LegacyObject{}
	o.Name = c.ReadInternedString()
	_ = c.ReadString() // historical "handles" placeholder, discarded
	o.Flags = uint32(c.ReadInt())
	o.Owner = c.ReadObj()
	o.Location = c.ReadObj()
	o.Contents = c.ReadObj()
	o.Next = c.ReadObj()
	o.Parent = c.ReadObj()
	o.Child = c.ReadObj()
	o.Sibling = c.ReadObj()
	o.Verbdefs = readVerbdefs(c)
	o.Propdefs = readPropdefs(c)
	o.Propvals = readPropvals(c)
	t.AppendLive(o)
}

// WriteLegacyObjects writes every slot of t. Only exercised by round-trip
// tests and archival tooling; the live server always upgrades before
// resuming writes (spec.md §4.4).
func WriteLegacyObjects(c *value.Context, t *LegacyTable) {
	n := t.Len()
	for id := 0; id < n; id++ {
		writeLegacyObjectRecord(c, t, Objid(id))
	}
}

func writeLegacyObjectRecord(c *value.Context, t *LegacyTable, id Objid) {
	if t.IsRecycled(id) {
		c.WriteLine("#" + strconv.Itoa(int(id)) + " recycled")
		return
	}
	o := t.Get(id)
	c.WriteLine("#" + strconv.Itoa(int(id)))
	c.WriteInternedString(o.Name)
	c.WriteString("") // bit-compatibility placeholder for archival tools
	c.WriteInt(int64(o.Flags))
	c.WriteObj(o.Owner)
	c.WriteObj(o.Location)
	c.WriteObj(o.Contents)
	c.WriteObj(o.Next)
	c.WriteObj(o.Parent)
	c.WriteObj(o.Child)
	c.WriteObj(o.Sibling)
	writeVerbdefs(c, o.Verbdefs)
	writePropdefs(c, o.Propdefs)
	writePropvals(c, o.Propvals)
}
