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
	"strconv"
	"strings"

	"github.com/launix-de/moodb/objdb"
	"github.com/launix-de/moodb/value"
)

// ProgramRecord is one opaque verb-program entry. The bytecode compiler and
// its (de)serializer are out of scope (spec.md §1); this package treats the
// payload as an uninterpreted byte blob it must preserve byte-for-byte
// across a load/dump round trip.
type ProgramRecord struct {
	Oid       objdb.Objid
	VerbIndex int
	Payload   []byte
}

func readProgramHeader(line string) (oid objdb.Objid, verbIndex int, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, 0, false
	}
	rest := line[1:]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return 0, 0, false
	}
	n, err := strconv.ParseInt(rest[:colon], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	v, err := strconv.Atoi(rest[colon+1:])
	if err != nil {
		return 0, 0, false
	}
	return objdb.Objid(n), v, true
}

// readPrograms reads nprogs program records. Each is a "#<oid>:<verb>\n"
// header followed by a length-prefixed opaque payload (spec.md §6); the
// payload framing is this package's own, since the bytecode codec that
// would otherwise frame it is external.
func readPrograms(c *value.Context, nprogs int64) []ProgramRecord {
	out := make([]ProgramRecord, 0, nprogs)
	for i := int64(0); i < nprogs; i++ {
		line := c.ReadLine()
		oid, verb, ok := readProgramHeader(line)
		if !ok {
			value.Fail(fmt.Errorf("malformed program header %q", line))
		}
		payload := []byte(c.ReadString())
		out = append(out, ProgramRecord{Oid: oid, VerbIndex: verb, Payload: payload})
	}
	return out
}

func writePrograms(c *value.Context, programs []ProgramRecord) {
	for _, p := range programs {
		c.WriteLine(fmt.Sprintf("#%d:%d", int(p.Oid), p.VerbIndex))
		c.WriteString(string(p.Payload))
	}
}
