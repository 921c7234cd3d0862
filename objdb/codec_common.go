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

import "github.com/launix-de/moodb/value"

// readVerbdef/writeVerbdef and the propdef/propval helpers below are shared
// between the legacy and current object record codecs (spec.md §4.2: "Both
// then emit: a count-prefixed verbdef list, a count-prefixed propdef list,
// and a count-prefixed propval array.").

func readVerbdef(c *value.Context) Verbdef {
	var v Verbdef
	v.Name = c.ReadInternedString()
	v.Owner = c.ReadObj()
	v.Perms = uint16(c.ReadInt())
	v.Prep = int16(c.ReadInt())
	v.Next = int32(c.ReadInt())
	v.Program = int32(c.ReadInt())
	return v
}

func writeVerbdef(c *value.Context, v Verbdef) {
	c.WriteInternedString(v.Name)
	c.WriteObj(v.Owner)
	c.WriteInt(int64(v.Perms))
	c.WriteInt(int64(v.Prep))
	c.WriteInt(int64(v.Next))
	c.WriteInt(int64(v.Program))
}

func readVerbdefs(c *value.Context) []Verbdef {
	n := c.ReadInt()
	if n < 0 {
		value.Fail(errNegativeCount("verbdef", n))
	}
	out := make([]Verbdef, n)
	for i := range out {
		out[i] = readVerbdef(c)
	}
	return out
}

func writeVerbdefs(c *value.Context, verbs []Verbdef) {
	c.WriteInt(int64(len(verbs)))
	for _, v := range verbs {
		writeVerbdef(c, v)
	}
}

func readPropdef(c *value.Context) Propdef {
	return Propdef{Name: c.ReadInternedString()}
}

func writePropdef(c *value.Context, p Propdef) {
	c.WriteInternedString(p.Name)
}

func readPropdefs(c *value.Context) []Propdef {
	n := c.ReadInt()
	if n < 0 {
		value.Fail(errNegativeCount("propdef", n))
	}
	out := make([]Propdef, n)
	for i := range out {
		out[i] = readPropdef(c)
	}
	return out
}

func writePropdefs(c *value.Context, defs []Propdef) {
	c.WriteInt(int64(len(defs)))
	for _, p := range defs {
		writePropdef(c, p)
	}
}

func readPropvals(c *value.Context) []value.Var {
	n := c.ReadInt()
	if n < 0 {
		value.Fail(errNegativeCount("propval", n))
	}
	out := make([]value.Var, n)
	for i := range out {
		out[i] = c.ReadVar()
	}
	return out
}

func writePropvals(c *value.Context, vals []value.Var) {
	c.WriteInt(int64(len(vals)))
	for _, v := range vals {
		c.WriteVar(v)
	}
}
