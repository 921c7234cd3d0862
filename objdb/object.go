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

// Package objdb implements the object graph: the two on-disk layouts (legacy
// intrusive-chain v4 and current list-valued), their record codecs, the
// hierarchy validators and the v4-to-current upgrader.
package objdb

import "github.com/launix-de/moodb/value"

// Objid is re-exported for callers that only need objdb, not value directly.
type Objid = value.Objid

// NOTHING is re-exported from value for the same reason.
const NOTHING = value.NOTHING

// Verbdef is a named, ordered entry attaching an executable program to an
// object. Program indexes into the dump's program-record section by
// (object, verb index); the actual bytecode (de)serialization is the
// bytecode compiler's concern, out of scope here (spec.md §1).
type Verbdef struct {
	Name    string
	Owner   Objid
	Perms   uint16
	Prep    int16
	Next    int32 // vestigial chain pointer, wire-format only; slice order is authoritative in memory
	Program int32 // -1 if the verb has no compiled program yet
}

// Propdef is a property schema entry: name only (spec.md §3).
type Propdef struct {
	Name string
}

// Object is the current (next-generation) on-disk layout: relations are
// reified list values instead of intrusive pointers.
type Object struct {
	ID       Objid
	Recycled bool
	Name     string
	Flags    uint32
	Owner    Objid

	// Location is a scalar object Var; Contents is a list-of-object Var.
	Location value.Var
	Contents value.Var

	// Parents is scalar-or-list (spec.md §9's documented polymorphism:
	// single inheritance keeps the legacy scalar shape, multiple
	// inheritance uses a list). Children is always a list.
	Parents  value.Var
	Children value.Var

	Verbdefs []Verbdef
	Propdefs []Propdef
	Propvals []value.Var
}

// LegacyObject is the v4 on-disk layout: relations are intrusive
// parent/child/sibling and location/contents/next chains.
type LegacyObject struct {
	ID       Objid
	Recycled bool
	Name     string
	Flags    uint32
	Owner    Objid

	Location Objid
	Contents Objid
	Next     Objid

	Parent  Objid
	Child   Objid
	Sibling Objid

	Verbdefs []Verbdef
	Propdefs []Propdef
	Propvals []value.Var
}

// childrenChain walks o's head-child/sibling chain within t and returns the
// ordered list of direct children.
func (o *LegacyObject) childrenChain(t *LegacyTable) []Objid {
	var out []Objid
	for c := o.Child; c != NOTHING; {
		out = append(out, c)
		child := t.Get(c)
		if child == nil {
			break
		}
		c = child.Sibling
	}
	return out
}

// contentsChain walks o's head-contents/next chain within t and returns the
// ordered list of contained objects.
func (o *LegacyObject) contentsChain(t *LegacyTable) []Objid {
	var out []Objid
	for c := o.Contents; c != NOTHING; {
		out = append(out, c)
		item := t.Get(c)
		if item == nil {
			break
		}
		c = item.Next
	}
	return out
}
