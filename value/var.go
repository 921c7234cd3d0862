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

// Package value implements the tagged Var sum type that moves across the
// database file's line-oriented text encoding: integers, object references,
// strings and lists of Var.
package value

import "fmt"

// Objid names an object slot. NOTHING denotes "no object".
type Objid int32

// NOTHING is the sentinel object reference meaning "no object".
const NOTHING Objid = -1

func (o Objid) String() string {
	return fmt.Sprintf("#%d", int32(o))
}

// Tag discriminates the variant held by a Var.
type Tag uint8

const (
	TagInt Tag = iota
	TagObj
	TagStr
	TagList
)

// Var is a tagged union over {integer, object reference, string, list of Var}.
// It is deliberately a plain struct (not an interface) so a zero Var is a
// valid integer 0, matching the C original's "Var is always something".
type Var struct {
	tag  Tag
	num  int64
	str  string
	list []Var
}

// Int wraps an integer.
func Int(i int64) Var { return Var{tag: TagInt, num: i} }

// Obj wraps an object reference.
func Obj(o Objid) Var { return Var{tag: TagObj, num: int64(o)} }

// Str wraps a string.
func Str(s string) Var { return Var{tag: TagStr, str: s} }

// List wraps a list of Var. The slice is retained, not copied.
func List(items []Var) Var { return Var{tag: TagList, list: items} }

func (v Var) Tag() Tag { return v.tag }
func (v Var) IsInt() bool  { return v.tag == TagInt }
func (v Var) IsObj() bool  { return v.tag == TagObj }
func (v Var) IsStr() bool  { return v.tag == TagStr }
func (v Var) IsList() bool { return v.tag == TagList }

// AsInt panics if v is not an integer. Callers that accept either an int or
// an objid should switch on Tag() explicitly; panicking here keeps misuse of
// a wrongly-tagged Var loud instead of silently truncating.
func (v Var) AsInt() int64 {
	if v.tag != TagInt {
		panic(fmt.Sprintf("value: AsInt on tag %d", v.tag))
	}
	return v.num
}

func (v Var) AsObj() Objid {
	if v.tag != TagObj {
		panic(fmt.Sprintf("value: AsObj on tag %d", v.tag))
	}
	return Objid(v.num)
}

func (v Var) AsStr() string {
	if v.tag != TagStr {
		panic(fmt.Sprintf("value: AsStr on tag %d", v.tag))
	}
	return v.str
}

func (v Var) AsList() []Var {
	if v.tag != TagList {
		panic(fmt.Sprintf("value: AsList on tag %d", v.tag))
	}
	return v.list
}

// Objids flattens a scalar-or-list relation Var (spec.md §9's "parents"
// polymorphism: a single object is stored as a scalar object Var, multiple
// inheritance as a list of object Vars) into a plain slice. A NOTHING scalar
// yields an empty slice.
func Objids(v Var) []Objid {
	switch v.tag {
	case TagObj:
		if v.AsObj() == NOTHING {
			return nil
		}
		return []Objid{v.AsObj()}
	case TagList:
		out := make([]Objid, 0, len(v.list))
		for _, e := range v.list {
			if e.IsObj() {
				out = append(out, e.AsObj())
			}
		}
		return out
	default:
		return nil
	}
}

// ObjList builds a list-of-object Var out of plain object references.
func ObjList(ids []Objid) Var {
	items := make([]Var, len(ids))
	for i, id := range ids {
		items[i] = Obj(id)
	}
	return List(items)
}

func (v Var) String() string {
	switch v.tag {
	case TagInt:
		return fmt.Sprintf("%d", v.num)
	case TagObj:
		return Objid(v.num).String()
	case TagStr:
		return v.str
	case TagList:
		return fmt.Sprintf("%v", v.list)
	default:
		return "<invalid var>"
	}
}
