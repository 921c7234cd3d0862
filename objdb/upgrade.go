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
	"fmt"

	"github.com/launix-de/moodb/value"
)

// Upgrade walks a validated v4 object table and materializes a
// current-layout table out of it (spec.md §4.4). The returned table shares
// verbdef/propdef/propval slices with the legacy objects; callers should
// drop their reference to legacy afterwards so it can be collected.
//
// Per spec.md §9's resolved open question, Parents is written as a scalar
// object Var wrapping the legacy parent (not a single-element list) —
// var_dup(new_obj(parent)) in the original source's own words — and the
// current-layout validator already accepts either shape, documenting
// post-upgrade multiple inheritance as an intentional later extension
// point rather than something the upgrader itself produces.
func Upgrade(legacy *LegacyTable) *Table {
	t := NewTable()
	total := int64(legacy.Len())
	for id := Objid(0); int(id) < legacy.Len(); id++ {
		if legacy.IsRecycled(id) {
			t.AppendRecycled()
			continue
		}
		lo := legacy.Get(id)
		if lo == nil {
			t.AppendRecycled()
			continue
		}

		o := &Object{
			Name:     lo.Name,
			Flags:    lo.Flags,
			Owner:    lo.Owner,
			Location: value.Obj(lo.Location),
			Parents:  value.Obj(lo.Parent),
			Children: value.ObjList(lo.childrenChain(legacy)),
			Contents: value.ObjList(lo.contentsChain(legacy)),
			Verbdefs: lo.Verbdefs,
			Propdefs: lo.Propdefs,
			Propvals: lo.Propvals,
		}
		t.AppendLive(o)

		if (int64(id)+1)%10000 == 0 {
			fmt.Println("upgrade: progress", id+1, "/", total)
		}
	}
	return t
}
