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

// ValidateCurrent runs the three-phase validator over the current
// (next-generation) layout (spec.md §4.3). It returns broken=true when load
// must abort. Phase 1's type-sanity check is fatal on mismatch; its
// dangling-reference cleanup otherwise repairs in place and never breaks
// the DB by itself. Phases 2 (cycles) and 3 (bidirectional consistency)
// only report.
func ValidateCurrent(t *Table) (broken bool) {
	if ok := validateCurrentTypeSanity(t); !ok {
		fmt.Println("validator: type sanity check failed")
		return true
	}

	repaired := validateCurrentPhase1(t)
	if repaired > 0 {
		fmt.Println("validator: current phase 1 repaired", repaired, "references")
	}

	if validateCurrentPhase2(t) {
		fmt.Println("validator: current phase 2 found a cycle")
		return true
	}

	if n := validateCurrentPhase3(t); n > 0 {
		fmt.Println("validator: current phase 3 found", n, "bidirectional inconsistencies")
		return true
	}

	return false
}

func validateCurrentTypeSanity(t *Table) bool {
	for _, o := range t.All() {
		if !(o.Parents.IsObj() || o.Parents.IsList()) {
			fmt.Println("validator: object", o.ID, "has non-obj/list parents")
			return false
		}
		if o.Parents.IsList() {
			for _, e := range o.Parents.AsList() {
				if !e.IsObj() {
					fmt.Println("validator: object", o.ID, "has non-obj element in parents list")
					return false
				}
			}
		}
		if !o.Children.IsList() {
			fmt.Println("validator: object", o.ID, "has non-list children")
			return false
		}
		for _, e := range o.Children.AsList() {
			if !e.IsObj() {
				fmt.Println("validator: object", o.ID, "has non-obj element in children list")
				return false
			}
		}
		if !o.Location.IsObj() {
			fmt.Println("validator: object", o.ID, "has non-obj location")
			return false
		}
		if !o.Contents.IsList() {
			fmt.Println("validator: object", o.ID, "has non-list contents")
			return false
		}
		for _, e := range o.Contents.AsList() {
			if !e.IsObj() {
				fmt.Println("validator: object", o.ID, "has non-obj element in contents list")
				return false
			}
		}
	}
	return true
}

// filterLiveList removes elements that don't resolve to a live object,
// preserving order, and reports how many were dropped.
func filterLiveList(t *Table, v value.Var) (value.Var, int) {
	items := v.AsList()
	out := make([]value.Var, 0, len(items))
	dropped := 0
	for _, e := range items {
		if t.IsLive(e.AsObj()) {
			out = append(out, e)
		} else {
			dropped++
		}
	}
	return value.List(out), dropped
}

func validateCurrentPhase1(t *Table) (repaired int) {
	n := int64(0)
	total := int64(len(t.All()))
	for _, o := range t.All() {
		n++
		if n%10000 == 0 {
			logProgress("current validate phase1", n, total)
		}

		if o.Location.AsObj() != NOTHING && !t.IsLive(o.Location.AsObj()) {
			fmt.Println("validator: dangling location on", o.ID, "->", o.Location)
			o.Location = value.Obj(NOTHING)
			repaired++
		}
		if filtered, dropped := filterLiveList(t, o.Contents); dropped > 0 {
			fmt.Println("validator: dropped", dropped, "dangling contents entries on", o.ID)
			o.Contents = filtered
			repaired += dropped
		}
		if filtered, dropped := filterLiveList(t, o.Children); dropped > 0 {
			fmt.Println("validator: dropped", dropped, "dangling children entries on", o.ID)
			o.Children = filtered
			repaired += dropped
		}
		if o.Parents.IsObj() {
			if o.Parents.AsObj() != NOTHING && !t.IsLive(o.Parents.AsObj()) {
				fmt.Println("validator: dangling parent on", o.ID, "->", o.Parents)
				o.Parents = value.Obj(NOTHING)
				repaired++
			}
		} else if filtered, dropped := filterLiveList(t, o.Parents); dropped > 0 {
			fmt.Println("validator: dropped", dropped, "dangling parents entries on", o.ID)
			o.Parents = filtered
			repaired += dropped
		}
	}
	return repaired
}

// ancestorsOf computes the transitive closure of o's parents (db_ancestors
// in spec.md §4.3). The visited set doubles as cycle protection: a node
// already seen is never re-expanded, so the walk terminates even over a
// corrupt, cyclic graph.
func ancestorsOf(t *Table, o Objid) map[Objid]bool {
	visited := map[Objid]bool{}
	obj := t.Get(o)
	if obj == nil {
		return visited
	}
	queue := append([]value.Objid{}, value.Objids(obj.Parents)...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == NOTHING || visited[cur] {
			continue
		}
		visited[cur] = true
		if cobj := t.Get(cur); cobj != nil {
			queue = append(queue, value.Objids(cobj.Parents)...)
		}
	}
	return visited
}

// allLocationsOf computes the transitive closure of o's location chain
// (db_all_locations in spec.md §4.3).
func allLocationsOf(t *Table, o Objid) map[Objid]bool {
	visited := map[Objid]bool{}
	obj := t.Get(o)
	if obj == nil {
		return visited
	}
	cur := obj.Location.AsObj()
	for cur != NOTHING && !visited[cur] {
		visited[cur] = true
		cobj := t.Get(cur)
		if cobj == nil {
			break
		}
		cur = cobj.Location.AsObj()
	}
	return visited
}

func validateCurrentPhase2(t *Table) (cyclic bool) {
	for _, o := range t.All() {
		if ancestorsOf(t, o.ID)[o.ID] {
			return true
		}
		if allLocationsOf(t, o.ID)[o.ID] {
			return true
		}
	}
	return false
}

func containsObj(ids []Objid, target Objid) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func validateCurrentPhase3(t *Table) (mismatches int) {
	for _, p := range t.All() {
		for _, c := range value.Objids(p.Children) {
			child := t.Get(c)
			if child == nil || !containsObj(value.Objids(child.Parents), p.ID) {
				fmt.Println("validator: ", c, "is in", p.ID, "'s children but does not list it as a parent")
				mismatches++
			}
		}
		for _, c := range value.Objids(p.Contents) {
			item := t.Get(c)
			if item == nil || item.Location.AsObj() != p.ID {
				fmt.Println("validator: ", c, "is in", p.ID, "'s contents but its location disagrees")
				mismatches++
			}
		}
	}
	for _, a := range t.All() {
		for _, p := range value.Objids(a.Parents) {
			parent := t.Get(p)
			if parent == nil || !containsObj(value.Objids(parent.Children), a.ID) {
				fmt.Println("validator: ", a.ID, "claims parent", p, "but is not in its children")
				mismatches++
			}
		}
		if loc := a.Location.AsObj(); loc != NOTHING {
			parent := t.Get(loc)
			if parent == nil || !containsObj(value.Objids(parent.Contents), a.ID) {
				fmt.Println("validator: ", a.ID, "claims location", loc, "but is not in its contents")
				mismatches++
			}
		}
	}
	return mismatches
}
