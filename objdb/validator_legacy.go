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

import "fmt"

// ValidateLegacy runs the three-phase validator over the v4 layout
// (spec.md §4.3). It returns broken=true when load must abort: phase 1
// always repairs dangling references and the location/next inconsistency
// in place and never breaks the DB by itself; phases 2 (cycles) and 3
// (bidirectional consistency) only report, and any failure there sets
// broken=true.
func ValidateLegacy(t *LegacyTable) (broken bool) {
	repaired := validateLegacyPhase1(t)
	if repaired > 0 {
		fmt.Println("validator: legacy phase 1 repaired", repaired, "references")
	}

	if validateLegacyPhase2(t) {
		fmt.Println("validator: legacy phase 2 found a cycle")
		return true
	}

	if n := validateLegacyPhase3(t); n > 0 {
		fmt.Println("validator: legacy phase 3 found", n, "bidirectional inconsistencies")
		return true
	}

	return false
}

// validateLegacyPhase1 repairs dangling references and the
// location==NOTHING-implies-next==NOTHING invariant. It never aborts.
func validateLegacyPhase1(t *LegacyTable) (repaired int) {
	n := int64(0)
	total := int64(len(t.All()))
	for _, o := range t.All() {
		n++
		if (n)%10000 == 0 {
			logProgress("legacy validate phase1", n, total)
		}
		if o.Location != NOTHING && !t.IsLive(o.Location) {
			fmt.Println("validator: dangling location on", o.ID, "->", o.Location)
			o.Location = NOTHING
			repaired++
		}
		if o.Contents != NOTHING && !t.IsLive(o.Contents) {
			fmt.Println("validator: dangling contents on", o.ID, "->", o.Contents)
			o.Contents = NOTHING
			repaired++
		}
		if o.Next != NOTHING && !t.IsLive(o.Next) {
			fmt.Println("validator: dangling next on", o.ID, "->", o.Next)
			o.Next = NOTHING
			repaired++
		}
		if o.Parent != NOTHING && !t.IsLive(o.Parent) {
			fmt.Println("validator: dangling parent on", o.ID, "->", o.Parent)
			o.Parent = NOTHING
			repaired++
		}
		if o.Child != NOTHING && !t.IsLive(o.Child) {
			fmt.Println("validator: dangling child on", o.ID, "->", o.Child)
			o.Child = NOTHING
			repaired++
		}
		if o.Sibling != NOTHING && !t.IsLive(o.Sibling) {
			fmt.Println("validator: dangling sibling on", o.ID, "->", o.Sibling)
			o.Sibling = NOTHING
			repaired++
		}
		if o.Location == NOTHING && o.Next != NOTHING {
			fmt.Println("validator: null-location with non-null next on", o.ID)
			o.Next = NOTHING
			repaired++
		}
	}
	return repaired
}

// walkExceeds walks a chain starting at start following next(id), and
// reports whether the walk needed more than limit steps to reach NOTHING
// (spec.md §4.3: "if any walk exceeds the current object count, the chain
// is cyclic").
func walkExceeds(start Objid, limit int, next func(Objid) Objid) bool {
	cur := start
	for steps := 0; cur != NOTHING; steps++ {
		if steps > limit {
			return true
		}
		cur = next(cur)
	}
	return false
}

func validateLegacyPhase2(t *LegacyTable) (cyclic bool) {
	limit := len(t.All())
	for _, o := range t.All() {
		if walkExceeds(o.Parent, limit, func(id Objid) Objid {
			if n := t.Get(id); n != nil {
				return n.Parent
			}
			return NOTHING
		}) {
			return true
		}
		if walkExceeds(o.Child, limit, func(id Objid) Objid {
			if n := t.Get(id); n != nil {
				return n.Sibling
			}
			return NOTHING
		}) {
			return true
		}
		if walkExceeds(o.Location, limit, func(id Objid) Objid {
			if n := t.Get(id); n != nil {
				return n.Location
			}
			return NOTHING
		}) {
			return true
		}
		if walkExceeds(o.Contents, limit, func(id Objid) Objid {
			if n := t.Get(id); n != nil {
				return n.Next
			}
			return NOTHING
		}) {
			return true
		}
	}
	return false
}

func validateLegacyPhase3(t *LegacyTable) (mismatches int) {
	for _, a := range t.All() {
		if a.Parent != NOTHING {
			p := t.Get(a.Parent)
			if p == nil || !inSiblingChain(t, p.Child, a.ID) {
				fmt.Println("validator: ", a.ID, "claims parent", a.Parent, "but is not in its child chain")
				mismatches++
			}
		}
		if a.Location != NOTHING {
			l := t.Get(a.Location)
			if l == nil || !inNextChain(t, l.Contents, a.ID) {
				fmt.Println("validator: ", a.ID, "claims location", a.Location, "but is not in its contents chain")
				mismatches++
			}
		}
	}
	for _, p := range t.All() {
		for _, b := range p.childrenChain(t) {
			child := t.Get(b)
			if child == nil || child.Parent != p.ID {
				fmt.Println("validator: ", b, "is in", p.ID, "'s child chain but does not point back as parent")
				mismatches++
			}
		}
		for _, b := range p.contentsChain(t) {
			item := t.Get(b)
			if item == nil || item.Location != p.ID {
				fmt.Println("validator: ", b, "is in", p.ID, "'s contents chain but does not point back as location")
				mismatches++
			}
		}
	}
	return mismatches
}

func inSiblingChain(t *LegacyTable, head Objid, target Objid) bool {
	for c := head; c != NOTHING; {
		if c == target {
			return true
		}
		o := t.Get(c)
		if o == nil {
			return false
		}
		c = o.Sibling
	}
	return false
}

func inNextChain(t *LegacyTable, head Objid, target Objid) bool {
	for c := head; c != NOTHING; {
		if c == target {
			return true
		}
		o := t.Get(c)
		if o == nil {
			return false
		}
		c = o.Next
	}
	return false
}
