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
	"sync"

	"github.com/launix-de/NonLockingReadMap"
	"github.com/launix-de/moodb/value"
)

// Table is the process-wide live object table for the current layout.
// Identifiers are dense (spec.md §3), so objects live in a plain slice
// indexed by id; recycled slots are tracked in a non-blocking bitmap
// (read on every validator pass, written only when a slot is recycled) the
// same way the teacher's transaction visibility set does
// (storage/transaction.go's NonLockingReadMap.NonBlockingBitMap).
//
// mu guards the object slice against the one writer this table actually
// needs to survive: a checkpoint dump taking a consistent snapshot while the
// VM keeps mutating objects (spec.md §9's fork substitute, "deep-copy under
// a write lock, not thread-level parallelism").
type Table struct {
	mu         sync.RWMutex
	objects    []*Object
	recycled   NonLockingReadMap.NonBlockingBitMap
	lastUsedID Objid
}

func NewTable() *Table {
	return &Table{lastUsedID: NOTHING}
}

// LastUsedID is the highest id the reader has admitted so far.
func (t *Table) LastUsedID() Objid { return t.lastUsedID }

// Len returns one past the highest admitted id (dense id-space size).
func (t *Table) Len() int { return len(t.objects) }

// Get returns the object at id, or nil if id is out of range or recycled.
func (t *Table) Get(id Objid) *Object {
	if id < 0 || int(id) >= len(t.objects) {
		return nil
	}
	if t.recycled.Get(uint32(id)) {
		return nil
	}
	return t.objects[id]
}

// IsRecycled reports whether id names a recycled (but reserved) slot.
func (t *Table) IsRecycled(id Objid) bool {
	if id < 0 || int(id) >= len(t.objects) {
		return false
	}
	return t.recycled.Get(uint32(id))
}

// IsLive reports whether id resolves to a non-recycled object in range.
func (t *Table) IsLive(id Objid) bool {
	return id != NOTHING && t.Get(id) != nil
}

// AppendLive admits the next dense id (lastUsedID+1) as a live object and
// stores that id in o.ID. It performs no id check of its own; the record
// readers compare a record's id against NextID before calling it.
func (t *Table) AppendLive(o *Object) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o.ID = t.lastUsedID + 1
	t.objects = append(t.objects, o)
	t.recycled.Set(uint32(o.ID), false)
	t.lastUsedID = o.ID
}

// AppendRecycled admits the next dense id as a recycled slot.
func (t *Table) AppendRecycled() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.lastUsedID + 1
	t.objects = append(t.objects, nil)
	t.recycled.Set(uint32(id), true)
	t.lastUsedID = id
}

// Snapshot takes a consistent deep copy of the table under its read lock: the
// checkpoint writer's substitute for fork()'s copy-on-write snapshot
// (spec.md §9). The copy shares no slice backing with the live table, so the
// VM may keep mutating objects while the snapshot is written out.
func (t *Table) Snapshot() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var cloneVar func(value.Var) value.Var
	cloneVar = func(v value.Var) value.Var {
		if !v.IsList() {
			return v
		}
		items := make([]value.Var, len(v.AsList()))
		for i, e := range v.AsList() {
			items[i] = cloneVar(e)
		}
		return value.List(items)
	}

	objs := make([]*Object, len(t.objects))
	for i, o := range t.objects {
		if o == nil {
			continue
		}
		cp := *o
		cp.Verbdefs = append([]Verbdef(nil), o.Verbdefs...)
		cp.Propdefs = append([]Propdef(nil), o.Propdefs...)
		cp.Propvals = append([]value.Var(nil), o.Propvals...)
		for j := range cp.Propvals {
			cp.Propvals[j] = cloneVar(cp.Propvals[j])
		}
		cp.Location, cp.Contents = cloneVar(o.Location), cloneVar(o.Contents)
		cp.Parents, cp.Children = cloneVar(o.Parents), cloneVar(o.Children)
		objs[i] = &cp
	}
	return &Table{
		objects:    objs,
		recycled:   t.recycled.Copy(),
		lastUsedID: t.lastUsedID,
	}
}

// NextID is the id a freshly read record must carry to be accepted
// (spec.md §4.2: "refuse a record whose id is not exactly last_used_id+1").
func (t *Table) NextID() Objid { return t.lastUsedID + 1 }

// All returns every live object, in id order.
func (t *Table) All() []*Object {
	out := make([]*Object, 0, len(t.objects))
	for _, o := range t.objects {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// LegacyTable is the process-wide live object table for the v4 layout.
type LegacyTable struct {
	objects    []*LegacyObject
	recycled   NonLockingReadMap.NonBlockingBitMap
	lastUsedID Objid
}

func NewLegacyTable() *LegacyTable {
	return &LegacyTable{lastUsedID: NOTHING}
}

func (t *LegacyTable) LastUsedID() Objid { return t.lastUsedID }
func (t *LegacyTable) Len() int          { return len(t.objects) }
func (t *LegacyTable) NextID() Objid     { return t.lastUsedID + 1 }

func (t *LegacyTable) Get(id Objid) *LegacyObject {
	if id < 0 || int(id) >= len(t.objects) {
		return nil
	}
	if t.recycled.Get(uint32(id)) {
		return nil
	}
	return t.objects[id]
}

func (t *LegacyTable) IsRecycled(id Objid) bool {
	if id < 0 || int(id) >= len(t.objects) {
		return false
	}
	return t.recycled.Get(uint32(id))
}

func (t *LegacyTable) IsLive(id Objid) bool {
	return id != NOTHING && t.Get(id) != nil
}

func (t *LegacyTable) AppendLive(o *LegacyObject) {
	o.ID = t.lastUsedID + 1
	t.objects = append(t.objects, o)
	t.recycled.Set(uint32(o.ID), false)
	t.lastUsedID = o.ID
}

func (t *LegacyTable) AppendRecycled() {
	id := t.lastUsedID + 1
	t.objects = append(t.objects, nil)
	t.recycled.Set(uint32(id), true)
	t.lastUsedID = id
}

func (t *LegacyTable) All() []*LegacyObject {
	out := make([]*LegacyObject, 0, len(t.objects))
	for _, o := range t.objects {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
