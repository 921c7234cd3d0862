package objdb

import (
	"bytes"
	"testing"

	"github.com/launix-de/moodb/value"
)

func TestCurrentObjectRoundTrip(t *testing.T) {
	ct := NewTable()
	ct.AppendLive(&Object{
		Name: "root", Flags: 3, Owner: 0,
		Location: value.Obj(NOTHING),
		Contents: value.ObjList([]Objid{1, 2}),
		Parents:  value.Obj(NOTHING),
		Children: value.ObjList([]Objid{1}),
		Verbdefs: []Verbdef{{Name: "look", Owner: 0, Perms: 0x1b, Prep: -1, Next: -1, Program: 0}},
		Propdefs: []Propdef{{Name: "description"}},
		Propvals: []value.Var{value.Str("a room")},
	})
	ct.AppendLive(freshObj("a"))
	ct.AppendLive(freshObj("b"))
	ct.AppendRecycled()

	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	ok := value.Catch(func() { WriteCurrentObjects(w, ct) })
	if !ok {
		t.Fatal("write failed")
	}
	w.Flush()

	ct2 := NewTable()
	r := value.NewReader(&buf)
	ok = value.Catch(func() { ReadCurrentObjects(r, ct2, int64(ct.Len())) })
	if !ok {
		t.Fatal("read failed")
	}

	got := ct2.Get(0)
	if got.Name != "root" || got.Flags != 3 {
		t.Fatalf("object #0 mismatch: %+v", got)
	}
	if len(got.Verbdefs) != 1 || got.Verbdefs[0].Name != "look" {
		t.Fatalf("verbdefs mismatch: %+v", got.Verbdefs)
	}
	if len(got.Propdefs) != 1 || got.Propdefs[0].Name != "description" {
		t.Fatalf("propdefs mismatch: %+v", got.Propdefs)
	}
	if len(got.Propvals) != 1 || got.Propvals[0].AsStr() != "a room" {
		t.Fatalf("propvals mismatch: %+v", got.Propvals)
	}
	if !ct2.IsRecycled(3) {
		t.Fatal("expected slot #3 recycled")
	}
}

func TestLegacyObjectRoundTrip(t *testing.T) {
	lt := NewLegacyTable()
	lt.AppendLive(&LegacyObject{
		Name: "root", Flags: 1, Owner: 0,
		Location: NOTHING, Contents: 1, Next: NOTHING,
		Parent: NOTHING, Child: 1, Sibling: NOTHING,
	})
	lt.AppendLive(&LegacyObject{
		Name: "child", Flags: 0, Owner: 0,
		Location: 0, Contents: NOTHING, Next: NOTHING,
		Parent: 0, Child: NOTHING, Sibling: NOTHING,
	})

	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	ok := value.Catch(func() { WriteLegacyObjects(w, lt) })
	if !ok {
		t.Fatal("write failed")
	}
	w.Flush()

	lt2 := NewLegacyTable()
	r := value.NewReader(&buf)
	ok = value.Catch(func() { ReadLegacyObjects(r, lt2, int64(lt.Len())) })
	if !ok {
		t.Fatal("read failed")
	}

	if lt2.Get(1).Parent != 0 {
		t.Fatalf("expected child's parent preserved, got %v", lt2.Get(1).Parent)
	}
}

func TestReadRejectsOutOfSequenceID(t *testing.T) {
	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	w.WriteLine("#5")
	w.WriteInternedString("oops")
	w.Flush()

	ct := NewTable()
	r := value.NewReader(&buf)
	ok := value.Catch(func() { ReadCurrentObjects(r, ct, 1) })
	if ok {
		t.Fatal("expected load to fail on out-of-sequence id")
	}
}
