package checkpoint

import (
	"bytes"
	"testing"

	"github.com/launix-de/moodb/objdb"
	"github.com/launix-de/moodb/value"
)

func TestLoadCurrentLayoutRoundTrip(t *testing.T) {
	ct := objdb.NewTable()
	ct.AppendLive(&objdb.Object{
		Name: "root", Flags: 3, Owner: objdb.NOTHING,
		Location: value.Obj(objdb.NOTHING), Contents: value.List(nil),
		Parents: value.Obj(objdb.NOTHING), Children: value.List(nil),
	})

	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	ok := value.Catch(func() {
		writeSections(w, DumpInput{
			FormatVersion: DBVNextGen,
			Users:         []objdb.Objid{0},
			Table:         ct,
			Programs:      nil,
			TaskQueue:     []byte("tasks"),
			Connections:   []byte("conns"),
		})
	})
	if !ok {
		t.Fatal("write failed")
	}
	w.Flush()

	result, ok := Load(value.NewReader(&buf))
	if !ok {
		t.Fatal("load failed")
	}
	if result.WasUpgraded {
		t.Fatal("current-layout input must not be marked upgraded")
	}
	if result.Table.Len() != 1 || result.Table.Get(0).Name != "root" {
		t.Fatalf("unexpected table contents: %+v", result.Table.Get(0))
	}
	if string(result.TaskQueue) != "tasks" || string(result.Connections) != "conns" {
		t.Fatalf("blob sections not preserved: %q %q", result.TaskQueue, result.Connections)
	}
	if len(result.Users) != 1 || result.Users[0] != 0 {
		t.Fatalf("user list not preserved: %v", result.Users)
	}
}

func TestLoadLegacyLayoutUpgrades(t *testing.T) {
	lt := objdb.NewLegacyTable()
	lt.AppendLive(&objdb.LegacyObject{
		Name: "root", Owner: objdb.NOTHING,
		Location: objdb.NOTHING, Contents: objdb.NOTHING, Next: objdb.NOTHING,
		Parent: objdb.NOTHING, Child: objdb.NOTHING, Sibling: objdb.NOTHING,
	})

	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	writeHeader(w, Header{FormatVersion: 4, NObjs: 1, Users: []objdb.Objid{0}})
	objdb.WriteLegacyObjects(w, lt)
	writeBlobSection(w, nil)
	writeBlobSection(w, nil)
	w.Flush()

	result, ok := Load(value.NewReader(&buf))
	if !ok {
		t.Fatal("load failed")
	}
	if !result.WasUpgraded {
		t.Fatal("legacy-layout input must be marked upgraded")
	}
	if result.Table.Get(0).Name != "root" {
		t.Fatalf("unexpected upgraded object: %+v", result.Table.Get(0))
	}
}

func TestLoadRejectsBrokenGraph(t *testing.T) {
	lt := objdb.NewLegacyTable()
	lt.AppendLive(&objdb.LegacyObject{Name: "a", Parent: 1, Location: objdb.NOTHING, Contents: objdb.NOTHING, Next: objdb.NOTHING, Child: objdb.NOTHING, Sibling: objdb.NOTHING})
	lt.AppendLive(&objdb.LegacyObject{Name: "b", Parent: 0, Location: objdb.NOTHING, Contents: objdb.NOTHING, Next: objdb.NOTHING, Child: objdb.NOTHING, Sibling: objdb.NOTHING})

	var buf bytes.Buffer
	w := value.NewWriter(&buf)
	writeHeader(w, Header{FormatVersion: 4, NObjs: 2})
	objdb.WriteLegacyObjects(w, lt)
	writeBlobSection(w, nil)
	writeBlobSection(w, nil)
	w.Flush()

	if _, ok := Load(value.NewReader(&buf)); ok {
		t.Fatal("a cyclic ancestor chain must fail the load")
	}
}
