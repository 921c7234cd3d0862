package objdb

import (
	"testing"

	"github.com/launix-de/moodb/value"
)

func freshObj(name string) *Object {
	return &Object{
		Name:     name,
		Owner:    NOTHING,
		Location: value.Obj(NOTHING),
		Contents: value.List(nil),
		Parents:  value.Obj(NOTHING),
		Children: value.List(nil),
	}
}

func TestCurrentCleanGraphValidates(t *testing.T) {
	ct := NewTable()
	ct.AppendLive(freshObj("root"))
	if broken := ValidateCurrent(ct); broken {
		t.Fatal("clean graph should validate")
	}
}

func TestCurrentDanglingChildIsRepaired(t *testing.T) {
	ct := NewTable()
	root := freshObj("root")
	root.Children = value.ObjList([]Objid{5}) // dangling
	ct.AppendLive(root)

	if broken := ValidateCurrent(ct); broken {
		t.Fatal("a dangling list entry must be repaired, not fatal")
	}
	if len(ct.Get(0).Children.AsList()) != 0 {
		t.Errorf("expected dangling child dropped, got %v", ct.Get(0).Children)
	}
}

func TestCurrentTypeSanityFatal(t *testing.T) {
	ct := NewTable()
	bad := freshObj("bad")
	bad.Location = value.Str("not an object")
	ct.AppendLive(bad)

	if broken := ValidateCurrent(ct); !broken {
		t.Fatal("a type-sane violation must abort the load")
	}
}

func TestCurrentAncestorCycleAborts(t *testing.T) {
	ct := NewTable()
	a := freshObj("a")
	a.Parents = value.Obj(1)
	b := freshObj("b")
	b.Parents = value.Obj(0)
	ct.AppendLive(a)
	ct.AppendLive(b)

	if broken := ValidateCurrent(ct); !broken {
		t.Fatal("an ancestor cycle must abort the load")
	}
}

func TestCurrentBidirectionalMismatch(t *testing.T) {
	ct := NewTable()
	p := freshObj("p")
	p.Children = value.ObjList([]Objid{1})
	c := freshObj("c") // doesn't list p as parent
	ct.AppendLive(p)
	ct.AppendLive(c)

	if broken := ValidateCurrent(ct); !broken {
		t.Fatal("a parent/children mismatch must be reported as broken")
	}
}

func TestCurrentMultipleInheritanceAccepted(t *testing.T) {
	ct := NewTable()
	p1 := freshObj("p1")
	p1.Children = value.ObjList([]Objid{2})
	p2 := freshObj("p2")
	p2.Children = value.ObjList([]Objid{2})
	child := freshObj("child")
	child.Parents = value.ObjList([]Objid{0, 1})
	ct.AppendLive(p1)
	ct.AppendLive(p2)
	ct.AppendLive(child)

	if broken := ValidateCurrent(ct); broken {
		t.Fatal("list-valued parents (multiple inheritance) must be accepted")
	}
}
