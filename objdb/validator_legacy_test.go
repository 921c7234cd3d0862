package objdb

import "testing"

func TestMinimalLegacyDB(t *testing.T) {
	lt := NewLegacyTable()
	lt.AppendLive(&LegacyObject{
		Name: "root", Flags: 0, Owner: NOTHING,
		Location: NOTHING, Contents: NOTHING, Next: NOTHING,
		Parent: NOTHING, Child: NOTHING, Sibling: NOTHING,
	})

	if broken := ValidateLegacy(lt); broken {
		t.Fatal("minimal legacy DB should validate cleanly")
	}

	cur := Upgrade(lt)
	root := cur.Get(0)
	if root == nil {
		t.Fatal("expected object #0 after upgrade")
	}
	if root.Parents.AsObj() != NOTHING {
		t.Errorf("expected parents NOTHING, got %v", root.Parents)
	}
	if len(root.Children.AsList()) != 0 {
		t.Errorf("expected no children, got %v", root.Children)
	}
	if root.Location.AsObj() != NOTHING {
		t.Errorf("expected location NOTHING, got %v", root.Location)
	}
	if len(root.Contents.AsList()) != 0 {
		t.Errorf("expected no contents, got %v", root.Contents)
	}
}

func TestLegacyDanglingParentIsRepaired(t *testing.T) {
	lt := NewLegacyTable()
	lt.AppendLive(&LegacyObject{
		Name: "orphan", Parent: 5,
		Location: NOTHING, Contents: NOTHING, Next: NOTHING,
		Child: NOTHING, Sibling: NOTHING,
	})

	if broken := ValidateLegacy(lt); broken {
		t.Fatal("a dangling parent must be repaired, not fatal")
	}
	if got := lt.Get(0).Parent; got != NOTHING {
		t.Errorf("expected parent repaired to NOTHING, got %v", got)
	}
}

func TestLegacyParentCycleAborts(t *testing.T) {
	lt := NewLegacyTable()
	lt.AppendLive(&LegacyObject{Name: "a", Parent: 1, Location: NOTHING, Contents: NOTHING, Next: NOTHING, Child: NOTHING, Sibling: NOTHING})
	lt.AppendLive(&LegacyObject{Name: "b", Parent: 0, Location: NOTHING, Contents: NOTHING, Next: NOTHING, Child: NOTHING, Sibling: NOTHING})

	if broken := ValidateLegacy(lt); !broken {
		t.Fatal("a parent cycle must abort the load")
	}
}

func TestLegacyBidirectionalMismatch(t *testing.T) {
	lt := NewLegacyTable()
	// #0 claims #1 as child, but #1 doesn't point back.
	lt.AppendLive(&LegacyObject{Name: "p", Child: 1, Location: NOTHING, Contents: NOTHING, Next: NOTHING, Parent: NOTHING, Sibling: NOTHING})
	lt.AppendLive(&LegacyObject{Name: "c", Parent: NOTHING, Location: NOTHING, Contents: NOTHING, Next: NOTHING, Child: NOTHING, Sibling: NOTHING})

	if broken := ValidateLegacy(lt); !broken {
		t.Fatal("a bidirectional parent/child mismatch must be reported as broken")
	}
}

func TestUpgradePreservesChildAndContentsOrder(t *testing.T) {
	lt := NewLegacyTable()
	// #0 is parent/location of #1, #2, #3 in that sibling/next order.
	lt.AppendLive(&LegacyObject{Name: "p", Child: 1, Contents: 1, Location: NOTHING, Next: NOTHING, Parent: NOTHING, Sibling: NOTHING})
	lt.AppendLive(&LegacyObject{Name: "c1", Parent: 0, Location: 0, Sibling: 2, Next: 2, Contents: NOTHING, Child: NOTHING})
	lt.AppendLive(&LegacyObject{Name: "c2", Parent: 0, Location: 0, Sibling: 3, Next: 3, Contents: NOTHING, Child: NOTHING})
	lt.AppendLive(&LegacyObject{Name: "c3", Parent: 0, Location: 0, Sibling: NOTHING, Next: NOTHING, Contents: NOTHING, Child: NOTHING})

	if broken := ValidateLegacy(lt); broken {
		t.Fatal("well-formed chain should validate cleanly")
	}

	cur := Upgrade(lt)
	children := cur.Get(0).Children.AsList()
	want := []Objid{1, 2, 3}
	if len(children) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(children))
	}
	for i, w := range want {
		if children[i].AsObj() != w {
			t.Errorf("children[%d] = %v, want #%d", i, children[i], w)
		}
	}
	contents := cur.Get(0).Contents.AsList()
	if len(contents) != len(want) {
		t.Fatalf("expected %d contents, got %d", len(want), len(contents))
	}
	for i, w := range want {
		if contents[i].AsObj() != w {
			t.Errorf("contents[%d] = %v, want #%d", i, contents[i], w)
		}
	}
}
