package value

import (
	"bytes"
	"testing"
)

func TestRoundTripPrimitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteInt(-42)
	w.WriteObj(NOTHING)
	w.WriteObj(7)
	w.WriteString("hello\nworld")
	w.WriteString("")
	w.Flush()

	r := NewReader(&buf)
	if got := r.ReadInt(); got != -42 {
		t.Errorf("ReadInt: got %d", got)
	}
	if got := r.ReadObj(); got != NOTHING {
		t.Errorf("ReadObj: got %v", got)
	}
	if got := r.ReadObj(); got != 7 {
		t.Errorf("ReadObj: got %v", got)
	}
	if got := r.ReadString(); got != "hello\nworld" {
		t.Errorf("ReadString: got %q", got)
	}
	if got := r.ReadString(); got != "" {
		t.Errorf("ReadString empty: got %q", got)
	}
}

func TestRoundTripVar(t *testing.T) {
	cases := []Var{
		Int(5),
		Obj(NOTHING),
		Obj(3),
		Str("a string"),
		List([]Var{Int(1), Obj(2), Str("x")}),
		List(nil),
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, v := range cases {
		w.WriteVar(v)
	}
	w.Flush()

	r := NewReader(&buf)
	for i, want := range cases {
		got := r.ReadVar()
		if got.Tag() != want.Tag() || got.String() != want.String() {
			t.Errorf("case %d: want %v got %v", i, want, got)
		}
	}
}

func TestCatchRecoversDBIOFailed(t *testing.T) {
	var buf bytes.Buffer
	r := NewReader(&buf) // empty stream: any read fails

	ok := Catch(func() {
		r.ReadInt()
	})
	if ok {
		t.Fatal("expected Catch to report failure on empty stream")
	}
}

func TestCatchPropagatesOtherPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected non-dbio panic to propagate through Catch")
		}
	}()
	Catch(func() {
		panic("not a dbio failure")
	})
}

func TestObjidsScalarOrList(t *testing.T) {
	if got := Objids(Obj(NOTHING)); len(got) != 0 {
		t.Errorf("scalar NOTHING should flatten to empty, got %v", got)
	}
	if got := Objids(Obj(5)); len(got) != 1 || got[0] != 5 {
		t.Errorf("scalar object should flatten to single-element slice, got %v", got)
	}
	if got := Objids(ObjList([]Objid{1, 2, 3})); len(got) != 3 {
		t.Errorf("list should flatten to all elements, got %v", got)
	}
}
