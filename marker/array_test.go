package marker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sentido-labs/cedro/token"
)

func ids(ns ...int) []Marker {
	ms := make([]Marker, len(ns))
	for i, n := range ns {
		ms[i] = New(n, 1, token.Other)
	}
	return ms
}

func TestSpliceLengthAndUnchangedEnds(t *testing.T) {
	a := FromSlice(ids(0, 1, 2, 3, 4))
	insert := ids(100, 101)
	before := a.Len()
	a.Splice(2, 1, nil, insert)
	if got, want := a.Len(), before-1+len(insert); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if diff := cmp.Diff(ids(0, 1), a.Slice()[:2]); diff != "" {
		t.Errorf("prefix mismatch (-want +got):\n%s", diff)
	}
	// suffix after insertion unchanged (shifted, same content)
	tailWant := []int{3, 4}
	for i, want := range tailWant {
		got := a.Get(2 + len(insert) + i)
		if got.Start != want {
			t.Errorf("suffix marker %d = %+v, want Start=%d", i, got, want)
		}
	}
}

func TestSpliceWithSink(t *testing.T) {
	a := FromSlice(ids(0, 1, 2, 3))
	var sink []Marker
	a.Splice(1, 2, &sink, nil)
	if len(sink) != 2 || sink[0].Start != 1 || sink[1].Start != 2 {
		t.Errorf("sink = %+v, want deleted markers [1,2]", sink)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestSpliceFromDifferentArrayIsSafe(t *testing.T) {
	a := FromSlice(ids(0, 1, 2))
	other := FromSlice(ids(9, 9))
	a.Splice(1, 1, nil, other.Slice())
	if a.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", a.Len())
	}
}

func TestSpliceAliasPanics(t *testing.T) {
	a := FromSlice(ids(0, 1, 2, 3))
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic when insert slice aliases the array's own storage")
		}
	}()
	a.Splice(0, 1, nil, a.Slice()[1:3])
}

func TestIndexOf(t *testing.T) {
	a := FromSlice(ids(10, 20, 30))
	if i := a.IndexOf(20); i != 1 {
		t.Errorf("IndexOf(20) = %d, want 1", i)
	}
	if i := a.IndexOf(999); i != -1 {
		t.Errorf("IndexOf(999) = %d, want -1", i)
	}
}

func TestDeleteAndTruncate(t *testing.T) {
	a := FromSlice(ids(0, 1, 2, 3))
	a.Delete(1, 2)
	if a.Len() != 2 {
		t.Fatalf("Len() after Delete = %d, want 2", a.Len())
	}
	a.Truncate(1)
	if a.Len() != 1 {
		t.Errorf("Len() after Truncate = %d, want 1", a.Len())
	}
}

func TestStartEnd(t *testing.T) {
	a := FromSlice([]Marker{New(5, 3, token.Identifier), New(20, 2, token.Semicolon)})
	if a.Start() != 5 {
		t.Errorf("Start() = %d, want 5", a.Start())
	}
	if a.End() != 22 {
		t.Errorf("End() = %d, want 22", a.End())
	}
}
