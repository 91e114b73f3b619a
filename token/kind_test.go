package token

import "testing"

func TestPrecedence(t *testing.T) {
	cases := []struct {
		k    Kind
		want int
	}{
		{Op1, 1},
		{Op4, 4},
		{Comma, 15},
	}
	for _, c := range cases {
		if got := Precedence(c.k); got != c.want {
			t.Errorf("Precedence(%v) = %d, want %d", c.k, got, c.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, k := range []Kind{Type, TypeStruct, Typedef, ControlFlowLabel} {
		if !IsKeyword(k) {
			t.Errorf("IsKeyword(%v) = false, want true", k)
		}
	}
	for _, k := range []Kind{Identifier, Op1, Semicolon, Backstitch} {
		if IsKeyword(k) {
			t.Errorf("IsKeyword(%v) = true, want false", k)
		}
	}
}

func TestIsFenceAndMatching(t *testing.T) {
	open, want := []Kind{BlockStart, TupleStart, IndexStart, GroupStart}, []Kind{BlockEnd, TupleEnd, IndexEnd, GroupEnd}
	for i, o := range open {
		if !IsFence(o) || !IsOpenFence(o) {
			t.Errorf("%v should be an open fence", o)
		}
		got, ok := MatchingClose(o)
		if !ok || got != want[i] {
			t.Errorf("MatchingClose(%v) = (%v, %v), want (%v, true)", o, got, ok, want[i])
		}
	}
	if _, ok := MatchingClose(Identifier); ok {
		t.Errorf("MatchingClose(Identifier) should not be ok")
	}
}

func TestStringFallback(t *testing.T) {
	if got := Kind(9999).String(); got == "" {
		t.Errorf("String() returned empty for out-of-range kind")
	}
}
