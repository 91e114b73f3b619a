package buffer

import (
	"bytes"
	"testing"
)

func TestNewFromBytesPadding(t *testing.T) {
	b := NewFromBytes([]byte("abc"))
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	tail := b.Slice(3, 3+Padding)
	if !bytes.Equal(tail, make([]byte, Padding)) {
		t.Errorf("padding tail is not zeroed: %v", tail)
	}
}

func TestAppend(t *testing.T) {
	b := NewFromBytes([]byte("abc"))
	off := b.Append([]byte("def"))
	if off != 3 {
		t.Fatalf("Append offset = %d, want 3", off)
	}
	if !bytes.Equal(b.Bytes(), []byte("abcdef")) {
		t.Errorf("Bytes() = %q, want %q", b.Bytes(), "abcdef")
	}
}

func TestInternFindsExisting(t *testing.T) {
	b := NewFromBytes([]byte("x = a, b;"))
	start, length := b.Intern(", ")
	if start != 5 || length != 2 {
		t.Errorf("Intern(\", \") = (%d, %d), want (5, 2)", start, length)
	}
	lenBefore := b.Len()
	b.Intern(", ")
	if b.Len() != lenBefore {
		t.Errorf("Intern should not append when text already present")
	}
}

func TestInternAppendsWhenAbsent(t *testing.T) {
	b := NewFromBytes([]byte("abc"))
	start, length := b.Intern("(void*)")
	if length != len("(void*)") {
		t.Fatalf("length = %d", length)
	}
	if got := string(b.Slice(start, start+length)); got != "(void*)" {
		t.Errorf("interned text = %q", got)
	}
}

func TestGrowthPreservesContent(t *testing.T) {
	b := New()
	var want []byte
	for i := 0; i < 1000; i++ {
		chunk := []byte("0123456789")
		b.Append(chunk)
		want = append(want, chunk...)
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("content diverged after repeated growth")
	}
}
