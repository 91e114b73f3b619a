package slice

import (
	"testing"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/lexer"
	"github.com/sentido-labs/cedro/marker"
)

func lexLine(t *testing.T, src string) (*buffer.Buffer, *marker.Array) {
	t.Helper()
	buf := buffer.NewFromBytes([]byte(src))
	arr := &marker.Array{}
	if err := lexer.Lex(buf, 0, buf.Len(), arr, lexer.DefaultOptions()); err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return buf, arr
}

func render(buf *buffer.Buffer, arr *marker.Array) string {
	var out []byte
	for i := 0; i < arr.Len(); i++ {
		m := arr.Get(i)
		out = append(out, buf.Slice(m.Start, m.End())...)
	}
	return string(out)
}

func TestSliceWithOffset(t *testing.T) {
	buf, arr := lexLine(t, "fn(a[10..+5]);")
	if err := Run(arr, buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "fn(&a[10], &a[10+5]);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSliceTwoBounds(t *testing.T) {
	buf, arr := lexLine(t, "x[a..b];")
	if err := Run(arr, buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "&x[a], &x[b];"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
