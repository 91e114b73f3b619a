package self

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

func TestSelfDisabledIsNoOp(t *testing.T) {
	buf, arr := lexLine(t, "obj.greet();")
	if err := Run(arr, buf, Options{Enabled: false}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := render(buf, arr), "obj.greet();"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSelfValueMember(t *testing.T) {
	buf, arr := lexLine(t, "obj.greet();")
	if err := Run(arr, buf, Options{Enabled: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "obj.greet((void*)&obj);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSelfPointerMemberWithArgs(t *testing.T) {
	buf, arr := lexLine(t, "a->b(x);")
	if err := Run(arr, buf, Options{Enabled: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "a->b((void*)a, x);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSelfSkipsNonCallMemberAccess(t *testing.T) {
	buf, arr := lexLine(t, "obj.field;")
	if err := Run(arr, buf, Options{Enabled: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := render(buf, arr), "obj.field;"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
