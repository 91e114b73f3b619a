package backstitch

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

func TestBackstitchPrefixCall(t *testing.T) {
	// A ";"-terminated line joins its segments with ";" followed by the
	// object's indentation (a bare newline here, since the line is the first
	// one) rather than ",", per original_source's backstitch.h and spec.md §4.3: the separator
	// tracks how the line itself ends, not a fixed comma form. This differs
	// from the comma-joined example under spec.md §8 scenario 1, which
	// apparently assumed a non-terminated line; §4.3/original_source is the
	// tie-breaker.
	buf, arr := lexLine(t, "vg @ nvgBeginPath(), nvgFill();")
	if err := Run(arr, buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "nvgBeginPath(vg);\nnvgFill(vg);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBackstitchMethodChain(t *testing.T) {
	buf, arr := lexLine(t, "list @ .push(1), .push(2);")
	if err := Run(arr, buf); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := render(buf, arr)
	want := "list.push(1);\nlist.push(2);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBackstitchUnfinishedOperatorIsError(t *testing.T) {
	buf, arr := lexLine(t, "vg @")
	if err := Run(arr, buf); err == nil {
		t.Fatal("expected an error for an unfinished backstitch operator")
	}
}
