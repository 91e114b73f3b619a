package unparse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/lexer"
	"github.com/sentido-labs/cedro/marker"
)

func render(t *testing.T, src string, opts Options) string {
	t.Helper()
	buf := buffer.NewFromBytes([]byte(src))
	arr := &marker.Array{}
	if err := lexer.Lex(buf, 0, buf.Len(), arr, lexer.DefaultOptions()); err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	var out bytes.Buffer
	if err := Write(&out, arr, buf, opts); err != nil {
		t.Fatalf("Write(%q): %v", src, err)
	}
	return out.String()
}

func TestWritePassthroughRoundTrips(t *testing.T) {
	src := "int x = 1;\nif (x) {\n  x = x + 1;\n}\n"
	got := render(t, src, Options{})
	if got != src {
		t.Fatalf("got %q, want %q", got, src)
	}
}

func TestWriteEscapesUCNWhenEnabled(t *testing.T) {
	ident := "état"
	src := "int " + ident + " = 1;"
	got := render(t, src, Options{EscapeUCN: true})
	want := "int " + escapeUCN(ident) + " = 1;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.Contains(want, `\u`) {
		t.Fatalf("expected an escaped universal-character-name in want, got %q", want)
	}
}

func TestWriteLeavesUCNAloneByDefault(t *testing.T) {
	src := "int état = 1;"
	got := render(t, src, Options{})
	if got != src {
		t.Fatalf("got %q, want %q", got, src)
	}
}

func TestWritePassesUnrecognizedDirectivesThrough(t *testing.T) {
	src := "#ifdef FOO\nint x;\n#endif\n"
	got := render(t, src, Options{})
	if got != src {
		t.Fatalf("got %q, want %q", got, src)
	}
}
