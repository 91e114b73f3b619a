package unparse

import "testing"

func TestWriteDefineBlockFoldsContinuations(t *testing.T) {
	src := "#define { MAX(a,b)\n((a)>(b)?(a):(b))\n#define }\n"
	got := render(t, src, Options{})
	want := "#define MAX(a,b) \\\n((a)>(b)?(a):(b)) \\\n/* End #define */\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
