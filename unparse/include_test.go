package unparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteIncludeEmbedsBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "table.bin"), []byte{0x01, 0x02, 0xFF}, 0o644); err != nil {
		t.Fatal(err)
	}

	src := "#include {data/table.bin}\n"
	got := render(t, src, Options{
		SourceFile: filepath.Join(dir, "main.c"),
		ReadFile:   os.ReadFile,
	})
	want := "[3] = { /* table.bin */\n0x01,0x02,0xFF\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteIncludeEmbedMissingFileEmitsError(t *testing.T) {
	dir := t.TempDir()
	src := "#include {missing.bin}\n"
	got := render(t, src, Options{
		SourceFile: filepath.Join(dir, "main.c"),
		ReadFile:   os.ReadFile,
	})
	if got == "" {
		t.Fatal("expected non-empty output for a missing #include {} target")
	}
	wantPrefix := ";\n#error "
	if len(got) < len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("got %q, want prefix %q", got, wantPrefix)
	}
}
