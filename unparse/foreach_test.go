package unparse

import "testing"

func TestWriteForeachBasicSubstitutionAndConditionalComma(t *testing.T) {
	src := "#foreach { N {1, 2}\nx(N)#,\n#foreach }\n"
	got := render(t, src, Options{})
	want := "x(1),\nx(2)\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteForeachStringizesBoundIdentifier(t *testing.T) {
	src := "#foreach { N {1, 2}\ny(#N)\n#foreach }"
	got := render(t, src, Options{})
	want := `y("1")` + "\n" + `y("2")` + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteForeachTupleVarSpec(t *testing.T) {
	src := "#foreach { {T, N} {{int, a}, {char, b}}\nT N;\n#foreach }"
	got := render(t, src, Options{})
	want := "int a;\nchar b;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
