package lexer

import (
	"testing"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/token"
)

func lexAll(t *testing.T, src string) (*buffer.Buffer, *marker.Array) {
	t.Helper()
	buf := buffer.NewFromBytes([]byte(src))
	arr := &marker.Array{}
	if err := Lex(buf, 0, buf.Len(), arr, DefaultOptions()); err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return buf, arr
}

func kinds(arr *marker.Array) []token.Kind {
	ks := make([]token.Kind, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		ks[i] = arr.Get(i).Kind
	}
	return ks
}

func significantKinds(arr *marker.Array) []token.Kind {
	var ks []token.Kind
	for i := 0; i < arr.Len(); i++ {
		if k := arr.Get(i).Kind; !token.IsWhitespace(k) {
			ks = append(ks, k)
		}
	}
	return ks
}

func texts(buf *buffer.Buffer, arr *marker.Array) []string {
	var out []string
	for i := 0; i < arr.Len(); i++ {
		m := arr.Get(i)
		out = append(out, m.Text(buf.Bytes()))
	}
	return out
}

func assertKinds(t *testing.T, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (full: got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	_, arr := lexAll(t, "int x = foo;")
	got := significantKinds(arr)
	want := []token.Kind{token.Type, token.Identifier, token.Op14, token.Identifier, token.Semicolon}
	assertKinds(t, got, want)
}

func TestLexControlFlowKeywords(t *testing.T) {
	_, arr := lexAll(t, "if (x) { return; } else { break; }")
	got := significantKinds(arr)
	want := []token.Kind{
		token.ControlFlowIf, token.TupleStart, token.Identifier, token.TupleEnd,
		token.BlockStart, token.ControlFlowReturn, token.Semicolon, token.BlockEnd,
		token.ControlFlowIf, token.BlockStart, token.ControlFlowBreak, token.Semicolon, token.BlockEnd,
	}
	assertKinds(t, got, want)
}

func TestLexNumbers(t *testing.T) {
	buf, arr := lexAll(t, "1 3.14 0x1F 3.4.6 1e10 .5")
	got := significantKinds(arr)
	for _, k := range got {
		if k != token.Number {
			t.Fatalf("expected all Number tokens, got %v", got)
		}
	}
	txt := texts(buf, arr)
	var nums []string
	for i := 0; i < arr.Len(); i++ {
		if arr.Get(i).Kind == token.Number {
			nums = append(nums, txt[i])
		}
	}
	want := []string{"1", "3.14", "0x1F", "3.4.6", "1e10", ".5"}
	if len(nums) != len(want) {
		t.Fatalf("got %v, want %v", nums, want)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Fatalf("number[%d] = %q, want %q", i, nums[i], want[i])
		}
	}
}

func TestLexStringAndCharLiterals(t *testing.T) {
	buf, arr := lexAll(t, `"hello\nworld" 'a' '\''`)
	got := significantKinds(arr)
	want := []token.Kind{token.String, token.Character, token.Character}
	assertKinds(t, got, want)
	txt := texts(buf, arr)
	var lits []string
	for i := 0; i < arr.Len(); i++ {
		if arr.Get(i).Kind == token.String || arr.Get(i).Kind == token.Character {
			lits = append(lits, txt[i])
		}
	}
	if lits[0] != `"hello\nworld"` {
		t.Fatalf("string literal = %q", lits[0])
	}
	if lits[2] != `'\''` {
		t.Fatalf("escaped-quote char literal = %q", lits[2])
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	buf := buffer.NewFromBytes([]byte(`"unterminated`))
	arr := &marker.Array{}
	err := Lex(buf, 0, buf.Len(), arr, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestLexUnterminatedBlockCommentIsError(t *testing.T) {
	buf := buffer.NewFromBytes([]byte(`/* never closed`))
	arr := &marker.Array{}
	err := Lex(buf, 0, buf.Len(), arr, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestLexComments(t *testing.T) {
	buf, arr := lexAll(t, "int x; // trailing\n/* block */ int y;")
	var comments []string
	txt := texts(buf, arr)
	for i := 0; i < arr.Len(); i++ {
		if arr.Get(i).Kind == token.Comment {
			comments = append(comments, txt[i])
		}
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %v", comments)
	}
	if comments[0] != "// trailing" || comments[1] != "/* block */" {
		t.Fatalf("comments = %v", comments)
	}
}

func TestLexPrefixVsInfixOperators(t *testing.T) {
	_, arr := lexAll(t, "a = -b + *c & d;")
	got := significantKinds(arr)
	want := []token.Kind{
		token.Identifier, token.Op14, token.Op2, token.Identifier,
		token.Op4, token.Op2, token.Identifier, token.Op8, token.Identifier,
		token.Semicolon,
	}
	assertKinds(t, got, want)
}

func TestLexMultiCharOperatorsLongestMatchWins(t *testing.T) {
	_, arr := lexAll(t, "a <<= 1; b >>= 2; c ... d;")
	got := significantKinds(arr)
	want := []token.Kind{
		token.Identifier, token.Op14, token.Number, token.Semicolon,
		token.Identifier, token.Op14, token.Number, token.Semicolon,
		token.Identifier, token.Ellipsis, token.Identifier, token.Semicolon,
	}
	assertKinds(t, got, want)
}

func TestLexLabelColonVsTernary(t *testing.T) {
	_, arr := lexAll(t, "start: x = cond ? a : b;")
	got := significantKinds(arr)
	want := []token.Kind{
		token.ControlFlowLabel, token.LabelColon,
		token.Identifier, token.Op14, token.Identifier, token.Op13,
		token.Identifier, token.Op13, token.Identifier, token.Semicolon,
	}
	assertKinds(t, got, want)
}

func TestLexLabelAfterBlockStart(t *testing.T) {
	_, arr := lexAll(t, "{ again: goto again; }")
	got := significantKinds(arr)
	want := []token.Kind{
		token.BlockStart, token.ControlFlowLabel, token.LabelColon,
		token.ControlFlowGoto, token.Identifier, token.Semicolon, token.BlockEnd,
	}
	assertKinds(t, got, want)
}

func TestLexCaseColonIsLabelColon(t *testing.T) {
	_, arr := lexAll(t, "switch (x) { case 1: break; default: break; }")
	got := significantKinds(arr)
	want := []token.Kind{
		token.ControlFlowSwitch, token.TupleStart, token.Identifier, token.TupleEnd, token.BlockStart,
		token.ControlFlowCase, token.Number, token.LabelColon, token.ControlFlowBreak, token.Semicolon,
		token.ControlFlowCase, token.LabelColon, token.ControlFlowBreak, token.Semicolon,
		token.BlockEnd,
	}
	assertKinds(t, got, want)
}

func TestLexPreprocessorLine(t *testing.T) {
	_, arr := lexAll(t, "#include <stdio.h>\nint x;")
	got := kinds(arr)
	if got[0] != token.Preprocessor {
		t.Fatalf("first kind = %v, want Preprocessor", got[0])
	}
}

func TestLexBareHashAndConcatInsideForeachBody(t *testing.T) {
	buf, arr := lexAll(t, "a #, b## c")
	got := significantKinds(arr)
	want := []token.Kind{
		token.Identifier, token.Preprocessor, token.Comma, token.Identifier,
		token.Preprocessor, token.Identifier,
	}
	assertKinds(t, got, want)
	txt := texts(buf, arr)
	var hashes []string
	for i := 0; i < arr.Len(); i++ {
		if arr.Get(i).Kind == token.Preprocessor {
			hashes = append(hashes, txt[i])
		}
	}
	if len(hashes) != 2 || hashes[0] != "#" || hashes[1] != "##" {
		t.Fatalf("preprocessor tokens = %v, want [# ##]", hashes)
	}
}

func TestLexRejectedDirectiveIsError(t *testing.T) {
	buf := buffer.NewFromBytes([]byte("#assert foo(bar)\n"))
	arr := &marker.Array{}
	err := Lex(buf, 0, buf.Len(), arr, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for #assert")
	}
}

func TestLexDeferKeyword(t *testing.T) {
	opts := Options{DeferKeyword: "defer"}
	buf := buffer.NewFromBytes([]byte("defer close(f);"))
	arr := &marker.Array{}
	if err := Lex(buf, 0, buf.Len(), arr, opts); err != nil {
		t.Fatalf("Lex: %v", err)
	}
	got := significantKinds(arr)
	if got[0] != token.ControlFlowDefer {
		t.Fatalf("first significant kind = %v, want ControlFlowDefer", got[0])
	}
}

func TestLexBackstitch(t *testing.T) {
	_, arr := lexAll(t, "@ x;")
	got := significantKinds(arr)
	want := []token.Kind{token.Backstitch, token.Identifier, token.Semicolon}
	assertKinds(t, got, want)
}

func TestLexUTF8LetterInIdentifier(t *testing.T) {
	buf, arr := lexAll(t, `état = 1;`)
	got := significantKinds(arr)
	if got[0] != token.Identifier {
		t.Fatalf("first kind = %v, want Identifier", got[0])
	}
	txt := texts(buf, arr)
	if txt[0] != `état` {
		t.Fatalf("identifier text = %q", txt[0])
	}
}

func TestLexSpliceContinuationInIdentifierBoundary(t *testing.T) {
	_, arr := lexAll(t, "int x\\\n = 1;")
	got := significantKinds(arr)
	want := []token.Kind{token.Type, token.Identifier, token.Op14, token.Number, token.Semicolon}
	assertKinds(t, got, want)
}

func TestLexEllipsisInParameterList(t *testing.T) {
	_, arr := lexAll(t, "void f(int a, ...);")
	got := significantKinds(arr)
	want := []token.Kind{
		token.Type, token.Identifier, token.TupleStart, token.Type, token.Identifier,
		token.Comma, token.Ellipsis, token.TupleEnd, token.Semicolon,
	}
	assertKinds(t, got, want)
}
