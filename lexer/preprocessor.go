package lexer

import "github.com/sentido-labs/cedro/diag"

// directiveWords lists the recognized preprocessor directive words in the
// priority order original_source's preprocessor() dispatches them (longest,
// most specific words first so e.g. "ifdef" is tried before "if"). A
// directive word only swallows the rest of its logical line when it is
// immediately followed by a space, a newline, or end of input; anything
// else (e.g. "#definefoo") is just the bare word, matching
// original_source's "not a real directive, stop here" fallback.
var directiveWords = []string{
	"include_next",
	"include", "warning", "foreach",
	"define", "pragma", "ifndef", "import", "assert",
	"endif", "error", "ifdef", "undef", "ident",
	"line", "sccs", "ifeq", "elif", "else",
	"if",
}

// scanPreprocessorLine scans a preprocessor-introduced lexeme starting at
// data[0] == '#'. Three shapes: "##" (token concatenation, 2 bytes), a bare
// "#" not followed by a recognized directive word (1 byte — original_source's
// "single #, may be expanded if inside a #foreach block"), or a recognized
// directive word, which additionally swallows the rest of the logical line
// (honoring \+LF continuations) when a boundary follows the word.
func scanPreprocessorLine(data []byte, offset int) (length int, word string, err *diag.Error) {
	if len(data) < 2 || data[1] == 0 {
		return 1, "", nil
	}
	if data[1] == '#' {
		return 2, "##", nil
	}

	matchedWord, ok := matchDirectiveWord(data[1:])
	if !ok {
		return 1, "", nil
	}
	word = matchedWord
	cursor := 1 + len(word) // account for the leading '#' skipped above

	if rejectedDirectiveWords.Contains(word) {
		return cursor, word, diag.New(offset, "directive #%s is not supported", word)
	}
	if cursor >= len(data) || data[cursor] == 0 {
		return cursor, word, nil
	}
	if data[cursor] != ' ' && data[cursor] != '\n' {
		return cursor, word, nil
	}
	i := cursor
	for {
		nl := indexByteFrom(data, i, '\n')
		if nl < 0 {
			return len(data), word, nil
		}
		if data[nl-1] != '\\' {
			return nl, word, nil
		}
		i = nl + 1
	}
}

// matchDirectiveWord tries each entry of directiveWords as a literal prefix
// of body, returning the matched word.
func matchDirectiveWord(body []byte) (word string, ok bool) {
	for _, w := range directiveWords {
		if len(body) >= len(w) && string(body[:len(w)]) == w {
			return w, true
		}
	}
	return "", false
}

func indexByteFrom(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}
