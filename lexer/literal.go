package lexer

import "github.com/sentido-labs/cedro/diag"

// scanQuoted scans a string (quote='"') or character (quote='\'') literal
// starting at data[0] == quote, honoring backslash escapes and \+LF line
// continuation (ISO/IEC 9899 line splicing). Returns the full byte length
// including both quote characters. err is non-nil if the literal is
// unterminated (a bare newline or EOF is reached before the closing quote).
func scanQuoted(data []byte, offset int, quote byte) (length int, err *diag.Error) {
	i := 1
	for {
		if i >= len(data) || data[i] == 0 {
			return i, diag.New(offset, "unterminated %s literal", literalName(quote))
		}
		switch data[i] {
		case quote:
			return i + 1, nil
		case '\n':
			return i, diag.New(offset, "unterminated %s literal", literalName(quote))
		case '\\':
			if i+1 < len(data) && data[i+1] == '\n' {
				i += 2 // line continuation, literal continues on the next line
				continue
			}
			if i+1 >= len(data) || data[i+1] == 0 {
				return i, diag.New(offset, "unterminated %s literal", literalName(quote))
			}
			i += 2
		default:
			i++
		}
	}
}

func literalName(quote byte) string {
	if quote == '"' {
		return "string"
	}
	return "character"
}

// scanLineComment scans a "//" line comment up to (but not including) the
// terminating newline, honoring \+LF continuation so a comment spanning
// continued physical lines is a single COMMENT marker.
func scanLineComment(data []byte) int {
	i := 2
	for i < len(data) && data[i] != 0 {
		if data[i] == '\n' {
			if i > 0 && data[i-1] == '\\' {
				i++
				continue
			}
			return i
		}
		i++
	}
	return i
}

// scanBlockComment scans a "/*...*/" comment. Returns the full byte length
// including both delimiters. err is non-nil if EOF is reached first.
func scanBlockComment(data []byte, offset int) (length int, err *diag.Error) {
	i := 2
	for {
		if i+1 >= len(data) || data[i] == 0 {
			return i, diag.New(offset, "unterminated comment")
		}
		if data[i] == '*' && data[i+1] == '/' {
			return i + 2, nil
		}
		i++
	}
}

// scanSpace scans a run of space/tab/newline/carriage-return bytes,
// including \+LF line continuations, which spec.md §4.1 says are absorbed by
// the space recognizer.
func scanSpace(data []byte) int {
	i := 0
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			i++
		case '\\':
			if i+1 < len(data) && data[i+1] == '\n' {
				i += 2
				continue
			}
			return i
		default:
			return i
		}
	}
	return i
}
