package lexer

import (
	"bytes"

	"github.com/sentido-labs/cedro/buffer"
)

// Prelude locates the activation pragma and reports how much of the input
// it covers, per spec.md §4.1.1: the first line whose token form is
// "#pragma Cedro <major>.<minor>…". Everything before that line, plus any
// trailing empty lines immediately after it, belongs to one inert NONE
// marker the unparser emits verbatim. A file without the pragma yields
// preludeEnd == buf.Len(): one NONE marker spanning the whole input and no
// transform passes run.
type Pragma struct {
	Major, Minor int
	Features     []string
	// LineStart is the byte offset of the '#' that begins the pragma line.
	LineStart int
	// Found reports whether an activation pragma was located at all.
	Found bool
}

// FindPrelude scans buf for the first "#pragma Cedro X.Y …" line and
// returns the byte offset just past it (including trailing blank lines) and
// the parsed pragma, or (buf.Len(), Pragma{}) if none is present.
func FindPrelude(buf *buffer.Buffer) (preludeEnd int, pragma Pragma) {
	data := buf.Bytes()
	i := 0
	for i < len(data) {
		lineStart := i
		lineEnd := indexLineEnd(data, i)
		if looksLikePragmaLine(data[lineStart:lineEnd]) {
			if p, ok := parsePragmaLine(data[lineStart:lineEnd]); ok {
				p.LineStart = lineStart
				p.Found = true
				end := lineEnd
				if end < len(data) && data[end] == '\n' {
					end++
				}
				end = skipBlankLines(data, end)
				return end, p
			}
		}
		i = lineEnd
		if i < len(data) && data[i] == '\n' {
			i++
		}
	}
	return len(data), Pragma{}
}

// indexLineEnd returns the offset of the next '\n' at or after i, honoring
// \+LF continuations (which do not end the logical line), or len(data) if
// none remains.
func indexLineEnd(data []byte, i int) int {
	for i < len(data) {
		if data[i] == '\n' {
			return i
		}
		if data[i] == '\\' && i+1 < len(data) && data[i+1] == '\n' {
			i += 2
			continue
		}
		i++
	}
	return len(data)
}

func skipBlankLines(data []byte, i int) int {
	for i < len(data) {
		j := i
		for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\r') {
			j++
		}
		if j < len(data) && data[j] == '\n' {
			i = j + 1
			continue
		}
		break
	}
	return i
}

func looksLikePragmaLine(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return bytes.HasPrefix(trimmed, []byte("#"))
}

// parsePragmaLine performs the minimal pattern-match spec.md requires: it
// does not use the participle grammar in package pragma (which parses the
// already-isolated text for validation and feature-word extraction), since
// at this stage we are merely searching for the *first occurrence* among
// possibly many comments/strings containing similar text.
func parsePragmaLine(line []byte) (Pragma, bool) {
	fields := splitFields(line)
	if len(fields) < 2 || string(fields[0]) != "#pragma" && !looksLikeHashPragma(fields) {
		return Pragma{}, false
	}
	idx := 0
	if string(fields[0]) == "#pragma" {
		idx = 1
	} else {
		idx = 2 // "#" "pragma" split as two fields
	}
	if idx >= len(fields) || string(fields[idx]) != "Cedro" {
		return Pragma{}, false
	}
	idx++
	if idx >= len(fields) {
		return Pragma{}, false
	}
	major, minor, ok := parseVersion(fields[idx])
	if !ok {
		return Pragma{}, false
	}
	var features []string
	for _, f := range fields[idx+1:] {
		features = append(features, string(f))
	}
	return Pragma{Major: major, Minor: minor, Features: features}, true
}

func looksLikeHashPragma(fields [][]byte) bool {
	return len(fields) >= 2 && string(fields[0]) == "#" && string(fields[1]) == "pragma"
}

func splitFields(line []byte) [][]byte {
	var fields [][]byte
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		if j > i {
			fields = append(fields, line[i:j])
		}
		i = j
	}
	return fields
}

func parseVersion(field []byte) (major, minor int, ok bool) {
	dot := bytes.IndexByte(field, '.')
	if dot < 0 {
		return 0, 0, false
	}
	major, ok1 := parseDecimal(field[:dot])
	minor, ok2 := parseDecimal(field[dot+1:])
	return major, minor, ok1 && ok2
}

func parseDecimal(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
