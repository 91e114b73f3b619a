package unparse

import (
	"strings"

	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/token"
)

// emitForeachBlock expands the "#foreach { header" ... "#foreach }" block
// whose header marker is at index i, writing one copy of the body per
// value row with its variables substituted. Grounded on original_source's
// #foreach dispatch and body-expansion (src/cedro.c): a bare "#" before an
// operator is the conditional-comma idiom (emitted on every row but the
// last), "##" concatenates the surrounding tokens with no space between,
// and "#" before a bound identifier stringizes its current value.
func (u *unparser) emitForeachBlock(i int) (int, *diag.Error) {
	text, end, err := u.expandForeach(i)
	if err != nil {
		return 0, err
	}
	u.writeText(text)
	if end-i < 1 {
		return 1, nil
	}
	return end - i, nil
}

// expandForeach parses and fully expands the foreach block headed at index
// i against the unparser's current nested-scope environment, returning the
// expanded text and the index just past the block's closing marker.
func (u *unparser) expandForeach(i int) (string, int, *diag.Error) {
	header := u.arr.Get(i)
	rest := foreachHeaderRemainder(header.Text(u.src))
	_, rows, perr := parseForeachHeader(rest, u.currentScope())
	if perr != nil {
		return "", 0, diag.New(header.Start, "%v", perr)
	}

	bodyStart := i + 1
	bodyEnd, closerEnd, derr := u.findForeachCloser(header.Start, bodyStart)
	if derr != nil {
		return "", 0, derr
	}

	// The whitespace marker right after the header is just the newline
	// ending the "#foreach {" line, not part of the per-row template; it is
	// consumed once here rather than repeated with every row.
	templateStart := bodyStart
	if templateStart < bodyEnd {
		if m := u.arr.Get(templateStart); m.Kind == token.Space || m.Kind == token.Comment {
			templateStart++
		}
	}

	var out strings.Builder
	for rowIdx, row := range rows {
		u.scope.Push(row)
		piece, derr := u.expandForeachBody(templateStart, bodyEnd, rowIdx == len(rows)-1)
		u.scope.Pop()
		if derr != nil {
			return "", 0, derr
		}
		out.WriteString(piece)
	}
	return out.String(), closerEnd, nil
}

// currentScope merges every enclosing foreach iteration's bindings, inner
// scopes shadowing outer ones.
func (u *unparser) currentScope() map[string]string {
	merged := map[string]string{}
	for d := 0; d < u.scope.Depth(); d++ {
		for k, v := range *u.scope.At(d) {
			merged[k] = v
		}
	}
	return merged
}

// findForeachCloser scans from start for the "#foreach }" matching the
// block opened at headerStart, skipping over any nested foreach blocks by
// depth.
func (u *unparser) findForeachCloser(headerStart, start int) (bodyEnd, closerEnd int, err *diag.Error) {
	depth := 1
	for idx := start; idx < u.arr.Len(); idx++ {
		m := u.arr.Get(idx)
		if m.Kind != token.Preprocessor {
			continue
		}
		trimmed := strings.TrimSpace(m.Text(u.src))
		switch {
		case strings.HasPrefix(trimmed, "#foreach") && braceHeader(trimmed, "#foreach"):
			depth++
		case isForeachCloser(trimmed):
			depth--
			if depth == 0 {
				return idx, idx + 1, nil
			}
		}
	}
	return 0, 0, diag.New(headerStart, "unterminated #foreach { block")
}

func isForeachCloser(trimmed string) bool {
	rest := strings.TrimPrefix(trimmed, "#foreach")
	if rest == trimmed {
		return false
	}
	return strings.TrimSpace(rest) == "}"
}

// foreachHeaderRemainder strips the "#foreach {" prefix from a header
// marker's text, leaving the var-spec and value-list text to parse, with
// each \+LF continuation folded to a space.
func foreachHeaderRemainder(text string) string {
	rest := strings.TrimPrefix(strings.TrimSpace(text), "#foreach")
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, "{")
	return strings.ReplaceAll(rest, "\\\n", " ")
}

// expandForeachBody renders markers [start, end) once, substituting bound
// identifiers from the current scope and resolving the "#", "##" and
// stringizing forms. isLast gates the conditional-comma idiom.
func (u *unparser) expandForeachBody(start, end int, isLast bool) (string, *diag.Error) {
	scope := u.currentScope()
	var b strings.Builder
	suppressSpace := false
	j := start
	for j < end {
		m := u.arr.Get(j)

		if m.Kind == token.Preprocessor {
			trimmed := strings.TrimSpace(m.Text(u.src))
			if strings.HasPrefix(trimmed, "#foreach") && braceHeader(trimmed, "#foreach") {
				nested, nextIdx, derr := u.expandForeach(j)
				if derr != nil {
					return "", derr
				}
				b.WriteString(nested)
				j = nextIdx
				suppressSpace = false
				continue
			}

			text := m.Text(u.src)
			switch text {
			case "##":
				trimTrailingSpace(&b)
				suppressSpace = true
				j++
				continue
			case "#":
				next, nextIdx, ok := u.nextSignificant(j+1, end)
				if ok && next.Kind == token.Identifier {
					if val, bound := scope[next.Text(u.src)]; bound {
						b.WriteString(quoteCString(val))
						j = nextIdx + 1
						suppressSpace = false
						continue
					}
				}
				if !ok {
					j++
					continue
				}
				if !isLast {
					b.WriteString(next.Text(u.src))
				} else {
					suppressSpace = true
				}
				j = nextIdx + 1
				continue
			}
		}

		if m.Kind == token.Space || m.Kind == token.Comment {
			if !suppressSpace {
				b.WriteString(m.Text(u.src))
			}
			j++
			continue
		}

		suppressSpace = false
		if m.Kind == token.Identifier {
			name := m.Text(u.src)
			if val, ok := scope[name]; ok {
				b.WriteString(val)
			} else {
				b.WriteString(u.identifierText(m))
			}
		} else {
			b.WriteString(m.Text(u.src))
		}
		j++
	}
	return b.String(), nil
}

// nextSignificant returns the first non-whitespace marker at or after j,
// bounded by end.
func (u *unparser) nextSignificant(j, end int) (marker.Marker, int, bool) {
	for ; j < end; j++ {
		m := u.arr.Get(j)
		if !token.IsWhitespace(m.Kind) {
			return m, j, true
		}
	}
	return marker.Marker{}, 0, false
}

func trimTrailingSpace(b *strings.Builder) {
	trimmed := strings.TrimRight(b.String(), " \t\n")
	b.Reset()
	b.WriteString(trimmed)
}

// quoteCString renders value as a double-quoted C string literal, escaping
// backslashes and embedded quotes.
func quoteCString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
