// Package slice implements the `x[a..b]` / `x[a..+b]` shorthand for pointer
// pairs: `&x[a], &x[b]` and `&x[a], &x[a+b]` respectively. Grounded on
// original_source/template/tools/cedro/macros/slice.h's macro_slice.
package slice

import (
	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/pass/support"
	"github.com/sentido-labs/cedro/token"
)

// Run rewrites every `x[a..b]` / `x[a..+b]` occurrence in arr in place.
func Run(arr *marker.Array, buf *buffer.Buffer) *diag.Error {
	cursor := 0
	for cursor < arr.Len() {
		m := arr.Get(cursor)
		if m.Kind != token.Ellipsis || m.Len != 2 {
			cursor++
			continue
		}
		advance, handled, err := rewriteOne(arr, buf, cursor)
		if err != nil {
			return err
		}
		if !handled {
			cursor++
			continue
		}
		cursor += advance
	}
	return nil
}

func rewriteOne(arr *marker.Array, buf *buffer.Buffer, at int) (advance int, handled bool, err *diag.Error) {
	lineStart, e := support.FindLineStart(arr, 0, at)
	if e != nil {
		return 0, false, e
	}
	lineEnd, e := support.FindLineEnd(arr, at, arr.Len())
	if e != nil {
		return 0, false, e
	}

	aStart, aEnd := lineStart, at
	bStart, bEnd := at+1, lineEnd

	if aStart <= 1 || bEnd >= arr.Len() {
		return 0, false, nil
	}
	if arr.Get(aStart-1).Kind != token.IndexStart || arr.Get(bEnd).Kind != token.IndexEnd {
		return 0, false, nil
	}

	arrayEnd := aStart - 1
	arrayStart := arrayEnd
	nesting := 0
	foundBoundary := false
	for arrayStart != 0 {
		k := arr.Get(arrayStart - 1).Kind
		switch k {
		case token.BlockStart, token.TupleStart, token.IndexStart:
			if nesting == 0 {
				foundBoundary = true
			} else {
				nesting--
			}
		case token.BlockEnd, token.TupleEnd, token.IndexEnd:
			nesting++
		case token.Comma, token.Semicolon, token.Backstitch:
			if nesting == 0 {
				foundBoundary = true
			}
		case token.Op14:
			if nesting == 0 {
				return 0, false, diag.New(arrayStart-1, "this slice needs braces {...} around it")
			}
		}
		if foundBoundary {
			break
		}
		arrayStart--
	}

	aStart = support.SkipSpaceForward(arr, aStart, aEnd)
	aEnd = support.SkipSpaceBack(arr, aStart, aEnd)
	bStart = support.SkipSpaceForward(arr, bStart, bEnd)
	bEnd = support.SkipSpaceBack(arr, bStart, bEnd)
	arrayStart = support.SkipSpaceForward(arr, arrayStart, arrayEnd)
	arrayEnd = support.SkipSpaceBack(arr, arrayStart, arrayEnd)

	arrayIsExpression := arrayEnd-arrayStart > 1
	arrayMarkers := copyRange(arr, arrayStart, arrayEnd)

	addressOf := support.Synthetic(buf, "&", token.Op2)
	openParen := support.Synthetic(buf, "(", token.TupleStart)
	closeParen := support.Synthetic(buf, ")", token.TupleEnd)
	openBracket := support.Synthetic(buf, "[", token.IndexStart)
	closeBracket := support.Synthetic(buf, "]", token.IndexEnd)
	comma := support.Synthetic(buf, ",", token.Comma)
	space := support.Synthetic(buf, " ", token.Space)

	appendArray := func(out []marker.Marker) []marker.Marker {
		if arrayIsExpression {
			out = append(out, openParen)
			out = append(out, arrayMarkers...)
			out = append(out, closeParen)
		} else {
			out = append(out, arrayMarkers...)
		}
		return out
	}

	var out []marker.Marker
	out = append(out, addressOf)
	out = appendArray(out)
	out = append(out, openBracket)
	out = append(out, copyRange(arr, aStart, aEnd)...)
	out = append(out, closeBracket)
	out = append(out, comma, space)
	out = append(out, addressOf)
	out = appendArray(out)
	out = append(out, openBracket)

	if bEnd > bStart && arr.Get(bStart).Kind == token.Op2 && arr.Get(bStart).Len == 1 &&
		arr.Get(bStart).Text(buf.Bytes()) == "+" {
		out = append(out, copyRange(arr, aStart, aEnd)...)
		if bStart+1 < bEnd && arr.Get(bStart+1).Kind == token.Space {
			out = append(out, arr.Get(bStart+1))
		}
	}
	out = append(out, copyRange(arr, bStart, bEnd)...)
	out = append(out, closeBracket)

	deleteCount := bEnd + 1 - arrayStart
	arr.Splice(arrayStart, deleteCount, nil, out)
	return len(out), true, nil
}

func copyRange(arr *marker.Array, start, end int) []marker.Marker {
	if start >= end {
		return nil
	}
	out := make([]marker.Marker, end-start)
	for i := start; i < end; i++ {
		out[i-start] = arr.Get(i)
	}
	return out
}
