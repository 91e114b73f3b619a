// Package support collects the marker-array scanning helpers every
// transform pass needs: skipping whitespace, finding statement and fence
// boundaries, synthesizing punctuation via the buffer's interning, and
// counting line numbers for diagnostics. Grounded on the small helper
// functions (skip_space_forward, find_line_start, find_line_end,
// find_matching_fence, indentation, line_number) that original_source
// repeats near the top of each macro_*.h file.
package support

import (
	"bytes"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/token"
)

// SkipSpaceForward returns the first index at or after i whose kind is not
// whitespace (Space or Comment), or end if every marker in between is.
func SkipSpaceForward(arr *marker.Array, i, end int) int {
	for i < end && token.IsWhitespace(arr.Get(i).Kind) {
		i++
	}
	return i
}

// SkipSpaceBack returns the first index at or before i (exclusive, i.e. the
// new end of range) such that arr.Get(i-1) is not whitespace, or start if
// every marker back to start is.
func SkipSpaceBack(arr *marker.Array, start, i int) int {
	for i > start && token.IsWhitespace(arr.Get(i-1).Kind) {
		i--
	}
	return i
}

// FindLineStart scans backward starting at cursor itself (inclusive) down
// to start, looking for the nearest statement boundary: ';', label ':',
// '{', '}', a preprocessor line, or an un-nested '(' / '['  (in which case
// the index just past the fence is returned). Closing fences encountered
// first push a nesting level that a later open fence must cancel before the
// scan can treat it as a boundary; an unresolved nesting level at start is
// reported as an error. Grounded on cedro.c's find_line_start.
func FindLineStart(arr *marker.Array, start, cursor int) (int, *diag.Error) {
	nesting := 0
	i := cursor + 1
	for i != start {
		i--
		switch arr.Get(i).Kind {
		case token.Semicolon, token.LabelColon, token.BlockStart, token.BlockEnd, token.Preprocessor:
			if nesting == 0 && i != cursor {
				return i + 1, nil
			}
		case token.TupleStart, token.IndexStart:
			if nesting == 0 {
				return i + 1, nil
			}
			nesting--
		case token.TupleEnd, token.IndexEnd:
			nesting++
		}
	}
	if nesting != 0 {
		return start, diag.New(cursor, "excess group closings")
	}
	return start, nil
}

// FindLineEnd scans forward starting at cursor to end, looking for the
// nearest statement boundary: ';', label ':', backstitch '@', or an
// un-nested close fence. Grounded on cedro.c's find_line_end.
func FindLineEnd(arr *marker.Array, cursor, end int) (int, *diag.Error) {
	nesting := 0
	i := cursor
	for i != end {
		switch arr.Get(i).Kind {
		case token.Semicolon, token.LabelColon, token.Backstitch:
			if nesting == 0 {
				return i, nil
			}
		case token.BlockStart, token.TupleStart, token.IndexStart:
			nesting++
		case token.BlockEnd, token.TupleEnd, token.IndexEnd:
			if nesting == 0 {
				return i, nil
			}
			nesting--
		}
		i++
	}
	if nesting != 0 || i == end {
		return i, diag.New(cursor, "unclosed group")
	}
	return i, nil
}

// FindMatchingFence returns the index just past the close-fence matching
// the open-fence marker at i.
func FindMatchingFence(arr *marker.Array, i, end int) (int, *diag.Error) {
	open := arr.Get(i).Kind
	closeKind, ok := token.MatchingClose(open)
	if !ok {
		return i, diag.New(i, "not an opening fence")
	}
	nesting := 0
	for cursor := i; cursor < end; cursor++ {
		k := arr.Get(cursor).Kind
		if k == open {
			nesting++
		} else if k == closeKind {
			nesting--
			if nesting == 0 {
				return cursor + 1, nil
			}
		}
	}
	return end, diag.New(i, "unclosed group, syntax error")
}

// Indentation returns a synthetic SPACE marker reproducing the whitespace
// from the start of the line containing i back to, and including, the
// preceding newline; if there is no preceding newline (i is on the first
// line), reports ok = false so the caller can substitute its own separator
// (matching original_source's "There is no indentation because we are at
// the first line" branch).
func Indentation(arr *marker.Array, buf *buffer.Buffer, i int) (m marker.Marker, ok bool) {
	if i == 0 {
		return marker.Marker{}, false
	}
	prev := arr.Get(i - 1)
	if prev.Kind != token.Space {
		return marker.Marker{}, false
	}
	text := prev.Text(buf.Bytes())
	nl := bytes.LastIndexByte([]byte(text), '\n')
	if nl < 0 {
		return marker.Marker{}, false
	}
	return marker.Marker{Start: prev.Start + nl, Len: prev.Len - nl, Kind: token.Space}, true
}

// Synthetic interns text into buf and returns a synthetic Marker of kind k.
func Synthetic(buf *buffer.Buffer, text string, k token.Kind) marker.Marker {
	start, length := buf.Intern(text)
	return marker.Synthetic(start, length, k)
}

// LineNumber counts newline bytes in buf up to the start of the marker at
// index i, 1-based, for diagnostics.
func LineNumber(arr *marker.Array, buf *buffer.Buffer, i int) int {
	if i >= arr.Len() {
		i = arr.Len() - 1
	}
	if i < 0 {
		return 1
	}
	upTo := arr.Get(i).Start
	return 1 + bytes.Count(buf.Bytes()[:upTo], []byte("\n"))
}

// FirstSignificant returns the first index at or after i whose kind is not
// whitespace, or end if none.
func FirstSignificant(arr *marker.Array, i, end int) int {
	return SkipSpaceForward(arr, i, end)
}
