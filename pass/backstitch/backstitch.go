// Package backstitch implements the `@` infix operator: it threads a left
// operand into each comma-separated segment to its right, either as a
// prepended method-chain token, an affix declarator substitution, or a
// function call's first argument. Grounded on
// original_source/src/macros/backstitch.h's macro_backstitch.
package backstitch

import (
	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/pass/support"
	"github.com/sentido-labs/cedro/token"
)

// Run rewrites every `@` occurrence in arr in place. Returns the first
// error encountered; processing stops at that point, matching
// original_source's eprintln-and-return-early behavior for fatal syntax
// errors within one occurrence.
func Run(arr *marker.Array, buf *buffer.Buffer) *diag.Error {
	cursor := 0
	for cursor < arr.Len() {
		if arr.Get(cursor).Kind != token.Backstitch {
			cursor++
			continue
		}
		consumed, err := rewriteOne(arr, buf, cursor)
		if err != nil {
			return err
		}
		cursor += consumed
	}
	return nil
}

// rewriteOne rewrites the backstitch occurrence at "at" and returns how far
// to advance the cursor past the replacement.
func rewriteOne(arr *marker.Array, buf *buffer.Buffer, at int) (int, *diag.Error) {
	end := arr.Len()
	firstSegmentStart := support.SkipSpaceForward(arr, at+1, end)
	if firstSegmentStart == end {
		return 0, diag.New(at, "unfinished backstitch operator")
	}

	var prefix, suffix *marker.Marker
	if arr.Get(firstSegmentStart).Kind == token.Ellipsis {
		firstSegmentStart = support.SkipSpaceForward(arr, firstSegmentStart+1, end)
		if firstSegmentStart == end {
			return 0, diag.New(at, "unfinished affix declarator")
		}
		if arr.Get(firstSegmentStart).Kind != token.Identifier {
			return 0, diag.New(firstSegmentStart, "invalid suffix, must be an identifier")
		}
		m := arr.Get(firstSegmentStart)
		suffix = &m
		firstSegmentStart = support.SkipSpaceForward(arr, firstSegmentStart+1, end)
	} else if arr.Get(firstSegmentStart).Kind == token.Identifier {
		m := support.SkipSpaceForward(arr, firstSegmentStart+1, end)
		if m != end && arr.Get(m).Kind == token.Ellipsis {
			pm := arr.Get(firstSegmentStart)
			prefix = &pm
			firstSegmentStart = support.SkipSpaceForward(arr, m+1, end)
		}
	}

	startOfLine, err := support.FindLineStart(arr, 0, at)
	if err != nil {
		return 0, err
	}

	// Object ends right before "@"; trim leading space off the line first.
	objectEnd := at
	startOfLine = support.SkipSpaceForward(arr, startOfLine, objectEnd)

	// Boost precedence to 13.5: stop at the nearest assignment or comma
	// operator to the object's left.
	objectStart := objectEnd
	for objectStart != startOfLine {
		objectStart--
		k := arr.Get(objectStart).Kind
		if k == token.Op14 || k == token.Comma {
			objectStart++
			objectStart = support.SkipSpaceForward(arr, objectStart, objectEnd)
			break
		}
	}
	// Trim space between the object and "@".
	objectEnd = support.SkipSpaceBack(arr, objectStart, objectEnd)

	endOfLine, err := support.FindLineEnd(arr, firstSegmentStart, end)
	if err != nil {
		return 0, err
	}
	endOfLine = support.SkipSpaceBack(arr, firstSegmentStart, endOfLine)
	endsWithSemicolon := endOfLine < end && arr.Get(endOfLine).Kind == token.Semicolon

	objectIndentation, ok := support.Indentation(arr, buf, startOfLine)
	if !ok {
		objectIndentation = support.Synthetic(buf, "\n", token.Space)
	}

	var replacement []marker.Marker
	segmentStart := firstSegmentStart
	for segmentStart < endOfLine {
		segmentEnd, nesting := scanSegment(arr, segmentStart, endOfLine)
		if nesting != 0 {
			return 0, diag.New(segmentStart, "unclosed group, syntax error")
		}
		segmentEnd = support.SkipSpaceBack(arr, segmentStart, segmentEnd)
		if segmentEnd == segmentStart {
			// Empty segment: warning only in the original; skip it.
			segmentStart++
			continue
		}

		seg := buildSegment(arr, buf, segmentStart, segmentEnd, objectStart, objectEnd, prefix, suffix)
		replacement = append(replacement, seg...)

		if segmentEnd < endOfLine {
			if endsWithSemicolon {
				replacement = append(replacement, support.Synthetic(buf, ";", token.Semicolon), objectIndentation)
			} else {
				replacement = append(replacement, support.Synthetic(buf, ",", token.Comma), support.Synthetic(buf, " ", token.Space))
			}
			segmentStart = support.SkipSpaceForward(arr, segmentEnd+1, endOfLine)
		} else {
			segmentStart = segmentEnd
		}
	}

	deleteCount := endOfLine - objectStart
	arr.Splice(objectStart, deleteCount, nil, replacement)
	return objectStart + len(replacement) - at, nil
}

// scanSegment finds the end of one comma-separated segment (stopping at an
// un-nested comma) and reports the fence nesting depth at that point (zero
// if balanced).
func scanSegment(arr *marker.Array, start, end int) (segmentEnd int, nesting int) {
	cursor := start
	for cursor < end {
		k := arr.Get(cursor).Kind
		if nesting == 0 && k == token.Comma {
			break
		}
		switch k {
		case token.BlockStart, token.TupleStart, token.IndexStart:
			nesting++
		case token.BlockEnd, token.TupleEnd, token.IndexEnd:
			nesting--
		}
		cursor++
	}
	return cursor, nesting
}

// buildSegment inserts the object into one segment per spec.md §4.3's three
// insertion-point rules and returns the replacement markers for it (without
// the trailing separator).
func buildSegment(arr *marker.Array, buf *buffer.Buffer, segStart, segEnd, objStart, objEnd int, prefix, suffix *marker.Marker) []marker.Marker {
	object := copyRange(arr, objStart, objEnd)
	objectEmpty := objStart == objEnd

	first := arr.Get(segStart).Kind
	insertionPoint := segStart
	insideParenthesis := false

	if first == token.IndexStart || first == token.Op1 || first == token.Op14 || objectEmpty {
		insertionPoint = segStart
	} else {
		isFunctionCall := true
		cursor := segStart
		for !insideParenthesis && cursor < segEnd {
			k := arr.Get(cursor).Kind
			switch {
			case k == token.Identifier:
				isFunctionCall = true
			case token.IsKeyword(k):
				isFunctionCall = false
			case k == token.TupleStart:
				if cursor != segStart && isFunctionCall {
					insideParenthesis = true
				}
			case k == token.BlockStart || k == token.Op13:
				cursor = segEnd // break out like the goto in the original
				continue
			}
			cursor++
		}
		if !insideParenthesis {
			insertionPoint = segStart
		} else {
			insertionPoint = cursor
		}
	}

	var out []marker.Marker
	if insertionPoint == segStart {
		if !objectEmpty {
			out = append(out, object...)
			if segStart+1 < segEnd && arr.Get(segStart+1).Kind == token.Space {
				out = append(out, support.Synthetic(buf, " ", token.Space))
			}
		}
		if prefix != nil {
			out = append(out, *prefix)
		}
		if suffix != nil {
			out = append(out, arr.Get(insertionPoint))
			insertionPoint++
			out = append(out, *suffix)
		}
	} else {
		sliceStart, sliceEnd := segStart, insertionPoint
		if prefix != nil || suffix != nil {
			for sliceEnd != sliceStart {
				sliceEnd--
				if arr.Get(sliceEnd).Kind == token.Identifier {
					break
				}
			}
			out = append(out, copyRange(arr, sliceStart, sliceEnd)...)
			if prefix != nil {
				out = append(out, *prefix)
			} else {
				out = append(out, arr.Get(sliceEnd))
				sliceEnd++
				out = append(out, *suffix)
			}
			sliceStart = sliceEnd
			sliceEnd = insertionPoint
		}
		out = append(out, copyRange(arr, sliceStart, sliceEnd)...)
		if !objectEmpty {
			out = append(out, object...)
			if insideParenthesis {
				if insertionPoint >= segEnd || arr.Get(insertionPoint).Kind != token.TupleEnd {
					out = append(out, support.Synthetic(buf, ",", token.Comma), support.Synthetic(buf, " ", token.Space))
				}
			} else {
				out = append(out, support.Synthetic(buf, " ", token.Space))
			}
		}
	}
	out = append(out, copyRange(arr, insertionPoint, segEnd)...)
	return out
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
