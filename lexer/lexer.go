// Package lexer implements the Cedro byte-level lexer: a streaming,
// single-pass classifier from a byte range into token.Kind-tagged markers,
// plus the prelude pass that isolates everything before the activation
// pragma into one inert marker.
package lexer

import (
	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/token"
)

// Options configures lexical classification that depends on the activation
// pragma's feature words (spec.md §6).
type Options struct {
	// DeferKeyword is the identifier that introduces a deferred action:
	// "auto" by default, "defer" when the pragma names that feature word.
	DeferKeyword string
}

// DefaultOptions returns the lexer's defaults: "auto" as the defer
// introducer.
func DefaultOptions() Options {
	return Options{DeferKeyword: "auto"}
}

// Lex appends one marker per recognized lexeme covering exactly [start, end)
// of buf to arr, in order. Returns a non-empty *diag.Error at the offending
// byte position on malformed UTF-8, a surrogate code point, an overlong
// UTF-8 sequence, an incomplete/malformed universal character name, or an
// unterminated string/character literal; lexing of the remainder of the
// range is abandoned at that point.
func Lex(buf *buffer.Buffer, start, end int, arr *marker.Array, opts Options) *diag.Error {
	previousTokenIsValue := false
	cursor := start
	for cursor < end {
		// Slice through end-of-range plus the buffer's zero padding, so
		// recognizers can always peek a short look-ahead without bounds
		// checks; scanners themselves stop at a 0 byte or at len(data).
		data := buf.Slice(cursor, buf.Len()+buffer.Padding)
		if avail := end - cursor + buffer.Padding; avail < len(data) {
			data = data[:avail]
		}

		kind, length, err := lexOne(buf, data, cursor, opts, previousTokenIsValue)
		if err != nil {
			return err
		}
		if length == 0 {
			return diag.New(cursor, "internal error: lexer made no progress")
		}
		if cursor+length > end {
			length = end - cursor
		}

		if kind == token.Identifier {
			text := string(buf.Slice(cursor, cursor+length))
			if retyped, ok := classifyKeyword(text, opts.DeferKeyword); ok {
				kind = retyped
			}
		}

		m := marker.New(cursor, length, kind)
		if kind == LabelColonPending {
			// Resolved below once we know what precedes the colon.
			m.Kind = resolveColon(arr, buf)
		}
		arr.Push(m)

		if !token.IsWhitespace(m.Kind) {
			if m.Kind == token.Identifier {
				retypeLabelIfFollowedByColon(arr, buf, cursor, length, end)
			}
			previousTokenIsValue = token.IsValue(m.Kind)
		}
		cursor += length
	}
	return nil
}

// LabelColonPending is an internal sentinel returned by lexOne for ':' so
// Lex can resolve LabelColon-vs-OP_13 by looking at already-pushed markers.
const LabelColonPending token.Kind = -1

// lexOne classifies exactly one lexeme at data[0], trying policies in the
// priority order spec.md §4.1 specifies: preprocessor, string, character,
// comment, space, identifier, number, then operator/punctuation dispatch.
func lexOne(buf *buffer.Buffer, data []byte, offset int, opts Options, previousTokenIsValue bool) (token.Kind, int, *diag.Error) {
	if len(data) == 0 || data[0] == 0 {
		return token.Other, 0, diag.New(offset, "unexpected end of input")
	}

	switch data[0] {
	case '#':
		length, word, err := scanPreprocessorLine(data, offset)
		if err != nil {
			return token.Preprocessor, length, err
		}
		_ = word
		return token.Preprocessor, length, nil
	case '"':
		length, err := scanQuoted(data, offset, '"')
		return token.String, length, err
	case '\'':
		length, err := scanQuoted(data, offset, '\'')
		return token.Character, length, err
	}

	if len(data) >= 2 && data[0] == '/' && data[1] == '*' {
		length, err := scanBlockComment(data, offset)
		return token.Comment, length, err
	}
	if len(data) >= 2 && data[0] == '/' && data[1] == '/' {
		return token.Comment, scanLineComment(data), nil
	}

	if n := scanSpace(data); n > 0 {
		return token.Space, n, nil
	}

	if width, ok := identifierStart(data); ok {
		_ = width
		length, err := scanIdentifier(data, offset)
		return token.Identifier, length, err
	}

	if numberStart(data) {
		return token.Number, scanNumber(data), nil
	}

	return operatorDispatch(data, previousTokenIsValue)
}

// resolveColon decides LabelColon vs. OP_13 for a ':' marker that is about
// to be appended to arr, by inspecting the markers already pushed before it.
// Implements spec.md §4.1's rule: a ':' after an IDENTIFIER that itself
// follows ';', ':', '{', or '}' is a label (retypeLabelIfFollowedByColon has
// then already retyped that identifier to CONTROL_FLOW_LABEL); a ':' that
// ends a case/default label is also a label; otherwise it is the ternary
// operator's OP_13.
func resolveColon(arr *marker.Array, buf *buffer.Buffer) token.Kind {
	n := arr.Len()
	if n == 0 {
		return token.Op13
	}
	idx := lastSignificant(arr, n)
	if idx < 0 {
		return token.Op13
	}
	prev := arr.Get(idx)
	if prev.Kind == token.ControlFlowLabel {
		return token.LabelColon
	}
caseScan:
	for j := idx; j >= 0; j-- {
		switch arr.Get(j).Kind {
		case token.ControlFlowCase:
			return token.LabelColon
		case token.Semicolon, token.LabelColon, token.BlockStart, token.BlockEnd, token.Op13:
			break caseScan
		}
	}
	if prev.Kind != token.Identifier {
		return token.Op13
	}
	idx2 := lastSignificant(arr, idx)
	if idx2 < 0 {
		return token.LabelColon // identifier at start of a block/file
	}
	switch arr.Get(idx2).Kind {
	case token.Semicolon, token.LabelColon, token.BlockStart, token.BlockEnd:
		return token.LabelColon
	}
	return token.Op13
}

// retypeLabelIfFollowedByColon peeks forward (without consuming) to see
// whether the identifier just pushed is immediately followed, across
// whitespace, by ':' that will resolve to LabelColon; if so it retypes the
// identifier in place to CONTROL_FLOW_LABEL, matching spec.md's "the
// preceding identifier is retyped".
//
// This is intentionally conservative: it only peeks at raw bytes, not at
// already-lexed markers (there are none yet for the upcoming colon), so it
// duplicates a minimal prefix of resolveColon's context check using the
// identifier itself as "prev".
func retypeLabelIfFollowedByColon(arr *marker.Array, buf *buffer.Buffer, identStart, identLen, end int) {
	i := identStart + identLen
	data := buf.Bytes()
	for i < end && isSpaceByte(data[i]) {
		i++
	}
	if i >= end || data[i] != ':' {
		return
	}
	if i+1 < end && data[i+1] == ':' {
		return // '::' is not part of C; avoid misreading a stray second colon
	}
	idx := lastSignificant(arr, arr.Len()-1)
	if idx < 0 {
		arr.GetMut(arr.Len() - 1).Kind = token.ControlFlowLabel
		return
	}
	switch arr.Get(idx).Kind {
	case token.Semicolon, token.LabelColon, token.BlockStart, token.BlockEnd:
		arr.GetMut(arr.Len() - 1).Kind = token.ControlFlowLabel
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// lastSignificant returns the index of the nearest marker before index
// "before" whose kind is neither Space nor Comment, or -1 if none exists.
func lastSignificant(arr *marker.Array, before int) int {
	for i := before - 1; i >= 0; i-- {
		if !token.IsWhitespace(arr.Get(i).Kind) {
			return i
		}
	}
	return -1
}
