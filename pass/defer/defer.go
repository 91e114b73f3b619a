// Package deferpass implements the `auto`-statement deferred-action
// mechanism: the declaration is recorded and replayed, most-recently-
// registered first, at every exit path of the enclosing block (closing
// brace, break, continue, goto, return). Named deferpass because `defer`
// itself is a Go keyword. Grounded on
// original_source/src/macros/defer.h's macro_defer.
package deferpass

import (
	"strings"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/internal/scope"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/pass/support"
	"github.com/sentido-labs/cedro/token"
)

// deferredAction is one recorded `auto` statement, tagged with the block
// nesting depth it was registered at.
type deferredAction struct {
	Level  int
	Action []marker.Marker
}

// Run rewrites every `auto` (or rebound defer-keyword) statement in arr,
// replaying it at each reachable exit of its enclosing block.
func Run(arr *marker.Array, buf *buffer.Buffer) *diag.Error {
	var blockStack scope.Stack[token.Kind]
	var pending scope.Stack[deferredAction]
	var indentOneLevel marker.Marker

	blockStartTok := support.Synthetic(buf, "{", token.BlockStart)
	blockEndTok := support.Synthetic(buf, "}", token.BlockEnd)

	cursor := 0
	for cursor < arr.Len() {
		switch arr.Get(cursor).Kind {
		case token.BlockStart:
			kind, err := blockIntroducerKind(arr, cursor)
			if err != nil {
				return err
			}
			blockStack.Push(kind)
			cursor++
			if indentOneLevel.Len == 0 && cursor < arr.Len() && arr.Get(cursor).Kind == token.Space {
				if unit, ok := extractIndentUnit(buf, arr.Get(cursor)); ok {
					indentOneLevel = unit
				}
			}
		case token.BlockEnd:
			next, err := handleBlockEnd(arr, buf, cursor, &blockStack, &pending, indentOneLevel)
			if err != nil {
				return err
			}
			cursor = next
		case token.ControlFlowBreak, token.ControlFlowContinue, token.ControlFlowGoto, token.ControlFlowReturn:
			next, err := handleDivert(arr, buf, cursor, &blockStack, &pending, indentOneLevel, blockStartTok, blockEndTok)
			if err != nil {
				return err
			}
			cursor = next
		case token.ControlFlowDefer:
			next, err := handleDefer(arr, buf, cursor, blockStack.Depth(), &pending)
			if err != nil {
				return err
			}
			cursor = next
		default:
			cursor++
		}
	}
	return nil
}

// blockIntroducerKind walks backward from a block-start marker over any
// un-nested tuple (the `(cond)` of an `if`/loop/switch) to classify what
// opened the block: the nearest enclosing function name, a control-flow
// keyword, or (when neither applies) a bare compound statement.
func blockIntroducerKind(arr *marker.Array, blockStart int) (token.Kind, *diag.Error) {
	i := blockStart
	nesting := 0
	for i != 0 {
		i--
		switch k := arr.Get(i).Kind; {
		case k == token.TupleEnd:
			nesting++
		case k == token.TupleStart:
			if nesting == 0 {
				return token.None, diag.New(i, "too many opening parenthesis")
			}
			nesting--
		case nesting == 0 && !token.IsWhitespace(k):
			switch k {
			case token.Identifier, token.ControlFlowIf, token.ControlFlowLoop, token.ControlFlowSwitch:
				return k, nil
			default:
				return token.BlockStart, nil
			}
		}
	}
	return token.BlockStart, nil
}

// extractIndentUnit returns the whitespace following the last newline in a
// space marker, used as one level of indentation to layer on top of a
// line's own indentation when a deferred action is replayed one scope
// deeper than where it was declared.
func extractIndentUnit(buf *buffer.Buffer, m marker.Marker) (marker.Marker, bool) {
	text := m.Text(buf.Bytes())
	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		return marker.Marker{}, false
	}
	start := m.Start + nl + 1
	return marker.Marker{Start: start, Len: m.End() - start, Kind: token.Space}, true
}

func hasPending(pending *scope.Stack[deferredAction], level int) bool {
	if pending.Empty() {
		return false
	}
	return pending.Top().Level >= level
}

// popPendingAtLeast discards every pending action registered at level or
// deeper, matching the bookkeeping exit_level performs when a block closes.
func popPendingAtLeast(pending *scope.Stack[deferredAction], level int) {
	for !pending.Empty() && pending.Top().Level >= level {
		pending.Pop()
	}
}

func joinIndent(between, extra marker.Marker) []marker.Marker {
	if extra.Len > 0 {
		return []marker.Marker{between, extra}
	}
	return []marker.Marker{between}
}

// collectDeferred renders every pending action at level or deeper, most
// recently registered first, each pair separated by sep; tail (when
// non-nil) is appended last, after its own separator.
func collectDeferred(pending *scope.Stack[deferredAction], level int, sep, tail []marker.Marker) []marker.Marker {
	var out []marker.Marker
	first := true
	pending.Each(func(_ int, a *deferredAction) bool {
		if a.Level < level {
			return false
		}
		if !first {
			out = append(out, sep...)
		}
		first = false
		out = append(out, a.Action...)
		return true
	})
	if tail != nil {
		if !first {
			out = append(out, sep...)
		}
		out = append(out, tail...)
	}
	return out
}

// handleBlockEnd replays every action pending at the closing block's depth
// immediately before the `}`, unless the block's last statement already
// diverted control flow (and so already replayed them).
func handleBlockEnd(arr *marker.Array, buf *buffer.Buffer, cursor int, blockStack *scope.Stack[token.Kind], pending *scope.Stack[deferredAction], indentOneLevel marker.Marker) (int, *diag.Error) {
	level := blockStack.Depth()
	if !hasPending(pending, level) {
		blockStack.Pop()
		return cursor + 1, nil
	}

	if lastSig := support.SkipSpaceBack(arr, 0, cursor) - 1; lastSig >= 0 {
		prevLineStart, err := support.FindLineStart(arr, 0, lastSig)
		if err != nil {
			return 0, err
		}
		if sig := support.SkipSpaceForward(arr, prevLineStart, arr.Len()); sig < arr.Len() {
			switch arr.Get(sig).Kind {
			case token.ControlFlowBreak, token.ControlFlowContinue, token.ControlFlowGoto, token.ControlFlowReturn:
				popPendingAtLeast(pending, level)
				blockStack.Pop()
				return cursor + 1, nil
			}
		}
	}

	between, ok := support.Indentation(arr, buf, cursor)
	if !ok {
		between = support.Synthetic(buf, " ", token.Space)
	}

	insertionPoint := cursor
	if cursor > 0 && arr.Get(cursor-1).Kind == token.Space {
		insertionPoint = cursor - 1
	}

	var replacement []marker.Marker
	if insertionPoint != cursor {
		replacement = append(replacement, arr.Get(insertionPoint))
		if indentOneLevel.Len > 0 {
			replacement = append(replacement, indentOneLevel)
		}
	}
	sep := joinIndent(between, indentOneLevel)
	replacement = append(replacement, collectDeferred(pending, level, sep, nil)...)

	arr.Splice(insertionPoint, 0, nil, replacement)
	newCursor := cursor + len(replacement)

	popPendingAtLeast(pending, level)
	blockStack.Pop()
	return newCursor + 1, nil
}

// exitTargetLevel finds the block level a break/continue escapes to: the
// depth just inside the nearest enclosing loop (and, for break, switch).
func exitTargetLevel(blockStack *scope.Stack[token.Kind], matchSwitch bool) int {
	level := blockStack.Depth()
	for level > 0 {
		level--
		k := *blockStack.At(level)
		if k == token.ControlFlowLoop || (matchSwitch && k == token.ControlFlowSwitch) {
			level++
			break
		}
	}
	return level
}

// gotoTargetLevel finds the shallowest block level traversed getting from
// cursor to label (searching forward first, then backward, each bounded by
// the nearest enclosing function body), which determines how many levels
// of pending actions a goto must replay.
func gotoTargetLevel(arr *marker.Array, buf *buffer.Buffer, cursor int, blockStack *scope.Stack[token.Kind], label string) int {
	depth := blockStack.Depth()
	functionLevel := depth + 1
	for l := depth; l > 0; {
		l--
		if *blockStack.At(l) == token.Identifier {
			functionLevel = l + 1
			break
		}
	}

	search := func(start, step int) (int, int) {
		blockLevel := depth
		nesting := depth
		m := start
		for m >= 0 && m < arr.Len() && nesting >= functionLevel {
			switch arr.Get(m).Kind {
			case token.BlockStart:
				if step > 0 {
					nesting++
				} else {
					nesting--
					if nesting < blockLevel {
						blockLevel = nesting
					}
				}
			case token.BlockEnd:
				if step > 0 {
					nesting--
					if nesting < blockLevel {
						blockLevel = nesting
					}
				} else {
					nesting++
				}
			case token.ControlFlowLabel:
				if arr.Get(m).Text(buf.Bytes()) == label {
					return m, blockLevel
				}
			}
			m += step
		}
		return -1, depth
	}

	if found, level := search(cursor+1, 1); found >= 0 {
		return level + 1
	}
	if found, level := search(cursor-1, -1); found >= 0 {
		return level + 1
	}
	return depth
}

// wrapNeeded reports whether the statement starting at lineStart is the
// unbraced single-statement body of an if/loop (no semicolon separates
// them, so find_line_start walked straight through it); such a statement
// must be wrapped in a fresh `{ }` when deferred actions are spliced in
// front of it, or it would silently become multiple body statements.
func wrapNeeded(arr *marker.Array, lineStart int) bool {
	i := support.SkipSpaceForward(arr, lineStart, arr.Len())
	if i >= arr.Len() {
		return false
	}
	switch arr.Get(i).Kind {
	case token.ControlFlowIf, token.ControlFlowLoop:
		return true
	}
	return false
}

// handleDivert replays every action pending at or beyond the target block
// level in front of a break/continue/goto/return statement, wrapping the
// statement in a new block first if it is an unbraced if/loop body.
func handleDivert(arr *marker.Array, buf *buffer.Buffer, cursor int, blockStack *scope.Stack[token.Kind], pending *scope.Stack[deferredAction], indentOneLevel marker.Marker, blockStartTok, blockEndTok marker.Marker) (int, *diag.Error) {
	kind := arr.Get(cursor).Kind
	var level int
	switch kind {
	case token.ControlFlowBreak:
		if blockStack.Depth() == 0 {
			return 0, diag.New(cursor, "break outside of block")
		}
		level = exitTargetLevel(blockStack, true)
	case token.ControlFlowContinue:
		if blockStack.Depth() == 0 {
			return 0, diag.New(cursor, "continue outside of block")
		}
		level = exitTargetLevel(blockStack, false)
	case token.ControlFlowGoto:
		if blockStack.Depth() == 0 {
			return 0, diag.New(cursor, "goto outside of block")
		}
		labelPos := support.SkipSpaceForward(arr, cursor+1, arr.Len())
		if labelPos == arr.Len() || arr.Get(labelPos).Kind != token.Identifier {
			return 0, diag.New(cursor, "goto without label")
		}
		level = gotoTargetLevel(arr, buf, cursor, blockStack, arr.Get(labelPos).Text(buf.Bytes()))
	case token.ControlFlowReturn:
		level = 0
	default:
		return cursor + 1, nil
	}

	if !hasPending(pending, level) {
		return cursor + 1, nil
	}

	lineStart, err := support.FindLineStart(arr, 0, cursor)
	if err != nil {
		return 0, err
	}
	lineEnd, err := support.FindLineEnd(arr, cursor, arr.Len())
	if err != nil {
		return 0, err
	}

	between, ok := support.Indentation(arr, buf, lineStart)
	if !ok {
		between = support.Synthetic(buf, " ", token.Space)
	}

	insertionPoint := cursor
	if cursor > 0 && arr.Get(cursor-1).Kind == token.Space {
		insertionPoint = cursor - 1
	}

	if wrapNeeded(arr, lineStart) {
		stmtEnd := lineEnd
		if stmtEnd < arr.Len() && arr.Get(stmtEnd).Kind == token.Semicolon {
			stmtEnd++
		}
		stmtStart := support.SkipSpaceForward(arr, insertionPoint, stmtEnd)
		stmt := copyRange(arr, stmtStart, stmtEnd)
		sep := joinIndent(between, indentOneLevel)

		var replacement []marker.Marker
		replacement = append(replacement, blockStartTok)
		replacement = append(replacement, sep...)
		replacement = append(replacement, collectDeferred(pending, level, sep, stmt)...)
		replacement = append(replacement, between, blockEndTok)

		deleteCount := stmtEnd - insertionPoint
		arr.Splice(insertionPoint, deleteCount, nil, replacement)
		return insertionPoint + len(replacement), nil
	}

	var replacement []marker.Marker
	if insertionPoint != cursor {
		replacement = append(replacement, arr.Get(insertionPoint))
	}
	sep := joinIndent(between, marker.Marker{})
	replacement = append(replacement, collectDeferred(pending, level, sep, nil)...)

	arr.Splice(insertionPoint, 0, nil, replacement)
	return lineEnd + len(replacement), nil
}

// handleDefer extracts one `auto` (or rebound defer keyword) statement out
// of the main token stream and records it as a pending action at the
// current block level.
func handleDefer(arr *marker.Array, buf *buffer.Buffer, cursor int, level int, pending *scope.Stack[deferredAction]) (int, *diag.Error) {
	end := arr.Len()
	actionStart := support.SkipSpaceForward(arr, cursor+1, end)
	var actionEnd int
	var err *diag.Error

	if actionStart < end && (arr.Get(actionStart).Kind == token.ControlFlowIf || arr.Get(actionStart).Kind == token.ControlFlowLoop) {
		actionEnd = support.SkipSpaceForward(arr, actionStart+1, end)
		nesting := 0
	parenLoop:
		for actionEnd < end {
			switch arr.Get(actionEnd).Kind {
			case token.TupleStart:
				nesting++
			case token.TupleEnd:
				if nesting == 0 {
					return 0, diag.New(actionEnd, "too many closing parenthesis")
				}
				nesting--
				if nesting == 0 {
					actionEnd++
					break parenLoop
				}
			}
			actionEnd++
		}
		actionEnd = support.SkipSpaceForward(arr, actionEnd, end)
		if actionEnd < end && arr.Get(actionEnd).Kind == token.BlockStart {
			actionEnd, err = support.FindMatchingFence(arr, actionEnd, end)
			if err != nil {
				return 0, err
			}
		} else {
			actionEnd, err = support.FindLineEnd(arr, actionEnd, end)
			if err != nil {
				return 0, err
			}
			if actionEnd < end {
				actionEnd++
			}
		}
	} else {
		actionEnd, err = support.FindLineEnd(arr, actionStart, end)
		if err != nil {
			return 0, err
		}
		if actionEnd < end {
			actionEnd++
		}
	}

	if actionEnd == actionStart {
		return 0, diag.New(cursor, "empty auto statement")
	}

	lineStart, lerr := support.FindLineStart(arr, 0, cursor)
	if lerr != nil {
		return 0, lerr
	}

	action := copyRange(arr, actionStart, actionEnd)
	arr.Splice(lineStart, actionEnd-lineStart, nil, nil)

	pending.Push(deferredAction{Level: level, Action: action})
	return lineStart, nil
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
