// Package self implements the member-call self-passing shorthand:
// `obj.m(args)` becomes `obj.m((void*)&obj, args)` and `obj->m(args)` becomes
// `obj->m((void*)obj, args)`. Grounded on
// original_source/src/macros/self.h's macro_self.
package self

import (
	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/pass/support"
	"github.com/sentido-labs/cedro/token"
)

// Options configures the self pass. It is a no-op unless Enabled is set,
// matching spec.md §4.5's "runs only when pass_self_to_member_functions is
// on".
type Options struct {
	Enabled bool
}

// Run rewrites every `.`/`->` member call in arr in place, when enabled.
func Run(arr *marker.Array, buf *buffer.Buffer, opts Options) *diag.Error {
	if !opts.Enabled {
		return nil
	}
	cursor := 1 // original never matches at index 0 ("cursor is_not start")
	for cursor < arr.Len() {
		advance, handled := tryRewrite(arr, buf, cursor)
		if handled {
			cursor += advance
			continue
		}
		cursor++
	}
	return nil
}

func tryRewrite(arr *marker.Array, buf *buffer.Buffer, at int) (advance int, handled bool) {
	m := arr.Get(at)
	if m.Kind != token.Op1 {
		return 0, false
	}
	text := m.Text(buf.Bytes())
	valueMember := text == "."
	pointerMember := text == "->"
	if !valueMember && !pointerMember {
		return 0, false
	}
	if at+1 >= arr.Len() {
		return 0, false
	}

	end := arr.Len()
	ident := support.SkipSpaceForward(arr, at+1, end)
	if ident == end || arr.Get(ident).Kind != token.Identifier {
		return 0, false
	}
	open := support.SkipSpaceForward(arr, ident+1, end)
	if open == end || arr.Get(open).Kind != token.TupleStart {
		return 0, false
	}
	argsStart := open + 1

	objEnd := support.SkipSpaceBack(arr, 0, at)
	objStart := findObjectStart(arr, objEnd)
	objStart = support.SkipSpaceForward(arr, objStart, objEnd)

	object := copyRange(arr, objStart, objEnd)

	// original_source always casts the object to (void*) regardless of
	// whether the call is through '.' or '->' (self.h pushes void_cast
	// unconditionally); a value member additionally gets its address taken
	// first. Decided per spec.md's open question on this cast: kept as-is,
	// including for pointer receivers, rather than special-cased away.
	var replacement []marker.Marker
	replacement = append(replacement, support.Synthetic(buf, "(void*)", token.Op1))
	if valueMember {
		replacement = append(replacement, support.Synthetic(buf, "&", token.Op2))
	}
	replacement = append(replacement, object...)

	next := support.SkipSpaceForward(arr, argsStart, end)
	if next == end || arr.Get(next).Kind != token.TupleEnd {
		replacement = append(replacement,
			support.Synthetic(buf, ",", token.Comma),
			support.Synthetic(buf, " ", token.Space))
	}

	arr.Splice(argsStart, 0, nil, replacement)
	return (argsStart - at) + len(replacement), true
}

// findObjectStart walks backward from objEnd (exclusive) over a balanced
// lvalue expression (identifiers, numbers, '.', prefix '&', whitespace, and
// fully-closed '[...]'/'(...)' groups), stopping at the first token that is
// not part of such an expression.
func findObjectStart(arr *marker.Array, objEnd int) int {
	nesting := 0
	i := objEnd
	for i != 0 {
		switch arr.Get(i - 1).Kind {
		case token.Space, token.Op1, token.Op2, token.Identifier, token.Number:
			// part of the lvalue chain
		case token.IndexEnd:
			nesting++
		case token.IndexStart:
			nesting--
		case token.TupleEnd:
			if nesting == 0 && i != objEnd {
				return i
			}
			nesting++
		case token.TupleStart:
			nesting--
			if nesting == 0 {
				return i - 1
			}
		default:
			if nesting == 0 {
				return i
			}
		}
		i--
	}
	return 0
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
