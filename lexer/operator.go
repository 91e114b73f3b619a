package lexer

import (
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/token"
)

// multiCharOperators lists fixed-text operators of length ≥ 2, longest
// first so the dispatch below can do a simple prefix scan and take the
// first (longest) match, per spec.md §4.1's "within the operator dispatch
// the longest matching lexeme wins".
var multiCharOperators = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.Op14},
	{">>=", token.Op14},
	{"...", token.Ellipsis},
	{"++", token.Op1},
	{"--", token.Op1},
	{"->", token.Op1},
	{"<<", token.Op5},
	{">>", token.Op5},
	{"<=", token.Op6},
	{">=", token.Op6},
	{"==", token.Op7},
	{"!=", token.Op7},
	{"&&", token.Op11},
	{"||", token.Op12},
	{"+=", token.Op14},
	{"-=", token.Op14},
	{"*=", token.Op14},
	{"/=", token.Op14},
	{"%=", token.Op14},
	{"&=", token.Op14},
	{"^=", token.Op14},
	{"|=", token.Op14},
	{"..", token.Ellipsis},
}

var fenceOperators = map[byte]token.Kind{
	'{': token.BlockStart,
	'}': token.BlockEnd,
	'(': token.TupleStart,
	')': token.TupleEnd,
	'[': token.IndexStart,
	']': token.IndexEnd,
}

var singleCharOperators = map[byte]token.Kind{
	'!': token.Op2,
	'~': token.Op2,
	'/': token.Op3,
	'%': token.Op3,
	'<': token.Op6,
	'>': token.Op6,
	'^': token.Op9,
	'|': token.Op10,
	'=': token.Op14,
	',': token.Comma,
	';': token.Semicolon,
	'?': token.Op13,
	'@': token.Backstitch,
}

// operatorDispatch classifies the operator or punctuation lexeme at
// data[0], resolving the prefix/infix ambiguity of +, -, *, & via
// previousTokenIsValue and deferring ':' to the caller (Lex), which has
// access to the already-pushed marker history resolveColon needs.
func operatorDispatch(data []byte, previousTokenIsValue bool) (token.Kind, int, *diag.Error) {
	for _, op := range multiCharOperators {
		if hasPrefix(data, op.text) {
			return op.kind, len(op.text), nil
		}
	}

	b := data[0]
	switch b {
	case ':':
		return LabelColonPending, 1, nil
	case '.':
		return token.Op1, 1, nil
	case '+':
		if previousTokenIsValue {
			return token.Op4, 1, nil
		}
		return token.Op2, 1, nil
	case '-':
		if previousTokenIsValue {
			return token.Op4, 1, nil
		}
		return token.Op2, 1, nil
	case '*':
		if previousTokenIsValue {
			return token.Op3, 1, nil
		}
		return token.Op2, 1, nil
	case '&':
		if previousTokenIsValue {
			return token.Op8, 1, nil
		}
		return token.Op2, 1, nil
	}

	if k, ok := fenceOperators[b]; ok {
		return k, 1, nil
	}
	if k, ok := singleCharOperators[b]; ok {
		return k, 1, nil
	}
	return token.Other, 1, nil
}

func hasPrefix(data []byte, s string) bool {
	if len(data) < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if data[i] != s[i] {
			return false
		}
	}
	return true
}
