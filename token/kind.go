// Package token defines the closed set of lexeme kinds produced by the Cedro
// lexer and the role tables the transform passes use to reason about them.
package token

import "fmt"

// Kind identifies the syntactic role of a marker. The ordering and grouping
// follow the original TokenType enum: identifiers, keywords by role,
// literals, whitespace/comments, preprocessor lines, fences, precedence-
// graded operators, then the few single-purpose punctuation kinds.
type Kind int

const (
	None Kind = iota // uninitialized / inert prelude marker

	Identifier

	Type            // char, double, enum, float, int, long, short, union, void, bool, complex, imaginary
	TypeStruct      // struct
	TypeQualifier   // const, extern, inline, register, signed, static, unsigned, volatile, restrict
	TypeQualifierAuto // auto, when not acting as a defer introducer
	Typedef         // typedef

	ControlFlowIf     // else, if
	ControlFlowLoop   // do, for, while
	ControlFlowSwitch // switch
	ControlFlowCase   // case, default
	ControlFlowBreak
	ControlFlowContinue
	ControlFlowReturn
	ControlFlowGoto
	ControlFlowLabel // identifier retyped when followed by a label colon

	Number
	String
	Character

	Space
	Comment

	Preprocessor
	GenericMacro // _Generic

	BlockStart // {
	BlockEnd   // }
	TupleStart // (
	TupleEnd   // )
	IndexStart // [
	IndexEnd   // ]

	GroupStart // invisible grouping; neither the lexer nor any pass emits it
	GroupEnd

	Op1  // ++ -- () [] . -> (type){list}
	Op2  // ++ -- + - ! ~ (type) * & sizeof _Alignof (prefix)
	Op3  // * / %
	Op4  // + -
	Op5  // << >>
	Op6  // < <= > >=
	Op7  // == !=
	Op8  // &
	Op9  // ^
	Op10 // |
	Op11 // &&
	Op12 // ||
	Op13 // ?:
	Op14 // = += -= *= /= %= <<= >>= &= ^= |=
	Comma // , (op 15)

	Semicolon
	LabelColon // : after a label

	Backstitch // @
	Ellipsis   // ... or non-standard ..

	ControlFlowDefer // the defer introducer: auto, or defer when the `defer` feature word is active

	Other // anything not part of the C grammar this lexer recognizes
)

var kindNames = [...]string{
	None:                "None",
	Identifier:          "Identifier",
	Type:                "Type",
	TypeStruct:          "Type struct",
	TypeQualifier:       "Type qualifier",
	TypeQualifierAuto:   "Type qualifier auto",
	Typedef:             "Type definition",
	ControlFlowIf:       "Control flow conditional",
	ControlFlowLoop:     "Control flow loop",
	ControlFlowSwitch:   "Control flow switch",
	ControlFlowCase:     "Control flow case",
	ControlFlowBreak:    "Control flow break",
	ControlFlowContinue: "Control flow continue",
	ControlFlowReturn:   "Control flow return",
	ControlFlowGoto:     "Control flow goto",
	ControlFlowLabel:    "Control flow label",
	Number:              "Number",
	String:              "String",
	Character:           "Character",
	Space:               "Space",
	Comment:             "Comment",
	Preprocessor:        "Preprocessor",
	GenericMacro:        "_Generic keyword",
	BlockStart:          "Block start",
	BlockEnd:            "Block end",
	TupleStart:          "Tuple start",
	TupleEnd:            "Tuple end",
	IndexStart:          "Index start",
	IndexEnd:            "Index end",
	GroupStart:          "Group start",
	GroupEnd:            "Group end",
	Op1:                 "Op 1",
	Op2:                 "Op 2",
	Op3:                 "Op 3",
	Op4:                 "Op 4",
	Op5:                 "Op 5",
	Op6:                 "Op 6",
	Op7:                 "Op 7",
	Op8:                 "Op 8",
	Op9:                 "Op 9",
	Op10:                "Op 10",
	Op11:                "Op 11",
	Op12:                "Op 12",
	Op13:                "Op 13",
	Op14:                "Op 14",
	Comma:               "Comma (op 15)",
	Semicolon:           "Semicolon",
	LabelColon:          "Colon after label",
	Backstitch:          "Backstitch",
	Ellipsis:            "Ellipsis",
	ControlFlowDefer:    "Defer",
	Other:               "OTHER",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved-word kinds, from Type
// through ControlFlowLabel.
func IsKeyword(k Kind) bool {
	return k >= Type && k <= ControlFlowLabel
}

// IsOperator reports whether k is one of the precedence-graded operator
// kinds, OP_1 through COMMA (operator-precedence 15).
func IsOperator(k Kind) bool {
	return k >= Op1 && k <= Comma
}

// IsFence reports whether k opens or closes a block, tuple, index or
// (invisible) group.
func IsFence(k Kind) bool {
	switch k {
	case BlockStart, BlockEnd, TupleStart, TupleEnd, IndexStart, IndexEnd, GroupStart, GroupEnd:
		return true
	}
	return false
}

// IsOpenFence reports whether k opens one of the fence kinds.
func IsOpenFence(k Kind) bool {
	switch k {
	case BlockStart, TupleStart, IndexStart, GroupStart:
		return true
	}
	return false
}

// IsCloseFence reports whether k closes one of the fence kinds.
func IsCloseFence(k Kind) bool {
	switch k {
	case BlockEnd, TupleEnd, IndexEnd, GroupEnd:
		return true
	}
	return false
}

// MatchingClose returns the close-fence kind for an open-fence kind k, and
// ok = false if k does not open a fence.
func MatchingClose(k Kind) (Kind, bool) {
	switch k {
	case BlockStart:
		return BlockEnd, true
	case TupleStart:
		return TupleEnd, true
	case IndexStart:
		return IndexEnd, true
	case GroupStart:
		return GroupEnd, true
	}
	return None, false
}

// Precedence returns the C operator-precedence grade of an operator kind,
// 1 (tightest) through 15 (comma). Precedence is only meaningful for
// IsOperator(k).
func Precedence(k Kind) int {
	if !IsOperator(k) {
		return 0
	}
	return int(k-Op1) + 1
}

// IsValue reports whether a token of kind k can terminate a value expression,
// which the lexer's operator dispatch uses to disambiguate prefix vs. infix
// forms of `+ - * &`.
func IsValue(k Kind) bool {
	switch k {
	case Identifier, Number, String, Character, TupleEnd, IndexEnd:
		return true
	}
	return false
}

// IsWhitespace reports whether k is insignificant layout (space or comment).
func IsWhitespace(k Kind) bool {
	return k == Space || k == Comment
}
