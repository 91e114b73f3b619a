package lexer

import (
	"bitbucket.org/creachadair/stringset"

	"github.com/sentido-labs/cedro/token"
)

// Keyword tables, grouped the way the original TokenType enum groups them
// (src/cedro.c). Membership tests use stringset.Set, the same set type
// tools/llvmbuildtobzl used for its property-name tables.
var (
	typeKeywords = stringset.New(
		"char", "double", "enum", "float", "int", "long", "short", "union", "void",
		"bool", "complex", "imaginary", "_Bool", "_Complex", "_Imaginary",
	)
	typeQualifierKeywords = stringset.New(
		"const", "extern", "inline", "register", "signed", "static", "unsigned",
		"volatile", "restrict",
	)
	controlFlowIfKeywords     = stringset.New("else", "if")
	controlFlowLoopKeywords   = stringset.New("do", "for", "while")
	controlFlowCaseKeywords   = stringset.New("case", "default")
	rejectedDirectiveWords    = stringset.New("assert")
)

// classifyKeyword returns the Kind for ident if it is a reserved word, and
// ok = true. deferKeyword names the identifier currently acting as the defer
// introducer ("auto" by default, "defer" when the pragma feature word is
// active).
func classifyKeyword(ident, deferKeyword string) (token.Kind, bool) {
	switch {
	case ident == deferKeyword:
		return token.ControlFlowDefer, true
	case ident == "auto" && deferKeyword != "auto":
		// auto keeps its plain C meaning (storage-class qualifier) once the
		// defer feature has rebound the introducer to another word.
		return token.TypeQualifierAuto, true
	case ident == "auto":
		return token.TypeQualifierAuto, true
	case ident == "typedef":
		return token.Typedef, true
	case ident == "struct":
		return token.TypeStruct, true
	case ident == "_Generic":
		return token.GenericMacro, true
	case ident == "break":
		return token.ControlFlowBreak, true
	case ident == "continue":
		return token.ControlFlowContinue, true
	case ident == "return":
		return token.ControlFlowReturn, true
	case ident == "goto":
		return token.ControlFlowGoto, true
	case ident == "switch":
		return token.ControlFlowSwitch, true
	case typeKeywords.Contains(ident):
		return token.Type, true
	case typeQualifierKeywords.Contains(ident):
		return token.TypeQualifier, true
	case controlFlowIfKeywords.Contains(ident):
		return token.ControlFlowIf, true
	case controlFlowLoopKeywords.Contains(ident):
		return token.ControlFlowLoop, true
	case controlFlowCaseKeywords.Contains(ident):
		return token.ControlFlowCase, true
	}
	return token.None, false
}
