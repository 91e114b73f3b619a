package unparse

import (
	"fmt"

	"github.com/alecthomas/participle"
)

// foreachHeader is the grammar for the text immediately following
// "#foreach {": a var-spec followed by a value list. Parsed with
// participle's plain default lexer, the same low-risk way package pragma
// parses the activation line, rather than a custom token table — the
// scope decision this implies (each foreach value is a single scalar
// token, not an arbitrary multi-token C type expression as
// original_source's doc comment shows) is recorded in DESIGN.md.
type foreachHeader struct {
	Var    foreachVarSpec   `@@`
	Values foreachValueSpec `@@`
}

// foreachVarSpec is either a bare identifier or a brace-tuple of them.
type foreachVarSpec struct {
	Single string   `( @Ident`
	Tuple  []string `| "{" @Ident ("," @Ident)* "}" )`
}

// Names returns the variable names this spec binds, in order.
func (v foreachVarSpec) Names() []string {
	if v.Single != "" {
		return []string{v.Single}
	}
	return v.Tuple
}

// foreachValueSpec is either a reference to an outer foreach's bindings, or
// a brace-wrapped list of value rows.
type foreachValueSpec struct {
	Ref  string            `( @Ident`
	Rows []foreachValueRow `| "{" @@ ("," @@)* "}" )`
}

// foreachValueRow is one row of values: a single scalar for a bare
// var-spec, or a brace-tuple of scalars matching a tuple var-spec's arity.
type foreachValueRow struct {
	Single string   `( @(Ident|Int|Float|String|Char)`
	Tuple  []string `| "{" @(Ident|Int|Float|String|Char) ("," @(Ident|Int|Float|String|Char))* "}" )`
}

// Values returns this row's scalars in order.
func (r foreachValueRow) Values() []string {
	if r.Single != "" {
		return []string{r.Single}
	}
	return r.Tuple
}

var foreachParser = participle.MustBuild(&foreachHeader{})

// parseForeachHeader parses text (the header remainder following
// "#foreach {", with \+LF continuations already folded to spaces) and
// binds each value row to the var-spec's names, in declaration order.
// outer is the merged name->current-value environment of every enclosing
// foreach iteration this block is nested inside; it supplies the single
// value when Values is a bare identifier reference to an enclosing
// foreach's current binding, in which case this foreach runs exactly one
// iteration (its var-spec must then be arity 1).
func parseForeachHeader(text string, outer map[string]string) (names []string, rows []map[string]string, err error) {
	h := &foreachHeader{}
	if perr := foreachParser.ParseString(text, h); perr != nil {
		return nil, nil, fmt.Errorf("foreach: malformed header: %w", perr)
	}
	names = h.Var.Names()
	arity := len(names)
	seen := make(map[string]bool, arity)
	for _, name := range names {
		if seen[name] {
			return nil, nil, fmt.Errorf("foreach: duplicate variable %q in var-spec", name)
		}
		seen[name] = true
	}

	if h.Values.Ref != "" {
		val, ok := outer[h.Values.Ref]
		if !ok {
			return nil, nil, fmt.Errorf("foreach: %q does not resolve in an enclosing foreach", h.Values.Ref)
		}
		if arity != 1 {
			return nil, nil, fmt.Errorf("foreach: a single-value reference cannot bind a %d-way var-spec", arity)
		}
		return names, []map[string]string{{names[0]: val}}, nil
	}

	for _, row := range h.Values.Rows {
		vals := row.Values()
		if len(vals) != arity {
			return nil, nil, fmt.Errorf("foreach: value row has %d values, var-spec has %d", len(vals), arity)
		}
		if len(vals) == 0 {
			return nil, nil, fmt.Errorf("foreach: empty value row")
		}
		binding := make(map[string]string, arity)
		for i, name := range names {
			binding[name] = vals[i]
		}
		rows = append(rows, binding)
	}
	return names, rows, nil
}
