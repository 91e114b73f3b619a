package unparse

import (
	"fmt"
	"strings"

	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/path"
	"github.com/sentido-labs/cedro/token"
)

// emitDefineBlock expands a Cedro "#define { header" ... "#define }" block
// into a single standard macro definition, folding every embedded newline
// into a backslash continuation so the whole block becomes one logical
// #define line. Grounded on original_source's #define {} expansion
// (src/cedro.c).
func (u *unparser) emitDefineBlock(i int) (int, *diag.Error) {
	header := u.arr.Get(i)
	headerText := header.Text(u.src)
	rest := strings.TrimPrefix(strings.TrimSpace(headerText), "#define")
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, "{")
	rest = strings.TrimLeft(rest, " \t")

	u.writeText("#define " + rest)

	consumed := 1
	for idx := i + 1; idx < u.arr.Len(); idx++ {
		m := u.arr.Get(idx)
		text := m.Text(u.src)
		closerRest, isCloser := matchDefineCloser(text)
		if isCloser {
			consumed = idx - i + 1
			u.writeText("/* End #define */")
			_ = closerRest
			if next := idx + 1; next < u.arr.Len() {
				if nm := u.arr.Get(next); nm.Kind == token.Semicolon {
					consumed++
				}
			}
			return consumed, nil
		}

		switch m.Kind {
		case token.Comment:
			if strings.HasPrefix(text, "//") {
				u.writeText("/*" + strings.TrimPrefix(text, "//") + " */")
			} else {
				u.writeDefineFolded(text)
			}
		case token.Identifier:
			u.writeDefineFolded(u.identifierText(m))
		default:
			u.writeDefineFolded(text)
		}
		consumed = idx - i + 1
	}
	return consumed, diag.New(header.Start, "unterminated #define { block")
}

// writeDefineFolded writes text with every embedded newline rewritten as a
// backslash continuation, so the enclosing #define block stays one logical
// preprocessor line.
func (u *unparser) writeDefineFolded(text string) {
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			u.writeText(text)
			return
		}
		u.writeText(text[:idx])
		u.writeText(" \\\n")
		text = text[idx+1:]
	}
}

// matchDefineCloser reports whether trimmed text is the "#define }"
// terminator of a block, returning whatever (usually empty) text follows it.
func matchDefineCloser(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "#define") {
		return "", false
	}
	rest := strings.TrimPrefix(trimmed, "#define")
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, "}") {
		return "", false
	}
	return strings.TrimPrefix(rest, "}"), true
}

// emitIncludeEmbed expands "#include {path}" into a brace-initializer byte
// list, reading path relative to the current source file's directory.
// Grounded on original_source's binary-embed expansion (src/cedro.c): a
// read failure or empty file embeds an inline #error and unparse continues,
// it never aborts for this.
func (u *unparser) emitIncludeEmbed(i int, m marker.Marker) (int, *diag.Error) {
	text := m.Text(u.src)
	open := strings.IndexByte(text, '{')
	close := strings.LastIndexByte(text, '}')
	if open < 0 || close < open {
		return 1, diag.New(m.Start, "malformed #include { } directive")
	}
	name := strings.TrimSpace(text[open+1 : close])

	data, err := u.readInclude(name)
	if err != nil {
		u.warn("#include {%s}: %v", name, err)
		fmt.Fprintf(u.bw, ";\n#error %s\n", err.Error())
		return 1, nil
	}
	if len(data) == 0 {
		u.warn("#include {%s}: empty file", name)
		fmt.Fprintf(u.bw, ";\n#error #include {%s}: empty file\n", name)
		return 1, nil
	}

	basename := name
	if idx := strings.LastIndexByte(basename, '/'); idx >= 0 {
		basename = basename[idx+1:]
	}
	fmt.Fprintf(u.bw, "[%d] = { /* %s */\n0x%02X", len(data), basename, data[0])
	for n, b := range data[1:] {
		if (n+1)%16 == 0 {
			u.writeText("\n")
		}
		fmt.Fprintf(u.bw, ",0x%02X", b)
	}
	u.writeText("\n}")
	return 1, nil
}

// readInclude resolves name against the unparsed file's directory and reads
// it via Options.ReadFile.
func (u *unparser) readInclude(name string) ([]byte, error) {
	if u.opts.ReadFile == nil {
		return nil, fmt.Errorf("no file reader configured")
	}
	dir := path.New(u.opts.SourceFile).Dir()
	resolved, ok := path.Resolve(path.New(name), dir, u.opts.IncludeDirs)
	if !ok {
		return nil, fmt.Errorf("%s: not found", name)
	}
	return u.opts.ReadFile(resolved.String())
}

// emitStandardInclude passes a plain #include "path" or #include <path>
// through unchanged, unless Options.ResolveInclude opts into inlining it;
// the returned content is then written in the directive's place as is,
// without being lexed or unparsed.
func (u *unparser) emitStandardInclude(i int, m marker.Marker) (int, *diag.Error) {
	text := m.Text(u.src)
	if u.opts.ResolveInclude == nil || u.depth >= maxIncludeDepth {
		u.writeWithPendingLine(m)
		return 1, nil
	}
	name, angled, ok := parseIncludeName(text)
	if !ok {
		u.writeWithPendingLine(m)
		return 1, nil
	}
	content, inline, err := u.opts.ResolveInclude(IncludeRequest{
		Name:    name,
		Angled:  angled,
		Current: u.opts.SourceFile,
		Depth:   u.depth,
	})
	if err != nil {
		u.warn("#include %s: %v", name, err)
		u.writeWithPendingLine(m)
		return 1, nil
	}
	if !inline {
		u.writeWithPendingLine(m)
		return 1, nil
	}
	u.depth++
	u.bw.Write(content)
	u.depth--
	return 1, nil
}

// parseIncludeName extracts the header name from a #include directive's
// text, along with whether it was angle-bracketed.
func parseIncludeName(text string) (name string, angled, ok bool) {
	trimmed := strings.TrimSpace(text)
	rest := strings.TrimPrefix(trimmed, "#include")
	rest = strings.TrimLeft(rest, " \t")
	if len(rest) < 2 {
		return "", false, false
	}
	switch rest[0] {
	case '"':
		if end := strings.IndexByte(rest[1:], '"'); end >= 0 {
			return rest[1 : end+1], false, true
		}
	case '<':
		if end := strings.IndexByte(rest[1:], '>'); end >= 0 {
			return rest[1 : end+1], true, true
		}
	}
	return "", false, false
}
