// Package unparse renders a transformed marker.Array back to C source text,
// expanding Cedro's own directive syntax (#define {}, #include {path},
// #foreach {}) along the way. Grounded on original_source's unparse() and
// its directive-expansion helpers (src/cedro.c).
package unparse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/internal/scope"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/path"
	"github.com/sentido-labs/cedro/token"
)

// DefaultRightMargin is the Options.RightMargin value used when none is
// given.
const DefaultRightMargin = 78

// maxIncludeDepth bounds recursive #include "path" / <path> inlining.
const maxIncludeDepth = 10

// Options configures a single Write call.
type Options struct {
	// InsertLineDirectives, when true, emits "#line N \"file\"" whenever a
	// marker's source offset no longer follows contiguously from the
	// previous one, so a downstream compiler's diagnostics still point at
	// the original file.
	InsertLineDirectives bool

	// EscapeUCN, when true, rewrites non-ASCII identifier bytes as
	// universal-character-name escapes.
	EscapeUCN bool

	// RightMargin is kept in the unparser's options; zero means
	// DefaultRightMargin. #define {} continuations do not consult it: each
	// is a fixed " \" before the newline, not padded out to this column.
	RightMargin int

	// SourceFile is the name of the file being unparsed, used both for
	// #line directives and to resolve #include {path} and #include "path"
	// relative to its directory.
	SourceFile string

	// IncludeDirs is the search path for #include "path" / <path>, tried in
	// order after the source file's own directory.
	IncludeDirs []path.Path

	// ReadFile loads the content of a resolved include path.
	// #include {path} treats a nil ReadFile, or a read error, or an empty
	// file as a source error: it embeds an inline #error and continues
	// rather than aborting the whole unparse.
	ReadFile func(name string) ([]byte, error)

	// ResolveInclude, when set, is consulted for a plain #include "path" or
	// #include <path> directive. A true second return means the directive
	// is replaced by the returned content, written as is: the content is
	// not lexed or unparsed, so directives inside it are not expanded.
	ResolveInclude func(req IncludeRequest) (content []byte, inline bool, err error)

	// Warn receives a human-readable message for a recoverable condition
	// (a failed include, an unresolved path) that unparse continues past
	// instead of aborting. May be nil.
	Warn func(msg string)
}

// IncludeRequest describes a #include "path" or #include <path> directive
// unparse is asking ResolveInclude to service.
type IncludeRequest struct {
	Name    string // the text between the quotes or angle brackets
	Angled  bool   // true for <path>, false for "path"
	Current string // the including file's path, for relative resolution
	Depth   int    // current recursive include depth, 0 at the top file
}

// Write renders arr (whose offsets reference buf) as C source text to w.
func Write(w io.Writer, arr *marker.Array, buf *buffer.Buffer, opts Options) *diag.Error {
	if opts.RightMargin == 0 {
		opts.RightMargin = DefaultRightMargin
	}
	u := &unparser{
		bw:   bufio.NewWriter(w),
		arr:  arr,
		buf:  buf,
		src:  buf.Bytes(),
		opts: opts,
		line: 1,
	}
	if err := u.run(); err != nil {
		return err
	}
	if ferr := u.bw.Flush(); ferr != nil {
		return diag.New(arr.End(), "writing output: %v", ferr)
	}
	return nil
}

type unparser struct {
	bw   *bufio.Writer
	arr  *marker.Array
	buf  *buffer.Buffer
	src  []byte
	opts Options

	haveExpected bool
	expectedNext int
	line         int

	pendingLine   bool
	pendingLineNo int

	depth int // recursive #include "path" inlining depth

	scope scope.Stack[map[string]string] // nested #foreach replacement environment
}

func (u *unparser) run() *diag.Error {
	i := 0
	for i < u.arr.Len() {
		consumed, err := u.emit(i)
		if err != nil {
			return err
		}
		if consumed < 1 {
			consumed = 1
		}
		i += consumed
	}
	return nil
}

// emit writes the marker at index i (and, for directive blocks, as many
// markers after it as the directive consumes) and returns how many markers
// were consumed.
func (u *unparser) emit(i int) (int, *diag.Error) {
	m := u.arr.Get(i)
	u.trackPosition(m)

	switch m.Kind {
	case token.Space, token.Comment:
		u.writeWithPendingLine(m)
		return 1, nil
	case token.Identifier:
		if u.pendingLine {
			u.flushPendingLine()
		}
		u.writeText(u.identifierText(m))
		return 1, nil
	case token.Preprocessor:
		return u.emitPreprocessor(i, m)
	default:
		u.writeWithPendingLine(m)
		return 1, nil
	}
}

// trackPosition updates line-number bookkeeping and queues a #line
// directive when a non-synthetic marker's offset diverges from where the
// previous non-synthetic marker's text should have left us.
func (u *unparser) trackPosition(m marker.Marker) {
	if m.Synthetic {
		return
	}
	if u.haveExpected && m.Start != u.expectedNext && u.opts.InsertLineDirectives {
		u.pendingLine = true
		u.pendingLineNo = countLines(u.src[:m.Start]) + 1
	}
	u.expectedNext = m.End()
	u.haveExpected = true
	u.line += bytes.Count(m.Text(u.src), []byte("\n"))
}

func countLines(s []byte) int {
	return bytes.Count(s, []byte("\n"))
}

// writeWithPendingLine writes m's text, flushing a pending #line directive
// either before m (if m is not whitespace) or right after the first
// embedded newline within m's text (if it is).
func (u *unparser) writeWithPendingLine(m marker.Marker) {
	text := m.Text(u.src)
	if !u.pendingLine {
		u.writeText(text)
		return
	}
	if m.Kind != token.Space && m.Kind != token.Comment {
		u.flushPendingLine()
		u.writeText(text)
		return
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		u.writeText(text[:idx+1])
		u.flushPendingLine()
		u.writeText(text[idx+1:])
		return
	}
	u.writeText(text)
}

func (u *unparser) flushPendingLine() {
	fmt.Fprintf(u.bw, "#line %d %q\n", u.pendingLineNo, u.opts.SourceFile)
	u.pendingLine = false
}

func (u *unparser) writeText(s string) {
	u.bw.WriteString(s)
}

func (u *unparser) identifierText(m marker.Marker) string {
	text := m.Text(u.src)
	if u.opts.EscapeUCN {
		return escapeUCN(text)
	}
	return text
}

func (u *unparser) warn(format string, args ...interface{}) {
	if u.opts.Warn != nil {
		u.opts.Warn(fmt.Sprintf(format, args...))
	}
}

// emitPreprocessor dispatches a Preprocessor marker by its recognized word,
// expanding Cedro's own directive extensions and passing every other
// directive (#if, #pragma, #define NAME value, ...) straight through.
func (u *unparser) emitPreprocessor(i int, m marker.Marker) (int, *diag.Error) {
	text := m.Text(u.src)
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(trimmed, "#define") && braceHeader(trimmed, "#define"):
		return u.emitDefineBlock(i)
	case strings.HasPrefix(trimmed, "#include") && braceHeader(trimmed, "#include"):
		return u.emitIncludeEmbed(i, m)
	case strings.HasPrefix(trimmed, "#foreach") && braceHeader(trimmed, "#foreach"):
		return u.emitForeachBlock(i)
	case strings.HasPrefix(trimmed, "#include"):
		return u.emitStandardInclude(i, m)
	default:
		u.writeWithPendingLine(m)
		return 1, nil
	}
}

// braceHeader reports whether trimmed is "#" + word followed (after
// optional space) by a literal '{', the shape that marks a Cedro block
// directive rather than a standard preprocessor one.
func braceHeader(trimmed, word string) bool {
	rest := strings.TrimPrefix(trimmed, word)
	rest = strings.TrimLeft(rest, " \t")
	return strings.HasPrefix(rest, "{")
}
