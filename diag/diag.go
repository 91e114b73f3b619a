// Package diag implements Cedro's diagnostic value type: a byte position
// paired with a message, returned by every fallible component instead of
// read back out of shared state.
package diag

import "fmt"

// Error pairs a byte offset into the source buffer with a human-readable
// message. It implements the standard error interface so it composes with
// %w and errors.As/errors.Is.
type Error struct {
	Position int    // byte offset of the failure, or marker index for passes that operate on markers
	Line     int    // original source line, when known; 0 if not tracked at this layer
	File     string // original source file name, when known
	Message  string
}

// New returns an Error at the given byte position with a formatted message.
func New(position int, format string, args ...interface{}) *Error {
	return &Error{Position: position, Message: fmt.Sprintf(format, args...)}
}

// WithLocation returns a copy of e with Line and File set, for use once the
// original-source line has been resolved via #line bookkeeping.
func (e *Error) WithLocation(file string, line int) *Error {
	cp := *e
	cp.File = file
	cp.Line = line
	return &cp
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("offset %d: %s", e.Position, e.Message)
}

// DirectiveText returns the in-stream "#line N \"file\"\n#error message\n" form spec.md
// §7 requires for directive errors that must still flag the downstream
// compiler at the original location.
func (e *Error) DirectiveText() string {
	if e.File == "" {
		return fmt.Sprintf("\n#error %s\n", e.Message)
	}
	return fmt.Sprintf("\n#line %d %q\n#error %s\n", e.Line, e.File, e.Message)
}
