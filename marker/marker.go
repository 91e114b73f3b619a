// Package marker implements the marker array: the ordered, splice-capable
// sequence of lexeme records every Cedro transform pass reads and rewrites.
package marker

import "github.com/sentido-labs/cedro/token"

// Marker identifies one lexeme (or synthetic token) by byte offset and
// length into a buffer.Buffer, plus its kind and whether it was produced by
// lexing the original source (false) or inserted by a transform pass via
// interning (true).
type Marker struct {
	Start     int
	Len       int
	Kind      token.Kind
	Synthetic bool
}

// End returns the exclusive end offset of the marker's byte span.
func (m Marker) End() int {
	return m.Start + m.Len
}

// Text returns the marker's lexeme, read from src (the same byte buffer
// content the marker's offsets reference).
func (m Marker) Text(src []byte) string {
	return string(src[m.Start:m.End()])
}

// New returns a Marker for a lexeme spanning [start, start+length).
func New(start, length int, kind token.Kind) Marker {
	return Marker{Start: start, Len: length, Kind: kind}
}

// Synthetic returns a Marker flagged as synthetic.
func Synthetic(start, length int, kind token.Kind) Marker {
	return Marker{Start: start, Len: length, Kind: kind, Synthetic: true}
}
