// Package buffer implements the byte buffer that backs a Cedro translation
// unit: the owned source bytes, a zero-padded tail so the lexer can peek a
// short look-ahead without bounds checks, and literal interning for the
// synthetic tokens the transform passes splice in.
package buffer

import "bytes"

// Padding is the minimum number of readable zero bytes kept past the
// buffer's logical length.
const Padding = 8

// Buffer owns a growable, padded byte sequence. The zero value is not usable;
// construct with New or NewFromBytes.
type Buffer struct {
	data []byte // len(data) == length + Padding, data[length:] is zero
	length int
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{data: make([]byte, Padding)}
}

// NewFromBytes returns a Buffer whose logical content is a copy of src.
func NewFromBytes(src []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(src)+Padding)}
	copy(b.data, src)
	b.length = len(src)
	return b
}

// Len returns the logical length of the buffer, excluding padding.
func (b *Buffer) Len() int {
	return b.length
}

// Bytes returns the logical content of the buffer. The returned slice is
// only valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.length]
}

// Slice returns buf[start:end], end exclusive, within the logical content
// plus the padding tail (so callers may read end == Len()+Padding).
func (b *Buffer) Slice(start, end int) []byte {
	return b.data[start:end]
}

// At returns the byte at i, which may be within the padding tail (reading
// as 0) for short look-ahead past the logical end.
func (b *Buffer) At(i int) byte {
	return b.data[i]
}

// Append appends src to the logical content and returns the byte offset at
// which it was written.
func (b *Buffer) Append(src []byte) int {
	offset := b.length
	needed := b.length + len(src) + Padding
	if needed > len(b.data) {
		grown := make([]byte, needed*2)
		copy(grown, b.data[:b.length])
		b.data = grown
	}
	copy(b.data[offset:], src)
	b.length += len(src)
	// Zero the padding tail in case growth reused larger backing storage.
	for i := b.length; i < b.length+Padding; i++ {
		b.data[i] = 0
	}
	return offset
}

// Intern searches the existing logical content for text and, if found,
// returns its offset and length without appending. Otherwise it appends text
// and returns the offset of the newly written copy. Used by transform passes
// to materialize synthetic tokens (",", " ", "\n", "{", "}", "&", "(void*)",
// etc.) without duplicating the same literal many times over.
func (b *Buffer) Intern(text string) (start, length int) {
	if idx := bytes.Index(b.Bytes(), []byte(text)); idx >= 0 {
		return idx, len(text)
	}
	start = b.Append([]byte(text))
	return start, len(text)
}
