package marker

import "fmt"

// Array is an ordered, growable sequence of Markers supporting in-place
// splice edits. The zero value is an empty, usable Array.
type Array struct {
	m []Marker
}

// FromSlice returns an Array containing a copy of ms.
func FromSlice(ms []Marker) *Array {
	a := &Array{m: make([]Marker, len(ms))}
	copy(a.m, ms)
	return a
}

// Len returns the number of markers in the array.
func (a *Array) Len() int {
	return len(a.m)
}

// Get returns the marker at i.
func (a *Array) Get(i int) Marker {
	return a.m[i]
}

// GetMut returns a pointer to the marker at i, valid until the next splice.
func (a *Array) GetMut(i int) *Marker {
	return &a.m[i]
}

// Set overwrites the marker at i.
func (a *Array) Set(i int, v Marker) {
	a.m[i] = v
}

// Slice returns the underlying markers as a read-only slice. The slice is
// only valid until the next splice on this Array.
func (a *Array) Slice() []Marker {
	return a.m
}

// Push appends one marker.
func (a *Array) Push(m Marker) {
	a.m = append(a.m, m)
}

// PushAll appends every marker in ms, in order.
func (a *Array) PushAll(ms []Marker) {
	a.m = append(a.m, ms...)
}

// Start returns the byte offset of the first marker, or 0 if empty.
func (a *Array) Start() int {
	if len(a.m) == 0 {
		return 0
	}
	return a.m[0].Start
}

// End returns the end byte offset of the last marker, or 0 if empty.
func (a *Array) End() int {
	if len(a.m) == 0 {
		return 0
	}
	return a.m[len(a.m)-1].End()
}

// IndexOf returns the index of the first marker whose Start equals offset,
// or -1 if none matches. Passes use this to recompute a cursor after a
// splice has invalidated raw indices held across the edit.
func (a *Array) IndexOf(offset int) int {
	for i, mk := range a.m {
		if mk.Start == offset {
			return i
		}
	}
	return -1
}

// Truncate discards every marker from index len onward.
func (a *Array) Truncate(length int) {
	a.m = a.m[:length]
}

// Delete removes count markers starting at position. Equivalent to
// Splice(position, count, nil, nil) without the alias check, since nil can
// never alias a's storage.
func (a *Array) Delete(position, count int) {
	a.Splice(position, count, nil, nil)
}

// Splice deletes delete markers beginning at position, optionally copying
// them into sink first, then inserts the markers in insert at that position.
// insert must not be backed by a's own storage (a slice previously obtained
// from a.Slice(), or any sub-slice of it); passing such a slice panics,
// since the delete step would overwrite it mid-copy. Slices from a different
// Array, or freshly built slices, are always safe.
//
// Returns the number of markers now in the array.
func (a *Array) Splice(position, delete int, sink *[]Marker, insert []Marker) int {
	if position < 0 || delete < 0 || position+delete > len(a.m) {
		panic(fmt.Sprintf("marker.Array.Splice: position=%d delete=%d len=%d out of range", position, delete, len(a.m)))
	}
	if len(insert) > 0 && aliases(a.m, insert) {
		panic("marker.Array.Splice: insert slice aliases the array's own storage")
	}
	if sink != nil {
		deleted := make([]Marker, delete)
		copy(deleted, a.m[position:position+delete])
		*sink = deleted
	}
	tail := make([]Marker, len(a.m)-(position+delete))
	copy(tail, a.m[position+delete:])

	a.m = append(a.m[:position], insert...)
	a.m = append(a.m, tail...)
	return len(a.m)
}

// aliases reports whether any element of candidate shares backing storage
// with store, by comparing the address of their first elements' span. Go
// slices do not expose pointer arithmetic safely across element boundaries,
// so this is a conservative, capacity-aware check on the common case of a
// sub-slice obtained from store itself.
func aliases(store, candidate []Marker) bool {
	if len(store) == 0 || len(candidate) == 0 {
		return false
	}
	storeStart := &store[:1][0]
	storeEnd := &store[len(store)-1 : len(store)][0]
	candStart := &candidate[:1][0]
	return ptrWithin(candStart, storeStart, storeEnd) || sameBacking(store, candidate)
}

func ptrWithin(p, lo, hi *Marker) bool {
	return uintptrOf(p) >= uintptrOf(lo) && uintptrOf(p) <= uintptrOf(hi)
}
