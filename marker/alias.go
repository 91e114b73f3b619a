package marker

import "unsafe"

// uintptrOf returns the address of *p as a uintptr for range comparison.
// Used only by aliases' conservative aliasing check in Splice.
func uintptrOf(p *Marker) uintptr {
	return uintptr(unsafe.Pointer(p))
}

// sameBacking reports whether a and b share the same underlying array by
// comparing the address of their first elements.
func sameBacking(a, b []Marker) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	return uintptrOf(&a[:1][0]) == uintptrOf(&b[:1][0])
}
