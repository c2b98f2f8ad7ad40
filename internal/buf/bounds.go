package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would
// overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result
// would overflow uint64. This is essential for count * entrySize calculations
// when walking header tables.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// Offsets come straight from untrusted file headers, so both the sum and the
// comparison against the buffer length are overflow-checked.
func Slice(b []byte, off, n uint64) ([]byte, bool) {
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > uint64(len(b)) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n uint64) bool {
	_, ok := Slice(b, off, n)
	return ok
}
