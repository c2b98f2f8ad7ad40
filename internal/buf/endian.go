// Package buf contains helpers for bounds-checked, endian-safe decoding
// routines over raw byte buffers.
//
// All multi-byte reads use the host's native byte order. Callers are expected
// to have verified that the data they are decoding matches the host order;
// the ELF parser rejects foreign-endian binaries before any field is read.
package buf

import "encoding/binary"

// U16 reads a native-endian uint16 from b. Returns 0 when b is too short.
func U16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.NativeEndian.Uint16(b)
}

// U32 reads a native-endian uint32 from b. Returns 0 when b is too short.
func U32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.NativeEndian.Uint32(b)
}

// U64 reads a native-endian uint64 from b. Returns 0 when b is too short.
func U64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.NativeEndian.Uint64(b)
}

// HostLittleEndian reports whether the host stores integers least-significant
// byte first.
func HostLittleEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	return probe[0] == 1
}
