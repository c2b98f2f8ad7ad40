// Package elf provides zero-copy, validated access to ELF64 executables and
// a loader that materializes them into permission-typed memory allocations.
//
// Parse validates only the fixed-size file header; everything else (program
// headers, section headers, symbol and string tables) is decoded on access
// by bounds-checked slicing into the original buffer. Nothing is copied out
// of the source until the loader runs, so arbitrarily large binaries can be
// inspected cheaply, for example through a memory-mapped file.
//
// Only statically linked little-endian ELF64 executables for the host's
// byte order are supported. Mixed-endianness binaries are rejected rather
// than byte-swapped, and header entry sizes other than the ELF64 layout are
// rejected rather than partially parsed.
//
// The loader consumes a memapi.Memory capability and produces an Image with
// the binary's segments segregated by page permission. Segments flagged both
// writable and executable are never mapped; encountering one is treated as a
// fatal policy violation, not a recoverable parse error.
package elf
