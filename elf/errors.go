package elf

import "errors"

// Parse errors. Each validation step fails with its own sentinel so callers
// can tell a truncated buffer from a foreign-ABI binary.
var (
	// ErrHeaderTooShort indicates the buffer is smaller than an ELF64 file
	// header.
	ErrHeaderTooShort = errors.New("elf: buffer too short for header")
	// ErrInvalidMagic indicates the buffer does not start with \x7fELF.
	ErrInvalidMagic = errors.New("elf: invalid magic number")
	// ErrUnsupportedEndian indicates the file's data encoding does not match
	// the host's byte order.
	ErrUnsupportedEndian = errors.New("elf: unsupported endianness")
	// ErrInvalidPhEntSize indicates a program-header entry size other than
	// the 56-byte ELF64 layout.
	ErrInvalidPhEntSize = errors.New("elf: invalid e_phentsize")
	// ErrInvalidShEntSize indicates a section-header entry size other than
	// the 64-byte ELF64 layout.
	ErrInvalidShEntSize = errors.New("elf: invalid e_shentsize")
	// ErrUnsupportedVersion indicates an ELF version other than 1 in either
	// the identification bytes or the file header.
	ErrUnsupportedVersion = errors.New("elf: unsupported elf version")
	// ErrUnsupportedOSABI indicates an OS/ABI byte other than System V.
	ErrUnsupportedOSABI = errors.New("elf: unsupported os abi")
)

// Load errors.
var (
	// ErrUnsupportedFileType indicates a binary that is not a static
	// executable (ET_EXEC).
	ErrUnsupportedFileType = errors.New("elf: unsupported file type")
	// ErrAllocationFailed indicates the memory capability could not satisfy
	// an allocation or a permission transition.
	ErrAllocationFailed = errors.New("elf: could not allocate memory")
	// ErrInvalidSizeOrAlign indicates a segment whose memsz/align pair is
	// not a satisfiable allocation layout.
	ErrInvalidSizeOrAlign = errors.New("elf: size or alignment requirement is invalid")
	// ErrSegmentOutOfBounds indicates a program header whose file contents
	// lie outside the buffer.
	ErrSegmentOutOfBounds = errors.New("elf: segment data out of bounds")
	// ErrTooManyTLSHeaders indicates more than one PT_TLS program header.
	ErrTooManyTLSHeaders = errors.New("elf: more than one TLS header found")
)
