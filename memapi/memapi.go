// Package memapi declares the memory-allocation capability consumed by the
// ELF loader: virtual-memory allocations typed by their page permissions,
// with fallible transitions between permission classes.
//
// The capability deliberately hides how pages are reserved and mapped; in
// the kernel it is backed by the virtual-address-space reservation service
// and the physical frame allocator, while tests and tooling back it with
// plain byte slices.
package memapi

import "errors"

var (
	// ErrInvalidLayout indicates a size/alignment pair that no allocation
	// can satisfy (alignment zero or not a power of two).
	ErrInvalidLayout = errors.New("memapi: invalid layout")
)

// Layout describes the size and alignment an allocation must satisfy.
type Layout struct {
	Size  uint64
	Align uint64
}

// NewLayout validates a size/alignment pair. Alignment must be a nonzero
// power of two.
func NewLayout(size, align uint64) (Layout, error) {
	if align == 0 || align&(align-1) != 0 {
		return Layout{}, ErrInvalidLayout
	}
	return Layout{Size: size, Align: align}, nil
}

// Location selects where in the virtual address space an allocation is
// placed.
type Location struct {
	addr  uint64
	fixed bool
}

// Anywhere lets the allocator choose the address.
func Anywhere() Location {
	return Location{}
}

// Fixed requests an allocation at exactly addr.
func Fixed(addr uint64) Location {
	return Location{addr: addr, fixed: true}
}

// FixedAddr returns the requested address and whether the location is
// fixed.
func (l Location) FixedAddr() (uint64, bool) {
	return l.addr, l.fixed
}

// UserAccess controls whether user mode may touch the allocation.
type UserAccess uint8

const (
	// KernelOnly allocations fault on user-mode access.
	KernelOnly UserAccess = iota
	// UserAccessible allocations are reachable from user mode.
	UserAccessible
)

// Guard controls whether the allocation is bracketed by guard pages.
type Guard uint8

const (
	// Unguarded allocations have no guard pages.
	Unguarded Guard = iota
	// Guarded allocations fault on adjacent overruns.
	Guarded
)

// Allocation is the read-only description every permission class shares.
type Allocation interface {
	// Addr returns the allocation's starting virtual address.
	Addr() uint64
	// Layout returns the size and alignment the allocation satisfies.
	Layout() Layout
}

// Writable is an allocation whose pages are mapped writable.
type Writable interface {
	Allocation
	// Bytes returns a mutable view of the allocation's contents.
	Bytes() []byte
}

// Readonly is an allocation whose pages are mapped read-only.
type Readonly interface {
	Allocation
	// Data returns a read-only view of the allocation's contents.
	Data() []byte
}

// Executable is an allocation whose pages are mapped executable and
// immutable.
type Executable interface {
	Allocation
}

// Memory is the allocation capability. Transitions between permission
// classes are fallible; on error the input allocation is unchanged and
// remains owned by the caller, so no allocation is ever silently dropped.
type Memory interface {
	// Allocate reserves and maps a writable allocation satisfying layout
	// at the given location. Returns ok = false when the address space or
	// backing memory is exhausted.
	Allocate(loc Location, layout Layout, access UserAccess, guard Guard) (Writable, bool)

	// MakeExecutable remaps the allocation executable and immutable.
	MakeExecutable(a Writable) (Executable, error)

	// MakeReadonly remaps the allocation read-only.
	MakeReadonly(a Writable) (Readonly, error)

	// MakeWritable remaps an executable allocation writable again.
	MakeWritable(a Executable) (Writable, error)
}
