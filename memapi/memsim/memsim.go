// Package memsim backs the memapi capability with plain byte slices. It is
// used by loader tests and by tooling that dry-runs an ELF load without a
// kernel address space underneath.
package memsim

import (
	"errors"

	"github.com/crumpet-os/crumpet/memapi"
)

var (
	// ErrTransitionRefused is returned by the failure-injection hooks.
	ErrTransitionRefused = errors.New("memsim: transition refused")
)

type perm uint8

const (
	permWritable perm = iota
	permReadonly
	permExecutable
)

// Allocation is a byte-slice-backed allocation. A single value serves as
// writable, read-only, and executable; the permission is bookkeeping only.
type Allocation struct {
	addr   uint64
	layout memapi.Layout
	data   []byte
	perm   perm
}

// Addr returns the simulated virtual address.
func (a *Allocation) Addr() uint64 {
	return a.addr
}

// Layout returns the layout the allocation was created with.
func (a *Allocation) Layout() memapi.Layout {
	return a.layout
}

// Bytes returns the mutable contents.
func (a *Allocation) Bytes() []byte {
	return a.data
}

// Data returns the contents for read-only inspection.
func (a *Allocation) Data() []byte {
	return a.data
}

// Allocator is an in-memory memapi.Memory. The zero value is ready to use.
// The Fail* fields inject failures for testing error paths.
type Allocator struct {
	next   uint64
	allocs map[uint64]*Allocation

	FailAllocate       bool
	FailMakeExecutable bool
	FailMakeReadonly   bool
}

// Allocate satisfies memapi.Memory. Anywhere-requests are placed at
// ascending aligned addresses starting at 0x1000.
func (m *Allocator) Allocate(
	loc memapi.Location,
	layout memapi.Layout,
	_ memapi.UserAccess,
	_ memapi.Guard,
) (memapi.Writable, bool) {
	if m.FailAllocate {
		return nil, false
	}

	addr, fixed := loc.FixedAddr()
	if !fixed {
		if m.next < 0x1000 {
			m.next = 0x1000
		}
		if rem := m.next % layout.Align; rem != 0 {
			m.next += layout.Align - rem
		}
		addr = m.next
		m.next += layout.Size
	}

	// Fill with a pattern so unwritten bytes are detectable in tests.
	data := make([]byte, layout.Size)
	for i := range data {
		data[i] = 0xCC
	}

	a := &Allocation{addr: addr, layout: layout, data: data}
	if m.allocs == nil {
		m.allocs = make(map[uint64]*Allocation)
	}
	m.allocs[addr] = a
	return a, true
}

// MakeExecutable satisfies memapi.Memory.
func (m *Allocator) MakeExecutable(a memapi.Writable) (memapi.Executable, error) {
	if m.FailMakeExecutable {
		return nil, ErrTransitionRefused
	}
	sim := a.(*Allocation)
	sim.perm = permExecutable
	return sim, nil
}

// MakeReadonly satisfies memapi.Memory.
func (m *Allocator) MakeReadonly(a memapi.Writable) (memapi.Readonly, error) {
	if m.FailMakeReadonly {
		return nil, ErrTransitionRefused
	}
	sim := a.(*Allocation)
	sim.perm = permReadonly
	return sim, nil
}

// MakeWritable satisfies memapi.Memory.
func (m *Allocator) MakeWritable(a memapi.Executable) (memapi.Writable, error) {
	sim := a.(*Allocation)
	sim.perm = permWritable
	return sim, nil
}

// At returns the allocation created at addr, if any.
func (m *Allocator) At(addr uint64) (*Allocation, bool) {
	a, ok := m.allocs[addr]
	return a, ok
}

// Len returns how many allocations were made.
func (m *Allocator) Len() int {
	return len(m.allocs)
}

// Compile-time interface check
var _ memapi.Memory = (*Allocator)(nil)
