package elf

import "github.com/crumpet-os/crumpet/memapi"

// Image is the result of loading a static executable: one allocation per
// materialized segment, grouped by the permission class it ended up in.
// An Image is immutable after construction; process creation takes
// ownership of the allocations and releases them when the process exits.
type Image struct {
	entry      uint64
	executable []memapi.Executable
	readonly   []memapi.Readonly
	writable   []memapi.Writable
	tls        memapi.Readonly
}

// Entry returns the binary's entry-point virtual address.
func (img *Image) Entry() uint64 {
	return img.entry
}

// ExecutableAllocations returns the segments mapped executable-immutable.
func (img *Image) ExecutableAllocations() []memapi.Executable {
	return img.executable
}

// ReadonlyAllocations returns the segments mapped read-only.
func (img *Image) ReadonlyAllocations() []memapi.Readonly {
	return img.readonly
}

// WritableAllocations returns the segments left writable.
func (img *Image) WritableAllocations() []memapi.Writable {
	return img.writable
}

// TLSAllocation returns the read-only master TLS template, or ok = false
// when the binary has no TLS segment.
func (img *Image) TLSAllocation() (memapi.Readonly, bool) {
	return img.tls, img.tls != nil
}
