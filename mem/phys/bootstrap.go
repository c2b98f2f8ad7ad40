package phys

import "github.com/crumpet-os/crumpet/mem"

// BumpAllocator is the stage-1 physical allocator: a bump pointer over the
// firmware's usable memory-map entries. It is usable before any heap exists
// because it keeps no per-frame state, only a count of frames handed out.
//
// It hands out the next never-issued 4KiB frame on each call and supports
// neither deallocation nor any other page size. Frames issued here are
// replayed into the stage-2 manager so they stay allocated across the swap.
type BumpAllocator struct {
	entries []mem.MapEntry
	next    int
}

// NewBump creates a bump allocator over the given firmware memory map.
// Only usable entries are consumed; all other entry types are skipped.
func NewBump(entries []mem.MapEntry) *BumpAllocator {
	return &BumpAllocator{entries: entries}
}

// AllocateFrame hands out the next never-issued 4KiB frame, walking usable
// entries in firmware order. Returns ok = false when every usable frame has
// been issued.
func (b *BumpAllocator) AllocateFrame() (Frame, bool) {
	addr, ok := b.frameAt(b.next)
	if !ok {
		return 0, false
	}
	b.next++
	return Frame(addr), true
}

// Issued returns how many frames have been handed out so far.
func (b *BumpAllocator) Issued() int {
	return b.next
}

// IssuedFrame returns the address of the i-th issued frame. Valid for
// 0 <= i < Issued(); used by the stage-2 handoff to replay allocations.
func (b *BumpAllocator) IssuedFrame(i int) (Frame, bool) {
	if i < 0 || i >= b.next {
		return 0, false
	}
	addr, ok := b.frameAt(i)
	return Frame(addr), ok
}

// Entries returns the firmware memory map the allocator was built from.
func (b *BumpAllocator) Entries() []mem.MapEntry {
	return b.entries
}

// frameAt computes the address of the n-th 4KiB frame across all usable
// entries, in ascending order.
func (b *BumpAllocator) frameAt(n int) (uint64, bool) {
	remaining := uint64(n)
	for _, e := range b.entries {
		if !e.Usable() {
			continue
		}
		frames := e.Length / uint64(Size4KiB)
		if remaining < frames {
			return e.Base + remaining*uint64(Size4KiB), true
		}
		remaining -= frames
	}
	return 0, false
}
