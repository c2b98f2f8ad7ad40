package phys

// FrameState is the allocation state of a single 4KiB frame.
type FrameState uint8

const (
	// FrameUnusable marks a frame that can never be allocated (reserved,
	// MMIO, firmware-claimed). Set once at region construction.
	FrameUnusable FrameState = iota
	// FrameAllocated marks a frame currently handed out.
	FrameAllocated
	// FrameFree marks a frame available for allocation.
	FrameFree
)

// Usable reports whether the frame may ever be allocated.
func (s FrameState) Usable() bool {
	return s != FrameUnusable
}

func (s FrameState) String() string {
	switch s {
	case FrameUnusable:
		return "unusable"
	case FrameAllocated:
		return "allocated"
	case FrameFree:
		return "free"
	default:
		return "invalid"
	}
}

// Region is one contiguous span of physical address space known to the
// firmware as usable, tracked as per-frame states. The base address and
// length are fixed at construction; only frame states mutate.
type Region struct {
	base   uint64
	frames []FrameState
}

// NewRegion creates a region of numFrames 4KiB frames starting at base, all
// in the given initial state. base must be 4KiB aligned.
func NewRegion(base uint64, numFrames int, initial FrameState) Region {
	frames := make([]FrameState, numFrames)
	for i := range frames {
		frames[i] = initial
	}
	return Region{base: base, frames: frames}
}

// NewRegionWithStates creates a region at base with an explicit frame-state
// sequence. Used by tests and by the stage-2 bootstrap handoff.
func NewRegionWithStates(base uint64, states []FrameState) Region {
	return Region{base: base, frames: states}
}

// Base returns the region's starting physical address.
func (r *Region) Base() uint64 {
	return r.base
}

// NumFrames returns the number of 4KiB frames in the region.
func (r *Region) NumFrames() int {
	return len(r.frames)
}

// FrameIndex converts an absolute physical address to a frame index within
// this region. Returns ok = false when the address lies outside the region
// or is not frame-aligned relative to the base.
func (r *Region) FrameIndex(addr uint64) (int, bool) {
	if addr < r.base {
		return 0, false
	}
	offset := addr - r.base
	if offset%uint64(Size4KiB) != 0 {
		return 0, false
	}
	index := int(offset / uint64(Size4KiB))
	if index >= len(r.frames) {
		return 0, false
	}
	return index, true
}

// FrameAddress is the inverse of FrameIndex: the absolute physical address
// of the frame at index, or ok = false when index is out of range.
func (r *Region) FrameAddress(index int) (uint64, bool) {
	if index < 0 || index >= len(r.frames) {
		return 0, false
	}
	return r.base + uint64(index)*uint64(Size4KiB), true
}

// States returns the region's frame-state sequence. The slice shares the
// region's backing array: mutations are visible to the region and must only
// happen while the caller has exclusive access.
func (r *Region) States() []FrameState {
	return r.frames
}
