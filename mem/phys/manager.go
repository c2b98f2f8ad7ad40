package phys

// frameCursor is a consistent pointer into the region list. The two fields
// always describe the same logical frame and are never stored separately.
type frameCursor struct {
	region int
	index  int
}

// before reports whether c is lexicographically smaller than other.
func (c frameCursor) before(other frameCursor) bool {
	return c.region < other.region || (c.region == other.region && c.index < other.index)
}

// Manager tracks the state of every usable physical frame in the system
// across an ordered list of regions. Regions are fixed after construction;
// only frame states mutate.
//
// The firstFree cursor caches the lexicographically smallest free frame.
// Every allocate and deallocate keeps it exact, so the common allocation
// path starts its search at the cursor instead of scanning from the start.
type Manager struct {
	regions   []Region
	firstFree frameCursor
	hasFree   bool
}

// NewManager creates a manager from a caller-supplied ordered region list.
// Regions may already carry allocated frames (for example from a prior
// bootstrap stage); the first-free cursor is established by a full scan.
func NewManager(regions []Region) *Manager {
	m := &Manager{regions: regions}
	m.firstFree, m.hasFree = m.scanFirstFree(frameCursor{})
	return m
}

// NewDense creates a manager with a single region based at address zero.
// This is the degenerate form of the sparse representation, used by tests
// and by callers that model flat physical memory.
func NewDense(states []FrameState) *Manager {
	if len(states) == 0 {
		return NewManager(nil)
	}
	return NewManager([]Region{NewRegionWithStates(0, states)})
}

// NumRegions returns the number of regions under management.
func (m *Manager) NumRegions() int {
	return len(m.regions)
}

// Regions returns the managed region list. The slice shares the manager's
// backing array and must not be mutated.
func (m *Manager) Regions() []Region {
	return m.regions
}

// AllocateFrame allocates a single frame of the given page size.
// Returns ok = false when no suitably aligned free run exists; exhaustion
// is an ordinary condition, not an error.
func (m *Manager) AllocateFrame(size PageSize) (Frame, bool) {
	r, ok := m.AllocateFrames(size, 1)
	return r.Start, ok
}

// AllocateFrames allocates n contiguous frames of the given page size and
// returns the inclusive range.
//
// The search starts at the first-free cursor and walks regions in order. A
// candidate run must start on an address that is a multiple of the page
// size and must lie entirely within one region: a request is never
// satisfied by frames split over two regions, even when the regions are
// physically adjacent.
//
// TODO: coalesce runs across adjacent regions so large requests cannot
// spuriously fail when free memory straddles a region boundary.
func (m *Manager) AllocateFrames(size PageSize, n int) (FrameRange, bool) {
	if n <= 0 || !m.hasFree {
		return FrameRange{}, false
	}

	per := size.smallFramesPer()
	count := n * per

	start := m.firstFree
	for ri := start.region; ri < len(m.regions); ri++ {
		region := &m.regions[ri]

		searchStart := 0
		if ri == start.region {
			searchStart = start.index
		}
		if searchStart >= len(region.frames) {
			continue
		}

		// Candidate starts must be size-aligned in absolute address terms.
		// Region bases are only guaranteed 4KiB aligned, so alignment is
		// computed on the absolute frame number, not the region-local index.
		baseFrame := region.base / uint64(Size4KiB)
		cur := searchStart
		if rem := (baseFrame + uint64(searchStart)) % uint64(per); rem != 0 {
			cur = searchStart + int(uint64(per)-rem)
		}

		for ; cur+count <= len(region.frames); cur += per {
			if !allFree(region.frames[cur : cur+count]) {
				continue
			}

			runEnd := cur + count - 1
			startAddr, _ := region.FrameAddress(cur)
			endAddr, _ := region.FrameAddress(cur + (n-1)*per)

			fill(region.frames[cur:runEnd+1], FrameAllocated)

			// The cursor only goes stale when the run swallowed the cached
			// frame; a run past the cursor leaves an earlier free frame valid.
			if ri == start.region && cur <= start.index {
				m.firstFree, m.hasFree = m.scanFirstFree(frameCursor{region: ri, index: runEnd + 1})
			}

			return FrameRange{Start: Frame(startAddr), End: Frame(endAddr), Size: size}, true
		}
	}

	return FrameRange{}, false
}

// DeallocateFrame returns a frame of the given page size to the free pool.
// Returns false when any constituent 4KiB frame is not currently allocated
// (double-free); callers that consider double-free a bug should assert on
// the result. Non-4KiB frames decompose into their constituent 4KiB frames;
// on failure the already-freed prefix stays freed.
func (m *Manager) DeallocateFrame(size PageSize, frame Frame) bool {
	switch size {
	case Size4KiB:
		return m.deallocateSmallFrame(frame)
	case Size2MiB:
		for i := 0; i < Size2MiB.smallFramesPer(); i++ {
			f := Frame(uint64(frame) + uint64(i)*uint64(Size4KiB))
			if !m.deallocateSmallFrame(f) {
				return false
			}
		}
		return true
	case Size1GiB:
		for i := 0; i < int(uint64(Size1GiB)/uint64(Size2MiB)); i++ {
			f := Frame(uint64(frame) + uint64(i)*uint64(Size2MiB))
			if !m.DeallocateFrame(Size2MiB, f) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// DeallocateFrames returns a whole allocated range to the free pool.
// On failure, frames deallocated before the failing one stay freed; the
// operation is not rolled back. Callers treating this as a bug should
// assert on the result.
func (m *Manager) DeallocateFrames(r FrameRange) bool {
	for addr := uint64(r.Start); addr <= uint64(r.End); addr += r.Size.Bytes() {
		if !m.DeallocateFrame(r.Size, Frame(addr)) {
			return false
		}
	}
	return true
}

func (m *Manager) deallocateSmallFrame(frame Frame) bool {
	cursor, ok := m.findFrame(uint64(frame))
	if !ok {
		return false
	}
	region := &m.regions[cursor.region]
	if region.frames[cursor.index] != FrameAllocated {
		return false
	}
	region.frames[cursor.index] = FrameFree

	// A freshly freed frame below the cursor becomes the new first free.
	if !m.hasFree || cursor.before(m.firstFree) {
		m.firstFree = cursor
		m.hasFree = true
	}
	return true
}

// findFrame locates the region and local index holding the given address.
func (m *Manager) findFrame(addr uint64) (frameCursor, bool) {
	for ri := range m.regions {
		if idx, ok := m.regions[ri].FrameIndex(addr); ok {
			return frameCursor{region: ri, index: idx}, true
		}
	}
	return frameCursor{}, false
}

// scanFirstFree finds the lexicographically smallest free frame at or after
// the given position.
func (m *Manager) scanFirstFree(from frameCursor) (frameCursor, bool) {
	for ri := from.region; ri < len(m.regions); ri++ {
		frames := m.regions[ri].frames
		begin := 0
		if ri == from.region {
			begin = from.index
		}
		for i := begin; i < len(frames); i++ {
			if frames[i] == FrameFree {
				return frameCursor{region: ri, index: i}, true
			}
		}
	}
	return frameCursor{}, false
}

func allFree(states []FrameState) bool {
	for _, s := range states {
		if s != FrameFree {
			return false
		}
	}
	return true
}

func fill(states []FrameState, s FrameState) {
	for i := range states {
		states[i] = s
	}
}
