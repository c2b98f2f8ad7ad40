package phys

import (
	"log/slog"
	"sync"

	"github.com/crumpet-os/crumpet/mem"
)

// Staged is the kernel's physical frame allocator facade with a two-stage
// lifecycle. Stage 1 wraps a BumpAllocator and is available as soon as the
// firmware memory map is known; stage 2 swaps in the full Manager once heap
// storage for region metadata exists. The transition is one-way and
// preserves every allocation made in stage 1.
//
// All methods serialize behind an internal mutex; no operation blocks or
// yields while holding it.
type Staged struct {
	mu     sync.Mutex
	stage1 *BumpAllocator
	stage2 *Manager
}

// InitStage1 brings up the bump allocator from the firmware memory map.
// Panics if called twice.
func (s *Staged) InitStage1(entries []mem.MapEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage1 != nil || s.stage2 != nil {
		panic("phys: stage 1 already initialized")
	}

	var usable uint64
	for _, e := range entries {
		if e.Usable() {
			usable += e.Length
		}
	}
	slog.Info("physical memory stage 1", "usableMiB", usable/1024/1024)

	s.stage1 = NewBump(entries)
}

// InitStage2 replaces the bump allocator with the full region-based
// manager. Every frame issued in stage 1 is replayed as allocated, so the
// swap loses no allocation state. Panics unless the allocator is currently
// in stage 1.
//
// The firmware guarantees usable entries are non-overlapping, ascending,
// and 4KiB aligned; this is relied upon, not re-validated.
func (s *Staged) InitStage2() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage1 == nil {
		panic("phys: stage 2 requires stage 1")
	}

	var regions []Region
	for _, e := range s.stage1.Entries() {
		if !e.Usable() {
			continue
		}
		numFrames := int(e.Length / uint64(Size4KiB))
		regions = append(regions, NewRegion(e.Base, numFrames, FrameFree))
	}

	// Replay stage-1 allocations.
	for i := 0; i < s.stage1.Issued(); i++ {
		frame, ok := s.stage1.IssuedFrame(i)
		if !ok {
			continue
		}
		for ri := range regions {
			if idx, ok := regions[ri].FrameIndex(frame.Address()); ok {
				regions[ri].States()[idx] = FrameAllocated
				break
			}
		}
	}

	s.stage2 = NewManager(regions)
	s.stage1 = nil
}

// IsInitialized reports whether at least stage 1 has completed.
func (s *Staged) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage1 != nil || s.stage2 != nil
}

// AllocateFrame allocates a single frame of the given page size. In stage 1
// only 4KiB frames are supported; requesting another size is a logic error
// and panics. Exhaustion returns ok = false and logs a warning.
func (s *Staged) AllocateFrame(size PageSize) (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		frame Frame
		ok    bool
	)
	switch {
	case s.stage2 != nil:
		frame, ok = s.stage2.AllocateFrame(size)
	case s.stage1 != nil:
		if size != Size4KiB {
			panic("phys: can't allocate non-4KiB frames in stage 1")
		}
		frame, ok = s.stage1.AllocateFrame()
	default:
		panic("phys: allocator not initialized")
	}
	if !ok {
		slog.Warn("out of physical memory", "size", size.String())
	}
	return frame, ok
}

// AllocateFrames allocates n contiguous frames. Not supported in stage 1.
func (s *Staged) AllocateFrames(size PageSize, n int) (FrameRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage2 == nil {
		panic("phys: can't allocate contiguous frames in stage 1")
	}
	r, ok := s.stage2.AllocateFrames(size, n)
	if !ok {
		slog.Warn("out of physical memory", "size", size.String(), "frames", n)
	}
	return r, ok
}

// DeallocateFrame returns a frame to the free pool. Not supported in
// stage 1. Returns false on double-free.
func (s *Staged) DeallocateFrame(size PageSize, frame Frame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage2 == nil {
		panic("phys: can't deallocate frames in stage 1")
	}
	return s.stage2.DeallocateFrame(size, frame)
}

// DeallocateFrames returns a whole range to the free pool. Not supported in
// stage 1.
func (s *Staged) DeallocateFrames(r FrameRange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage2 == nil {
		panic("phys: can't deallocate frames in stage 1")
	}
	return s.stage2.DeallocateFrames(r)
}

// AllocateFramesNonContiguous returns a pull function yielding individual
// frames of the given size until memory is exhausted. Useful when physical
// contiguity is not required and memory may be fragmented.
func (s *Staged) AllocateFramesNonContiguous(size PageSize) func() (Frame, bool) {
	return func() (Frame, bool) {
		return s.AllocateFrame(size)
	}
}
