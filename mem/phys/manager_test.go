package phys

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeStates(n int) []FrameState {
	states := make([]FrameState, n)
	for i := range states {
		states[i] = FrameFree
	}
	return states
}

// checkFirstFree rescans all regions from scratch and asserts that the
// cached cursor matches the true lexicographically smallest free frame.
func checkFirstFree(t *testing.T, m *Manager) {
	t.Helper()
	want, wantOK := m.scanFirstFree(frameCursor{})
	assert.Equal(t, wantOK, m.hasFree, "cache presence must match a full rescan")
	if wantOK && m.hasFree {
		assert.Equal(t, want, m.firstFree, "cache must equal the full-rescan result")
	}
}

func TestNewDense(t *testing.T) {
	states := []FrameState{FrameFree, FrameAllocated, FrameUnusable, FrameFree}
	m := NewDense(states)
	require.Equal(t, 1, m.NumRegions())
	assert.Equal(t, 4, m.Regions()[0].NumFrames())
	assert.Equal(t, states, m.Regions()[0].States())
	checkFirstFree(t, m)
}

func TestNewDenseEmpty(t *testing.T) {
	m := NewDense(nil)
	assert.Zero(t, m.NumRegions())
	_, ok := m.AllocateFrame(Size4KiB)
	assert.False(t, ok)
}

func TestAllocateDeallocate4KiB(t *testing.T) {
	m := NewDense(freeStates(4))

	var frames []Frame
	for i, want := range []uint64{0x0000, 0x1000, 0x2000, 0x3000} {
		f, ok := m.AllocateFrame(Size4KiB)
		require.True(t, ok, "allocation %d should succeed", i)
		assert.Equal(t, want, f.Address())
		frames = append(frames, f)
		checkFirstFree(t, m)
	}

	_, ok := m.AllocateFrame(Size4KiB)
	assert.False(t, ok, "fifth allocation must fail")

	require.True(t, m.DeallocateFrame(Size4KiB, frames[1]))
	assert.False(t, m.DeallocateFrame(Size4KiB, frames[1]), "double-free is a no-op result")
	checkFirstFree(t, m)

	require.True(t, m.DeallocateFrame(Size4KiB, frames[3]))
	f, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, frames[1], f, "lowest freed frame is reallocated first")
	checkFirstFree(t, m)

	require.True(t, m.DeallocateFrame(Size4KiB, frames[0]))
	require.True(t, m.DeallocateFrame(Size4KiB, frames[2]))
	require.True(t, m.DeallocateFrame(Size4KiB, frames[1]))
	checkFirstFree(t, m)
}

func TestAllocateDeallocate2MiB(t *testing.T) {
	// 1024 4KiB frames = 4MiB total.
	m := NewDense(freeStates(1024))

	// Claim frame 0 so the 2MiB allocation cannot start at index 0.
	small1, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)

	big, ok := m.AllocateFrame(Size2MiB)
	require.True(t, ok)
	assert.Equal(t, uint64(512*4096), big.Address(),
		"2MiB frame must start at the next 2MiB boundary, not at frame 1")
	checkFirstFree(t, m)

	_, ok = m.AllocateFrame(Size2MiB)
	assert.False(t, ok, "no second aligned 2MiB run exists")

	small2, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)

	require.True(t, m.DeallocateFrame(Size4KiB, small1))
	require.True(t, m.DeallocateFrame(Size2MiB, big))
	require.True(t, m.DeallocateFrame(Size4KiB, small2))
	checkFirstFree(t, m)
}

func TestAllocateDeallocate1GiB(t *testing.T) {
	if testing.Short() {
		t.Skip("2GiB of frame states")
	}
	m := NewDense(freeStates(512 * 512 * 2)) // 2GiB

	small1, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)

	big, ok := m.AllocateFrame(Size1GiB)
	require.True(t, ok)
	assert.Equal(t, uint64(1024*1024*1024), big.Address())

	_, ok = m.AllocateFrame(Size1GiB)
	assert.False(t, ok)

	require.True(t, m.DeallocateFrame(Size4KiB, small1))
	require.True(t, m.DeallocateFrame(Size1GiB, big))
	checkFirstFree(t, m)
}

func TestAllocateFramesRange(t *testing.T) {
	m := NewDense(freeStates(16))

	r, ok := m.AllocateFrames(Size4KiB, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(0x0000), r.Start.Address())
	assert.Equal(t, uint64(0x3000), r.End.Address())
	assert.Equal(t, 4, r.NumFrames())
	checkFirstFree(t, m)

	require.True(t, m.DeallocateFrames(r))
	assert.False(t, m.DeallocateFrames(r), "range double-free must report failure")
	checkFirstFree(t, m)
}

func TestAllocateFramesAlignment(t *testing.T) {
	// A region based at 0x1000 (4KiB aligned but not 2MiB aligned) must
	// still return 2MiB-aligned frames.
	m := NewManager([]Region{NewRegion(0x1000, 1024, FrameFree)})

	f, ok := m.AllocateFrame(Size2MiB)
	require.True(t, ok)
	assert.Zero(t, f.Address()%Size2MiB.Bytes(), "2MiB frame must be 2MiB aligned")
}

func TestSparseRegions(t *testing.T) {
	m := NewManager([]Region{
		NewRegion(0x0000_0000, 4, FrameFree),
		NewRegion(0x1000_0000, 4, FrameFree),
	})
	require.Equal(t, 2, m.NumRegions())

	f1, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x0000), f1.Address())

	f2, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), f2.Address())

	require.True(t, m.DeallocateFrame(Size4KiB, f1))
	f3, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, f1, f3, "freed frame is immediately re-allocatable")
	checkFirstFree(t, m)
}

func TestSparseSpillsIntoSecondRegion(t *testing.T) {
	m := NewManager([]Region{
		NewRegion(0x0000, 2, FrameFree),
		NewRegion(0x1000_0000, 2, FrameFree),
	})

	for _, want := range []uint64{0x0000, 0x1000, 0x1000_0000, 0x1000_1000} {
		f, ok := m.AllocateFrame(Size4KiB)
		require.True(t, ok)
		assert.Equal(t, want, f.Address())
		checkFirstFree(t, m)
	}
	_, ok := m.AllocateFrame(Size4KiB)
	assert.False(t, ok)
}

func TestSparsePreAllocatedFrames(t *testing.T) {
	states := freeStates(8)
	states[1] = FrameAllocated
	states[3] = FrameAllocated
	states[5] = FrameAllocated
	m := NewManager([]Region{NewRegionWithStates(0, states)})

	f1, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x0000), f1.Address())

	f2, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x2000), f2.Address(), "pre-allocated frame 1 must be skipped")
	checkFirstFree(t, m)
}

func TestNoCrossRegionAllocation(t *testing.T) {
	// Two regions back-to-back in address space: 8 contiguous free frames
	// physically, but never allocatable as one run.
	m := NewManager([]Region{
		NewRegion(0x0000, 4, FrameFree),
		NewRegion(0x4000, 4, FrameFree),
	})

	_, ok := m.AllocateFrames(Size4KiB, 8)
	assert.False(t, ok, "a run must never span a region boundary")

	_, ok = m.AllocateFrames(Size4KiB, 5)
	assert.False(t, ok)

	r1, ok := m.AllocateFrames(Size4KiB, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(0x0000), r1.Start.Address())

	r2, ok := m.AllocateFrames(Size4KiB, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(0x4000), r2.Start.Address())
}

func TestUnusableFramesNeverAllocated(t *testing.T) {
	states := []FrameState{FrameUnusable, FrameFree, FrameUnusable, FrameFree}
	m := NewDense(states)

	f1, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), f1.Address())

	f2, ok := m.AllocateFrame(Size4KiB)
	require.True(t, ok)
	assert.Equal(t, uint64(0x3000), f2.Address())

	_, ok = m.AllocateFrame(Size4KiB)
	assert.False(t, ok)

	assert.False(t, m.DeallocateFrame(Size4KiB, Frame(0x0000)),
		"unusable frames cannot be freed")
}

func TestFirstFreeCacheInvariantRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := NewManager([]Region{
		NewRegion(0x0000, 64, FrameFree),
		NewRegion(0x10_0000, 32, FrameFree),
		NewRegion(0x20_0000, 128, FrameFree),
	})

	var live []Frame
	for op := 0; op < 2000; op++ {
		if rng.Intn(2) == 0 || len(live) == 0 {
			if f, ok := m.AllocateFrame(Size4KiB); ok {
				live = append(live, f)
			}
		} else {
			i := rng.Intn(len(live))
			require.True(t, m.DeallocateFrame(Size4KiB, live[i]))
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		checkFirstFree(t, m)
	}
}

func TestAllocatedFramesAreDistinct(t *testing.T) {
	m := NewDense(freeStates(256))
	seen := make(map[Frame]bool)
	for {
		f, ok := m.AllocateFrame(Size4KiB)
		if !ok {
			break
		}
		require.False(t, seen[f], "frame %#x handed out twice", f.Address())
		seen[f] = true
	}
	assert.Len(t, seen, 256)
}
