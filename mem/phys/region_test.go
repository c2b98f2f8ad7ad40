package phys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionFrameIndex(t *testing.T) {
	r := NewRegion(0x1000_0000, 4, FrameFree)

	idx, ok := r.FrameIndex(0x1000_0000)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = r.FrameIndex(0x1000_3000)
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = r.FrameIndex(0x1000_4000)
	assert.False(t, ok, "one past the end must be rejected")

	_, ok = r.FrameIndex(0x0FFF_F000)
	assert.False(t, ok, "addresses below base must be rejected")

	_, ok = r.FrameIndex(0x1000_0800)
	assert.False(t, ok, "unaligned offsets must be rejected")
}

func TestRegionFrameAddress(t *testing.T) {
	r := NewRegion(0x2000, 2, FrameFree)

	addr, ok := r.FrameAddress(0)
	require.True(t, ok)
	assert.Equal(t, uint64(0x2000), addr)

	addr, ok = r.FrameAddress(1)
	require.True(t, ok)
	assert.Equal(t, uint64(0x3000), addr)

	_, ok = r.FrameAddress(2)
	assert.False(t, ok)
	_, ok = r.FrameAddress(-1)
	assert.False(t, ok)
}

func TestRegionRoundTrip(t *testing.T) {
	r := NewRegion(0x40_0000, 16, FrameFree)
	for i := 0; i < r.NumFrames(); i++ {
		addr, ok := r.FrameAddress(i)
		require.True(t, ok)
		idx, ok := r.FrameIndex(addr)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestRegionWithStates(t *testing.T) {
	states := []FrameState{FrameFree, FrameAllocated, FrameUnusable, FrameFree}
	r := NewRegionWithStates(0, states)
	assert.Equal(t, 4, r.NumFrames())
	assert.Equal(t, states, r.States())

	r.States()[0] = FrameAllocated
	assert.Equal(t, FrameAllocated, r.States()[0], "States shares the backing array")
}

func TestFrameStateUsable(t *testing.T) {
	assert.False(t, FrameUnusable.Usable())
	assert.True(t, FrameAllocated.Usable())
	assert.True(t, FrameFree.Usable())
}
