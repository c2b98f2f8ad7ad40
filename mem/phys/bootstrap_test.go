package phys

import (
	"testing"

	"github.com/crumpet-os/crumpet/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMap() []mem.MapEntry {
	return []mem.MapEntry{
		{Base: 0x0000, Length: 0x2000, Type: mem.EntryUsable},            // 2 frames
		{Base: 0x2000, Length: 0x1000, Type: mem.EntryReserved},          // skipped
		{Base: 0x0010_0000, Length: 0x3000, Type: mem.EntryUsable},       // 3 frames
		{Base: 0x0020_0000, Length: 0x1000, Type: mem.EntryFramebuffer},  // skipped
		{Base: 0x0030_0000, Length: 0x1000, Type: mem.EntryUsable},       // 1 frame
	}
}

func TestBumpAllocatesAscending(t *testing.T) {
	b := NewBump(testMap())

	want := []uint64{0x0000, 0x1000, 0x0010_0000, 0x0010_1000, 0x0010_2000, 0x0030_0000}
	for i, addr := range want {
		f, ok := b.AllocateFrame()
		require.True(t, ok, "frame %d should be available", i)
		assert.Equal(t, addr, f.Address())
	}

	_, ok := b.AllocateFrame()
	assert.False(t, ok, "usable frames are exhausted")
	assert.Equal(t, len(want), b.Issued())
}

func TestBumpNeverReissues(t *testing.T) {
	b := NewBump(testMap())
	seen := make(map[Frame]bool)
	for {
		f, ok := b.AllocateFrame()
		if !ok {
			break
		}
		require.False(t, seen[f], "frame %#x issued twice", f.Address())
		seen[f] = true
	}
	assert.Len(t, seen, 6)
}

func TestBumpIssuedFrameReplay(t *testing.T) {
	b := NewBump(testMap())
	var issued []Frame
	for i := 0; i < 4; i++ {
		f, ok := b.AllocateFrame()
		require.True(t, ok)
		issued = append(issued, f)
	}

	for i, want := range issued {
		f, ok := b.IssuedFrame(i)
		require.True(t, ok)
		assert.Equal(t, want, f)
	}

	_, ok := b.IssuedFrame(4)
	assert.False(t, ok, "frames not yet issued are not replayable")
	_, ok = b.IssuedFrame(-1)
	assert.False(t, ok)
}

func TestBumpEmptyMap(t *testing.T) {
	b := NewBump(nil)
	_, ok := b.AllocateFrame()
	assert.False(t, ok)
	assert.Zero(t, b.Issued())
}
