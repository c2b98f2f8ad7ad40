package memsim

import (
	"testing"

	"github.com/crumpet-os/crumpet/memapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayout(t *testing.T, size, align uint64) memapi.Layout {
	t.Helper()
	l, err := memapi.NewLayout(size, align)
	require.NoError(t, err)
	return l
}

func TestAllocateFixed(t *testing.T) {
	var m Allocator
	a, ok := m.Allocate(memapi.Fixed(0x40_0000), mustLayout(t, 0x200, 0x1000), memapi.UserAccessible, memapi.Unguarded)
	require.True(t, ok)
	assert.Equal(t, uint64(0x40_0000), a.Addr())
	assert.Len(t, a.Bytes(), 0x200)

	got, ok := m.At(0x40_0000)
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestAllocateAnywhereIsAligned(t *testing.T) {
	var m Allocator
	a1, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 0x10, 0x1000), memapi.KernelOnly, memapi.Unguarded)
	require.True(t, ok)
	a2, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 0x10, 0x1000), memapi.KernelOnly, memapi.Unguarded)
	require.True(t, ok)

	assert.Zero(t, a1.Addr()%0x1000)
	assert.Zero(t, a2.Addr()%0x1000)
	assert.NotEqual(t, a1.Addr(), a2.Addr())
}

func TestUnwrittenBytesCarryPattern(t *testing.T) {
	var m Allocator
	a, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 4, 8), memapi.KernelOnly, memapi.Unguarded)
	require.True(t, ok)
	assert.Equal(t, []byte{0xCC, 0xCC, 0xCC, 0xCC}, a.Bytes())
}

func TestFailureInjection(t *testing.T) {
	m := Allocator{FailAllocate: true}
	_, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 8, 8), memapi.KernelOnly, memapi.Unguarded)
	assert.False(t, ok)

	m = Allocator{FailMakeExecutable: true, FailMakeReadonly: true}
	a, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 8, 8), memapi.KernelOnly, memapi.Unguarded)
	require.True(t, ok)

	_, err := m.MakeExecutable(a)
	assert.ErrorIs(t, err, ErrTransitionRefused)
	_, err = m.MakeReadonly(a)
	assert.ErrorIs(t, err, ErrTransitionRefused)
}

func TestTransitions(t *testing.T) {
	var m Allocator
	a, ok := m.Allocate(memapi.Anywhere(), mustLayout(t, 8, 8), memapi.KernelOnly, memapi.Unguarded)
	require.True(t, ok)

	exec, err := m.MakeExecutable(a)
	require.NoError(t, err)
	assert.Equal(t, a.Addr(), exec.Addr())

	w, err := m.MakeWritable(exec)
	require.NoError(t, err)
	ro, err := m.MakeReadonly(w)
	require.NoError(t, err)
	assert.Equal(t, a.Addr(), ro.Addr())
}
