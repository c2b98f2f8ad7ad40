package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), sum)

	_, ok = AddOverflowSafe(math.MaxUint64, 1)
	assert.False(t, ok, "MaxUint64+1 must overflow")

	sum, ok = AddOverflowSafe(math.MaxUint64, 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), sum)
}

func TestMulOverflowSafe(t *testing.T) {
	prod, ok := MulOverflowSafe(56, 3)
	assert.True(t, ok)
	assert.Equal(t, uint64(168), prod)

	prod, ok = MulOverflowSafe(0, math.MaxUint64)
	assert.True(t, ok)
	assert.Zero(t, prod)

	_, ok = MulOverflowSafe(math.MaxUint64, 2)
	assert.False(t, ok, "MaxUint64*2 must overflow")
}

func TestSlice(t *testing.T) {
	b := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	s, ok := Slice(b, 2, 4)
	assert.True(t, ok)
	assert.Equal(t, []byte{2, 3, 4, 5}, s)

	s, ok = Slice(b, 8, 0)
	assert.True(t, ok, "empty slice at end of buffer is valid")
	assert.Empty(t, s)

	_, ok = Slice(b, 6, 4)
	assert.False(t, ok, "slice past end must fail")

	_, ok = Slice(b, math.MaxUint64, 2)
	assert.False(t, ok, "offset overflow must fail")
}

func TestHas(t *testing.T) {
	b := make([]byte, 64)
	assert.True(t, Has(b, 0, 64))
	assert.False(t, Has(b, 1, 64))
	assert.False(t, Has(b, math.MaxUint64-1, 8))
}
