package buf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadsMatchNativeOrder(t *testing.T) {
	b := make([]byte, 8)
	binary.NativeEndian.PutUint64(b, 0x1122334455667788)

	assert.Equal(t, uint64(0x1122334455667788), U64(b))
	assert.Equal(t, binary.NativeEndian.Uint32(b), U32(b))
	assert.Equal(t, binary.NativeEndian.Uint16(b), U16(b))
}

func TestReadsShortBuffer(t *testing.T) {
	assert.Zero(t, U16([]byte{1}))
	assert.Zero(t, U32([]byte{1, 2, 3}))
	assert.Zero(t, U64([]byte{1, 2, 3, 4, 5, 6, 7}))
}
