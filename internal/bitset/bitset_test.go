package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	assert.Equal(t, 0, Words(0))
	assert.Equal(t, 1, Words(1))
	assert.Equal(t, 1, Words(64))
	assert.Equal(t, 2, Words(65))
	assert.Equal(t, 17, Words(1044))
}

func TestSetCount(t *testing.T) {
	v := make([]uint64, 2)

	Set(v, 0)
	Set(v, 63)
	Set(v, 64)
	Set(v, 1000) // ignored
	Set(v, -1)   // ignored

	assert.Equal(t, []uint64{1<<63 | 1, 1}, v)
	assert.Equal(t, 3, Count(v))
	assert.Zero(t, Count(nil))

	assert.True(t, Test(v, 0))
	assert.True(t, Test(v, 63))
	assert.True(t, Test(v, 64))
	assert.False(t, Test(v, 1))
	assert.False(t, Test(v, 65))
	assert.False(t, Test(v, 128))
	assert.False(t, Test(v, -1))
}

func TestWindow(t *testing.T) {
	v := []uint64{0xF000000000000000, 0x000000000000000F}

	t.Run("Aligned", func(t *testing.T) {
		assert.Equal(t, v[0], Window(v, 0))
		assert.Equal(t, v[1], Window(v, 64))
	})

	t.Run("Unaligned", func(t *testing.T) {
		// Bits 60..67 are set; a window at 60 sees them as its low byte.
		assert.Equal(t, uint64(0xFF), Window(v, 60))
	})

	t.Run("PastEnd", func(t *testing.T) {
		assert.Equal(t, uint64(0), Window(v, 128))
		assert.Equal(t, uint64(0), Window(v, 4096))
		assert.Equal(t, uint64(0xF)>>4, Window(v, 68))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, uint64(0), Window(nil, 0))
	})
}

func TestOrShifted(t *testing.T) {
	t.Run("Aligned", func(t *testing.T) {
		dst := make([]uint64, 3)
		OrShifted(dst, []uint64{1, 2}, 64)
		assert.Equal(t, []uint64{0, 1, 2}, dst)
	})

	t.Run("Unaligned", func(t *testing.T) {
		dst := make([]uint64, 3)
		src := []uint64{^uint64(0), 1}
		OrShifted(dst, src, 10)

		for i := 0; i < 10; i++ {
			require.False(t, Test(dst, i), "bit %d", i)
		}
		for i := 10; i < 74; i++ {
			require.True(t, Test(dst, i), "bit %d", i)
		}
		assert.True(t, Test(dst, 74))
		assert.Equal(t, 65, Count(dst))
	})

	t.Run("Truncated", func(t *testing.T) {
		dst := make([]uint64, 1)
		OrShifted(dst, []uint64{^uint64(0)}, 32)
		assert.Equal(t, uint64(0xFFFFFFFF00000000), dst[0])
	})
}

func TestParity(t *testing.T) {
	assert.Equal(t, uint8(0), Parity(0))
	assert.Equal(t, uint8(1), Parity(1))
	assert.Equal(t, uint8(0), Parity(3))
	assert.Equal(t, uint8(1), Parity(0x8000000000000003))
}
