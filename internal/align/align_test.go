package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownUp(t *testing.T) {
	tests := []struct {
		n, a     uintptr
		down, up uintptr
	}{
		{0, 4096, 0, 0},
		{1, 4096, 0, 4096},
		{4095, 4096, 0, 4096},
		{4096, 4096, 4096, 4096},
		{4097, 4096, 4096, 8192},
		{9, 8, 8, 16},
		{1<<22 + 1, 1 << 22, 1 << 22, 2 << 22},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.down, Down(tt.n, tt.a), "Down(%d, %d)", tt.n, tt.a)
		assert.Equal(t, tt.up, Up(tt.n, tt.a), "Up(%d, %d)", tt.n, tt.a)
	}
}

func TestIsAligned(t *testing.T) {
	assert.True(t, IsAligned(0, 8))
	assert.True(t, IsAligned(4096, 4096))
	assert.False(t, IsAligned(4097, 4096))
	assert.False(t, IsAligned(4, 8))
}

func TestIsPow2(t *testing.T) {
	assert.False(t, IsPow2(0))
	assert.True(t, IsPow2(1))
	assert.True(t, IsPow2(4096))
	assert.False(t, IsPow2(4095))
}

func TestUp32(t *testing.T) {
	assert.Equal(t, uint32(8), Up32(1, 8))
	assert.Equal(t, uint32(8), Up32(8, 8))
	assert.Equal(t, uint32(16), Up32(9, 8))
}
