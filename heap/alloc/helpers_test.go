//go:build linux || darwin

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segheap/heap/storage"
)

// newTestBump returns an allocator over a fresh mmap provider and closes it
// when the test ends.
func newTestBump(t testing.TB, opts ...Option) (*BumpAllocator, *storage.MmapProvider) {
	t.Helper()
	p := storage.NewMmapProvider()
	ba := NewBump(p, opts...)
	t.Cleanup(func() {
		require.NoError(t, ba.Close())
		require.Zero(t, p.Outstanding(), "every segment must be released")
	})
	return ba, p
}
