//go:build linux || darwin

package storage

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segheap/internal/oscompat"
)

func newTestStorage(t *testing.T, p Provider) *AlignedStorage {
	t.Helper()
	s, err := New(p)
	require.NoError(t, err)
	require.True(t, s.Valid())
	t.Cleanup(func() { require.NoError(t, s.Release()) })
	return s
}

func TestAlignedStorage_SuccessfulAllocation(t *testing.T) {
	p := NewMmapProvider()
	s := newTestStorage(t, p)

	assert.Zero(t, s.LowLim()%Size)
	assert.Equal(t, uintptr(Size), s.HiLim()-s.LowLim())
	assert.Equal(t, uintptr(Size), s.Size())
	assert.Len(t, s.Bytes(), Size)
	assert.Same(t, p, s.Provider())
	assert.Equal(t, 1, p.Outstanding())
}

func TestAlignedStorage_FailedAllocation(t *testing.T) {
	lp := NewLimited(NewMmapProvider(), 0)
	s, err := New(lp)
	require.ErrorIs(t, err, ErrNoStorage)
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.False(t, s.Valid())
}

func TestAlignedStorage_EmptyState(t *testing.T) {
	var s AlignedStorage
	assert.False(t, s.Valid())
	assert.NoError(t, s.Release(), "releasing an empty storage is a no-op")
	assert.Panics(t, func() { s.LowLim() })
	assert.Panics(t, func() { s.Contains(0) })
}

func TestAlignedStorage_Start(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())
	lo, hi := s.LowLim(), s.HiLim()

	assert.Equal(t, lo, Start(lo))
	assert.Equal(t, lo, Start(lo+s.Size()/2))
	assert.Equal(t, lo, Start(hi-1))
	assert.Equal(t, hi, Start(hi))
}

func TestAlignedStorage_End(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())
	lo, hi := s.LowLim(), s.HiLim()

	assert.Equal(t, hi, End(lo))
	assert.Equal(t, hi, End(lo+s.Size()/2))
	assert.Equal(t, hi, End(hi-1))
	assert.Equal(t, hi+Size, End(hi))
}

func TestAlignedStorage_Offset(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())
	lo, hi := s.LowLim(), s.HiLim()

	assert.Equal(t, uintptr(0), Offset(lo))
	assert.Equal(t, s.Size()/2, Offset(lo+s.Size()/2))
	assert.Equal(t, s.Size()-1, Offset(hi-1))
	assert.Equal(t, uintptr(0), Offset(hi))
}

func TestAlignedStorage_Containment(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())

	// Boundaries
	assert.False(t, s.Contains(s.LowLim()-1))
	assert.True(t, s.Contains(s.LowLim()))
	assert.True(t, s.Contains(s.HiLim()-1))
	assert.False(t, s.Contains(s.HiLim()))

	// Interior
	assert.True(t, s.Contains(s.LowLim()+s.Size()/2))
}

func TestAlignedStorage_InteriorAddresses(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())
	lo := s.LowLim()
	ps := uintptr(oscompat.PageSize())

	for addr := lo; addr < s.HiLim(); addr += ps / 4 {
		require.Equal(t, lo, Start(addr))
		require.Equal(t, addr-lo, Offset(addr))
		require.True(t, s.Contains(addr))
	}
}

func TestAlignedStorage_MarkUnusedOutOfRangePanics(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())

	assert.Panics(t, func() { _ = s.MarkUnused(s.LowLim()-4096, s.LowLim()) })
	assert.Panics(t, func() { _ = s.MarkUnused(s.LowLim(), s.HiLim()+4096) })
	assert.Panics(t, func() { _ = s.MarkUnused(s.HiLim(), s.LowLim()) })
	assert.NoError(t, s.MarkUnused(s.LowLim(), s.LowLim()))
}

func TestAlignedStorage_MarkUnusedKeepsMappingWritable(t *testing.T) {
	s := newTestStorage(t, NewMmapProvider())
	b := s.Bytes()
	ps := oscompat.PageSize()

	b[0] = 1
	b[ps] = 2
	require.NoError(t, s.MarkUnused(s.LowLim(), s.LowLim()+uintptr(ps)))

	assert.Equal(t, byte(2), b[ps], "pages outside the range keep their data")
	b[0] = 3
	assert.Equal(t, byte(3), b[0], "a marked page is re-committed on write")
}

func TestAlignedStorage_Take(t *testing.T) {
	p := NewMmapProvider()
	s, err := New(p)
	require.NoError(t, err)
	lo := s.LowLim()

	moved := s.Take()
	assert.False(t, s.Valid())
	require.True(t, moved.Valid())
	assert.Equal(t, lo, moved.LowLim())

	require.NoError(t, s.Release())
	assert.Equal(t, 1, p.Outstanding(), "releasing the moved-from storage must not free the segment")

	require.NoError(t, moved.Release())
	assert.Equal(t, 0, p.Outstanding())
	assert.False(t, moved.Valid())
}

func TestMmapProvider_ReleaseUnaligned(t *testing.T) {
	p := NewMmapProvider()
	s := newTestStorage(t, p)
	err := p.Release(unsafe.Add(s.Base(), 4096))
	require.ErrorIs(t, err, ErrNotAligned)
}

// TestAlignedStorage_Alignment alternates segment allocations with anonymous
// "spacer" mappings whose size grows by 1 MiB each round:
//
//	---+---+---+---+---+----+--+---+----+--+---+-----+-+---+---
//	...|AAA|SSS/   |AAA|SSSS|  |AAA|SSSS/  |AAA|SSSSS| |AAA|...
//	---+---+---+---+---+----+--+---+----+--+---+-----+-+---+---
//
// The spacers disturb whatever layout a tight allocation loop would get, so
// alignment has to come from the provider rather than luck.
func TestAlignedStorage_Alignment(t *testing.T) {
	const mb = 1 << 20

	p := NewMmapProvider()
	var storages []*AlignedStorage
	var spacers []unsafe.Pointer

	defer func() {
		space := uintptr(Size + mb)
		for _, sp := range spacers {
			assert.NoError(t, oscompat.VMFree(sp, space))
			space += mb
		}
		for _, s := range storages {
			assert.NoError(t, s.Release())
		}
		assert.Equal(t, 0, p.Outstanding())
	}()

	for space := uintptr(Size + mb); space < 2*Size; space += mb {
		s, err := New(p)
		require.NoError(t, err)
		storages = append(storages, s)

		assert.Zero(t, s.LowLim()%Size, "segment %#x is not %d-aligned", s.LowLim(), Size)
		assert.Equal(t, uintptr(Size), s.HiLim()-s.LowLim())

		spacer, err := oscompat.VMAllocate(space)
		require.NoError(t, err)
		spacers = append(spacers, spacer)
	}
	require.NotEmpty(t, storages)
}
