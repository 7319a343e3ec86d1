package alloc

import (
	"fmt"
	"io"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/heap/storage"
)

// CellIterator walks the cells of one segment in address order.
type CellIterator struct {
	seg   *storage.AlignedStorage
	off   uintptr
	limit uintptr
	done  bool
}

// Cells returns an iterator over the cells of s, which must be owned by ba.
func (ba *BumpAllocator) Cells(s *storage.AlignedStorage) *CellIterator {
	return &CellIterator{
		seg:   s,
		off:   s.LowLim(),
		limit: ba.limitOf(s),
	}
}

// Next returns the next cell, or io.EOF once the segment is exhausted.
func (it *CellIterator) Next() (*cell.Cell, error) {
	if it.done || it.off >= it.limit {
		it.done = true
		return nil, io.EOF
	}

	c := cellAt(it.seg, it.off)
	vt := c.VTable()
	if vt == nil || !vt.Kind.Valid() {
		it.done = true
		return nil, fmt.Errorf("%w: no type at %#x", ErrCorrupt, it.off)
	}

	size := uintptr(c.AllocatedSize())
	if size == 0 || it.off+size > it.limit {
		it.done = true
		return nil, fmt.Errorf("%w: %s at %#x has size %d, limit %#x", ErrCorrupt, vt.Kind, it.off, size, it.limit)
	}

	it.off += size
	return c, nil
}

// Walk calls fn for every non-filler cell in every segment, oldest first,
// until fn returns false.
func (ba *BumpAllocator) Walk(fn func(c *cell.Cell) bool) error {
	for _, s := range ba.segs {
		it := ba.Cells(s)
		for {
			c, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if c.IsFiller() {
				continue
			}
			if !fn(c) {
				return nil
			}
		}
	}
	return nil
}

// Stats summarises the cells owned by the allocator.
type Stats struct {
	Segments    int
	Cells       int
	FillerBytes uintptr
	ByKind      map[cell.Kind]int
}

// Stats walks every segment and counts cells by kind.
func (ba *BumpAllocator) Stats() (Stats, error) {
	st := Stats{Segments: len(ba.segs), ByKind: make(map[cell.Kind]int)}
	for _, s := range ba.segs {
		it := ba.Cells(s)
		for {
			c, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return st, err
			}
			if c.IsFiller() {
				st.FillerBytes += uintptr(c.AllocatedSize())
				continue
			}
			st.Cells++
			st.ByKind[c.Kind()]++
		}
	}
	return st, nil
}
