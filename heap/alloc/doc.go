// Package alloc places cells into segments obtained from a storage.Provider.
//
// # Overview
//
// BumpAllocator is the smallest allocation context a collector needs: it owns
// a list of segments, bump-allocates HeapAlign-aligned cells in the newest
// one, and asks its provider for another segment when the current one is
// full. It is append-only; reclaiming individual cells is the collector's
// business.
//
// # Usage Example
//
//	p := storage.NewLimited(storage.NewMmapProvider(), 64<<20)
//	ba := alloc.NewBump(p)
//	defer ba.Close()
//
//	c, err := ba.AllocCell(&cells.StringIteratorVT)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // heap cannot grow: collect, or report out of memory
//	}
//
// # Segment Lifecycle
//
//   - Grow: when a request does not fit, the tail of the current segment is
//     covered with a filler cell (Seal) and a new segment is acquired
//   - Trim: the untouched tail of the current segment is marked unused, so
//     its physical pages return to the OS while the reservation is kept
//   - Close: every cell is finalized, then every segment is released
//
// # Walking
//
// Cells are contiguous, so any segment can be walked from LowLim using only
// the headers: each cell's AllocatedSize gives the offset of the next one.
// SegmentFor maps an interior address back to its segment with
// storage.Start, which is why segments must be self-aligned.
//
// # Thread Safety
//
// BumpAllocator is not thread-safe. Callers must synchronize access
// externally.
package alloc
