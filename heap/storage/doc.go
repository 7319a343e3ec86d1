// Package storage provides fixed-size, self-aligned virtual memory segments for
// the garbage-collected heap.
//
// # Overview
//
// Every segment is exactly Size bytes and starts on a Size boundary. That lets
// the collector map any interior address back to its segment with a single
// mask (Start), which is the property the rest of the heap is built on.
//
// Segments come from a Provider:
//
//   - MmapProvider: OS-backed; over-reserves and trims to get alignment
//   - LimitedProvider: wraps another provider with a byte budget, so callers
//     can deterministically exercise "the heap cannot grow" paths
//
// An AlignedStorage owns one segment and hands it back to its provider on
// Release.
//
// # Usage Example
//
//	p := storage.NewMmapProvider()
//	s, err := storage.New(p)
//	if err != nil {
//	    // errors.Is(err, storage.ErrNoStorage): treat as out of memory
//	    return err
//	}
//	defer s.Release()
//
//	addr := s.LowLim() + 128
//	storage.Start(addr) == s.LowLim() // true
//
//	// After a collection, give the physical pages of the top half back.
//	_ = s.MarkUnused(s.LowLim()+storage.Size/2, s.HiLim())
//
// # Address Arithmetic
//
// Start, End and Offset are pure functions over any address. Segments are
// half-open: HiLim belongs to the next segment, so Start(s.HiLim()) ==
// s.HiLim() and Offset(s.HiLim()) == 0.
//
// # Failure
//
// Running out of address space or budget is an expected outcome, reported as
// an error wrapping ErrNoStorage. Misuse (touching an empty storage, marking
// a range outside the segment) panics.
//
// # Thread Safety
//
// Nothing here locks. Providers and storages are meant to be driven by a
// single collector thread or under the collector's own lock; in particular
// LimitedProvider's running total is a plain field.
package storage
