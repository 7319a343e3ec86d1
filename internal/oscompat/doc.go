// Package oscompat wraps the operating system's virtual memory primitives.
//
// # Overview
//
// The heap layers above never call the kernel directly. Everything they need
// from the OS is funnelled through this package:
//
//   - PageSize(): the platform page size
//   - VMAllocate(size): reserve and commit anonymous read/write memory
//   - VMAllocateAligned(size, alignment): the same, with the base aligned
//   - VMFree(p, size): unmap a region (or part of one)
//   - VMUnused(p, size): advise that pages may be reclaimed without unmapping
//   - VMFootprint(start, end): count resident pages in a range
//
// # Platform Support
//
// Linux and Darwin use golang.org/x/sys/unix (mmap, munmap, madvise). The
// resident page query uses mincore(2) and is only available on Linux; other
// platforms report ErrUnsupported for every primitive.
//
// # Thread Safety
//
// All functions are safe for concurrent use; they hold no state beyond the
// cached page size.
package oscompat
