//go:build linux || darwin

package oscompat

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/segheap/internal/align"
)

// VMAllocate reserves and commits size bytes of private anonymous read/write
// memory. The base is page aligned but carries no stronger guarantee.
func VMAllocate(size uintptr) (unsafe.Pointer, error) {
	p, err := unix.MmapPtr(
		-1,
		0,
		nil,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("oscompat: mmap %d bytes: %w", size, err)
	}
	return p, nil
}

// VMAllocateAligned returns size bytes whose base is a multiple of alignment.
//
// mmap gives no alignment beyond the page, so we ask for size+alignment bytes
// (which must contain an aligned sub-region wherever the kernel placed the
// base) and unmap the leading and trailing slivers. Only the aligned size
// bytes remain mapped when this returns.
func VMAllocateAligned(size, alignment uintptr) (unsafe.Pointer, error) {
	ps := uintptr(PageSize())
	if !align.IsPow2(alignment) || !align.IsAligned(alignment, ps) {
		return nil, ErrBadAlignment
	}
	size = align.Up(size, ps)

	raw, err := VMAllocate(size + alignment)
	if err != nil {
		return nil, err
	}

	base := uintptr(raw)
	lead := align.Up(base, alignment) - base
	trail := alignment - lead

	if lead > 0 {
		if err := VMFree(raw, lead); err != nil {
			_ = VMFree(raw, size+alignment)
			return nil, fmt.Errorf("oscompat: trim leading %d bytes: %w", lead, err)
		}
	}
	p := unsafe.Add(raw, lead)
	if trail > 0 {
		if err := VMFree(unsafe.Add(p, size), trail); err != nil {
			_ = VMFree(p, size)
			return nil, fmt.Errorf("oscompat: trim trailing %d bytes: %w", trail, err)
		}
	}
	return p, nil
}

// VMFree unmaps [p, p+size). Any page-aligned sub-range of a mapping may be
// freed.
func VMFree(p unsafe.Pointer, size uintptr) error {
	if size == 0 {
		return nil
	}
	if err := unix.MunmapPtr(p, size); err != nil {
		return fmt.Errorf("oscompat: munmap %d bytes: %w", size, err)
	}
	return nil
}

// VMUnused advises the kernel that the whole pages inside [p, p+size) hold no
// useful data. The mapping stays valid; a later write faults in fresh zeroed
// memory. Partial pages at either end are left alone so neighbouring live
// data is never discarded.
func VMUnused(p unsafe.Pointer, size uintptr) error {
	ps := uintptr(PageSize())
	start := uintptr(p)
	lo := align.Up(start, ps)
	hi := align.Down(start+size, ps)
	if hi <= lo {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Add(p, lo-start)), hi-lo)
	if err := unix.Madvise(b, unusedAdvice); err != nil {
		return fmt.Errorf("oscompat: madvise %d bytes: %w", hi-lo, err)
	}
	return nil
}
