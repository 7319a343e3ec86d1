//go:build linux

package oscompat

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/segheap/internal/align"
)

// MADV_DONTNEED drops the pages immediately, so the footprint shrinks as soon
// as VMUnused returns.
const unusedAdvice = unix.MADV_DONTNEED

// VMFootprint returns the number of resident pages overlapping [start, end).
// Only pages inside the queried range are counted, even when the range is a
// slice of a larger mapping.
func VMFootprint(start, end uintptr) (int, error) {
	if end < start {
		return 0, ErrInvalidRange
	}
	ps := uintptr(PageSize())
	lo := align.Down(start, ps)
	hi := align.Up(end, ps)
	if hi == lo {
		return 0, nil
	}

	// x/sys has no mincore wrapper, so issue the syscall directly. The range
	// is passed as integers; it may point at memory Go does not own.
	vec := make([]byte, (hi-lo)/ps)
	_, _, errno := unix.Syscall(
		unix.SYS_MINCORE,
		lo,
		hi-lo,
		uintptr(unsafe.Pointer(&vec[0])),
	)
	if errno != 0 {
		return 0, fmt.Errorf("oscompat: mincore [%#x, %#x): %w", lo, hi, errno)
	}

	n := 0
	for _, v := range vec {
		n += int(v & 1)
	}
	return n, nil
}
