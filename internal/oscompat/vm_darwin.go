//go:build darwin

package oscompat

import "golang.org/x/sys/unix"

// Darwin ignores MADV_DONTNEED for anonymous memory; MADV_FREE lets the
// kernel reclaim the pages under pressure.
const unusedAdvice = unix.MADV_FREE

// VMFootprint is not implemented on Darwin.
func VMFootprint(start, end uintptr) (int, error) {
	if end < start {
		return 0, ErrInvalidRange
	}
	return 0, ErrUnsupported
}
