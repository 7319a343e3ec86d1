package oscompat

import (
	"errors"
	"os"
	"sync"
)

var (
	// ErrUnsupported indicates the primitive is not available on this platform.
	ErrUnsupported = errors.New("oscompat: unsupported on this platform")

	// ErrInvalidRange indicates an address range with end before start.
	ErrInvalidRange = errors.New("oscompat: invalid address range")

	// ErrBadAlignment indicates an alignment that is not a power-of-two multiple
	// of the page size.
	ErrBadAlignment = errors.New("oscompat: alignment must be a power-of-two multiple of the page size")
)

var pageSize = sync.OnceValue(os.Getpagesize)

// PageSize returns the platform page size in bytes.
func PageSize() int {
	return pageSize()
}
