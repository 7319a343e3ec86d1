package storage

import "github.com/joshuapare/segheap/internal/align"

const (
	// LogSize is log2 of the segment size.
	LogSize = 22

	// Size is the size, and alignment, of every segment in bytes (4 MiB).
	Size = 1 << LogSize
)

// Start returns the low limit of the Size-aligned segment containing addr.
func Start(addr uintptr) uintptr {
	return align.Down(addr, Size)
}

// End returns the high limit of the Size-aligned segment containing addr.
func End(addr uintptr) uintptr {
	return Start(addr) + Size
}

// Offset returns the offset of addr from the start of its segment.
// The result is always in [0, Size).
func Offset(addr uintptr) uintptr {
	return addr & (Size - 1)
}
