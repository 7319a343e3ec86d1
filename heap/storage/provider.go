package storage

import "unsafe"

// Provider allocates and frees Size-byte, Size-aligned regions of read/write
// memory.
//
// Implementations:
//   - MmapProvider: backed by anonymous mmap
//   - LimitedProvider: byte budget in front of another provider
type Provider interface {
	// Allocate returns the base of a fresh segment. A failure wraps
	// ErrNoStorage and is a normal outcome, not a fault.
	Allocate() (unsafe.Pointer, error)

	// Release returns a segment obtained from Allocate. Each segment must be
	// released exactly once.
	Release(p unsafe.Pointer) error
}
