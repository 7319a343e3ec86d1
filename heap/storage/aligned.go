package storage

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/segheap/internal/oscompat"
)

// AlignedStorage owns one segment obtained from a Provider.
//
// The zero value, and a nil *AlignedStorage, are empty: Valid reports false
// and every accessor panics. A storage must not be copied; hand it to a new
// owner with Take.
type AlignedStorage struct {
	// provider is not owned; it must outlive every storage it created.
	provider Provider
	lowLim   unsafe.Pointer
}

// New allocates a segment from p. On failure it returns nil and an error
// wrapping ErrNoStorage.
func New(p Provider) (*AlignedStorage, error) {
	base, err := p.Allocate()
	if err != nil {
		return nil, err
	}
	return &AlignedStorage{provider: p, lowLim: base}, nil
}

// Valid reports whether s currently owns a segment.
func (s *AlignedStorage) Valid() bool {
	return s != nil && s.lowLim != nil
}

func (s *AlignedStorage) mustValid() {
	if !s.Valid() {
		panic("storage: use of empty AlignedStorage")
	}
}

// Base returns a pointer to the first byte of the segment.
func (s *AlignedStorage) Base() unsafe.Pointer {
	s.mustValid()
	return s.lowLim
}

// LowLim returns the inclusive start address of the segment.
func (s *AlignedStorage) LowLim() uintptr {
	s.mustValid()
	return uintptr(s.lowLim)
}

// HiLim returns the exclusive end address of the segment.
func (s *AlignedStorage) HiLim() uintptr {
	return s.LowLim() + Size
}

// Size returns the segment size. It is the same for every storage.
func (s *AlignedStorage) Size() uintptr {
	return Size
}

// Bytes returns the whole segment as a byte slice. The slice aliases memory
// that is unmapped by Release.
func (s *AlignedStorage) Bytes() []byte {
	return unsafe.Slice((*byte)(s.Base()), Size)
}

// Contains reports whether addr lies in [LowLim, HiLim).
func (s *AlignedStorage) Contains(addr uintptr) bool {
	lo := s.LowLim()
	return lo <= addr && addr < lo+Size
}

// Provider returns the provider the segment came from.
func (s *AlignedStorage) Provider() Provider {
	s.mustValid()
	return s.provider
}

// MarkUnused tells the OS that [from, to) no longer holds useful data. The
// range must lie inside the segment. Physical pages fully inside the range
// are released; the addresses stay mapped and a later write re-commits them.
//
// Callers should pass page-aligned bounds. Unaligned bounds are narrowed to
// the whole pages they contain, so adjacent live bytes are never discarded.
func (s *AlignedStorage) MarkUnused(from, to uintptr) error {
	lo := s.LowLim()
	if from > to || from < lo || to > lo+Size {
		panic(fmt.Sprintf("storage: MarkUnused [%#x, %#x) outside segment [%#x, %#x)", from, to, lo, lo+Size))
	}
	if from == to {
		return nil
	}
	return oscompat.VMUnused(unsafe.Add(s.lowLim, from-lo), to-from)
}

// Take moves the segment out of s into a new storage and leaves s empty.
func (s *AlignedStorage) Take() *AlignedStorage {
	s.mustValid()
	moved := &AlignedStorage{provider: s.provider, lowLim: s.lowLim}
	s.provider, s.lowLim = nil, nil
	return moved
}

// Release hands the segment back to its provider and leaves s empty.
// Releasing an empty storage is a no-op.
func (s *AlignedStorage) Release() error {
	if !s.Valid() {
		return nil
	}
	p, base := s.provider, s.lowLim
	s.provider, s.lowLim = nil, nil
	return p.Release(base)
}
