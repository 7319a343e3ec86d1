package storage

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/segheap/internal/align"
	"github.com/joshuapare/segheap/internal/oscompat"
)

// MmapProvider hands out segments backed by private anonymous mappings.
type MmapProvider struct {
	log *slog.Logger

	// outstanding counts segments allocated and not yet released.
	outstanding int
}

// NewMmapProvider creates an OS-backed provider.
func NewMmapProvider(opts ...Option) *MmapProvider {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MmapProvider{log: cfg.logger}
}

// Allocate maps a new segment.
func (mp *MmapProvider) Allocate() (unsafe.Pointer, error) {
	p, err := oscompat.VMAllocateAligned(Size, Size)
	if err != nil {
		mp.log.Debug("segment allocation failed", "size", Size, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrNoStorage, err)
	}
	mp.outstanding++
	mp.log.Debug("segment allocated", "base", fmt.Sprintf("%#x", uintptr(p)), "outstanding", mp.outstanding)
	return p, nil
}

// Release unmaps a segment.
func (mp *MmapProvider) Release(p unsafe.Pointer) error {
	if !align.IsAligned(uintptr(p), Size) {
		return fmt.Errorf("%w: %#x", ErrNotAligned, uintptr(p))
	}
	if err := oscompat.VMFree(p, Size); err != nil {
		return fmt.Errorf("storage: release %#x: %w", uintptr(p), err)
	}
	mp.outstanding--
	mp.log.Debug("segment released", "base", fmt.Sprintf("%#x", uintptr(p)), "outstanding", mp.outstanding)
	return nil
}

// Outstanding returns the number of segments allocated and not yet released.
func (mp *MmapProvider) Outstanding() int {
	return mp.outstanding
}
