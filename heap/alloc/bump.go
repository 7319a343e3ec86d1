package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/align"
	"github.com/joshuapare/segheap/internal/oscompat"
)

// MinAllocSize is the smallest cell the allocator hands out. Every gap it
// leaves is a multiple of HeapAlign, so a filler always fits.
const MinAllocSize = cell.HeapAlign

// BumpAllocator is an append-only allocator over a growing list of segments.
type BumpAllocator struct {
	provider storage.Provider
	log      *slog.Logger
	maxSegs  int

	// segs are owned; the last one is current. Earlier ones are sealed and
	// walkable up to HiLim.
	segs []*storage.AlignedStorage

	// byStart indexes segs by LowLim.
	byStart map[uintptr]*storage.AlignedStorage

	// level is the address of the next allocation in the current segment.
	// Remains 0 until the first allocation.
	level uintptr

	allocated uintptr
	closed    bool
}

// NewBump creates an allocator that draws segments from p. No segment is
// acquired until the first allocation.
func NewBump(p storage.Provider, opts ...Option) *BumpAllocator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BumpAllocator{
		provider: p,
		log:      cfg.logger,
		maxSegs:  cfg.maxSegs,
		byStart:  make(map[uintptr]*storage.AlignedStorage),
	}
}

func (ba *BumpAllocator) current() *storage.AlignedStorage {
	if len(ba.segs) == 0 {
		return nil
	}
	return ba.segs[len(ba.segs)-1]
}

// Alloc returns size bytes, rounded up to HeapAlign, for a new cell. Callers
// construct the cell with cell.Place or cell.New before the next Alloc so
// the region stays walkable, or hand the bytes to Abandon if construction
// fails.
func (ba *BumpAllocator) Alloc(size uint32) ([]byte, error) {
	if ba.closed {
		return nil, ErrClosed
	}
	// Compare before rounding; Size is a multiple of HeapAlign, so need
	// cannot exceed it afterwards.
	if uintptr(size) > storage.Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	need := align.Up(uintptr(max(size, MinAllocSize)), cell.HeapAlign)

	cur := ba.current()
	if cur == nil || ba.level+need > cur.HiLim() {
		if err := ba.grow(); err != nil {
			return nil, err
		}
		cur = ba.current()
	}

	off := ba.level - cur.LowLim()
	ba.level += need
	ba.allocated += need
	return cur.Bytes()[off : off+need : off+need], nil
}

// AllocCell allocates and constructs a fixed-size cell of type vt. A
// descriptor Place would reject fails before any space is taken.
func (ba *BumpAllocator) AllocCell(vt *cell.VTable) (*cell.Cell, error) {
	if err := cell.CheckFixed(vt); err != nil {
		return nil, err
	}
	mem, err := ba.Alloc(vt.Size)
	if err != nil {
		return nil, err
	}
	c, err := cell.Place(mem, vt)
	if err != nil {
		ba.Abandon(mem)
		return nil, err
	}
	return c, nil
}

// AllocVariable allocates and constructs a variable-size cell of type vt.
func (ba *BumpAllocator) AllocVariable(vt *cell.VTable, size uint32) (*cell.VariableSizeCell, error) {
	if err := cell.CheckVariable(vt, size); err != nil {
		return nil, err
	}
	mem, err := ba.Alloc(size)
	if err != nil {
		return nil, err
	}
	v, err := cell.PlaceVariable(mem, vt, size)
	if err != nil {
		ba.Abandon(mem)
		return nil, err
	}
	return v, nil
}

// Abandon covers mem, as returned by Alloc, with a filler cell after a
// failed construction, so the segment stays walkable. The bytes are no
// longer counted as allocated.
func (ba *BumpAllocator) Abandon(mem []byte) {
	if len(mem) == 0 {
		return
	}
	if _, err := cell.PlaceFiller(mem); err != nil {
		// Alloc only returns aligned slices of at least MinAllocSize bytes.
		panic(fmt.Sprintf("alloc: abandon %d bytes: %v", len(mem), err))
	}
	ba.allocated -= uintptr(len(mem))
}

// grow seals the current segment and acquires a new one.
func (ba *BumpAllocator) grow() error {
	if ba.maxSegs > 0 && len(ba.segs) >= ba.maxSegs {
		ba.log.Debug("segment cap reached", "segments", len(ba.segs))
		return fmt.Errorf("%w: segment cap %d reached", ErrNoSpace, ba.maxSegs)
	}

	s, err := storage.New(ba.provider)
	if err != nil {
		ba.log.Debug("segment growth refused", "segments", len(ba.segs), "err", err)
		return fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	if err := ba.Seal(); err != nil {
		_ = s.Release()
		return err
	}

	ba.segs = append(ba.segs, s)
	ba.byStart[s.LowLim()] = s
	ba.level = s.LowLim()
	ba.log.Debug("segment acquired", "segments", len(ba.segs), "low", fmt.Sprintf("%#x", s.LowLim()))
	return nil
}

// Seal covers the unused tail of the current segment with a filler cell, so
// a walk of the segment reaches HiLim. Further allocations go to a new
// segment.
func (ba *BumpAllocator) Seal() error {
	cur := ba.current()
	if cur == nil || ba.level == cur.HiLim() {
		return nil
	}
	off := ba.level - cur.LowLim()
	if _, err := cell.PlaceFiller(cur.Bytes()[off:]); err != nil {
		return fmt.Errorf("alloc: seal segment %#x: %w", cur.LowLim(), err)
	}
	ba.level = cur.HiLim()
	return nil
}

// Trim marks the untouched, page-aligned tail of the current segment unused
// and returns the number of bytes advised.
func (ba *BumpAllocator) Trim() (uintptr, error) {
	cur := ba.current()
	if cur == nil {
		return 0, nil
	}
	from := align.Up(ba.level, uintptr(oscompat.PageSize()))
	if from >= cur.HiLim() {
		return 0, nil
	}
	if err := cur.MarkUnused(from, cur.HiLim()); err != nil {
		return 0, fmt.Errorf("alloc: trim segment %#x: %w", cur.LowLim(), err)
	}
	n := cur.HiLim() - from
	ba.log.Debug("segment trimmed", "low", fmt.Sprintf("%#x", cur.LowLim()), "bytes", n)
	return n, nil
}

// SegmentFor returns the owned segment containing addr, or nil.
func (ba *BumpAllocator) SegmentFor(addr uintptr) *storage.AlignedStorage {
	return ba.byStart[storage.Start(addr)]
}

// Contains reports whether addr lies inside allocated cells.
func (ba *BumpAllocator) Contains(addr uintptr) bool {
	s := ba.SegmentFor(addr)
	if s == nil {
		return false
	}
	return addr < ba.limitOf(s)
}

// limitOf returns the end of the cells in s.
func (ba *BumpAllocator) limitOf(s *storage.AlignedStorage) uintptr {
	if s == ba.current() {
		return ba.level
	}
	return s.HiLim()
}

// Segments returns the owned segments, oldest first.
func (ba *BumpAllocator) Segments() []*storage.AlignedStorage {
	return ba.segs
}

// Allocated returns the bytes handed out by Alloc, excluding fillers.
func (ba *BumpAllocator) Allocated() uintptr {
	return ba.allocated
}

// Close finalizes every cell, then releases every segment back to the
// provider. The allocator cannot be used afterwards.
func (ba *BumpAllocator) Close() error {
	if ba.closed {
		return nil
	}
	walkErr := ba.Walk(func(c *cell.Cell) bool {
		cell.Finalize(c)
		return true
	})

	var errs []error
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	for _, s := range ba.segs {
		if err := s.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	ba.segs = nil
	clear(ba.byStart)
	ba.level = 0
	ba.closed = true
	return errors.Join(errs...)
}

// cellAt views addr as a cell header.
func cellAt(s *storage.AlignedStorage, addr uintptr) *cell.Cell {
	return (*cell.Cell)(unsafe.Add(s.Base(), addr-s.LowLim()))
}
