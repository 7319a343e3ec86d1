package cells

import (
	"fmt"
	"unsafe"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/internal/align"
	"github.com/joshuapare/segheap/internal/oscompat"
)

// ExtString is a variable-size string cell whose characters live in an
// out-of-line buffer mapped outside the heap. Length sits at the same offset
// as in the runtime's external ASCII string, since the collector reads it
// directly once a cell passes the type check.
//
// buf never points into the Go heap, so it may live in cell memory the Go
// collector does not scan.
type ExtString struct {
	cell.VariableSizeCell
	Length uint32
	_      uint32
	buf    unsafe.Pointer
	bufCap uintptr
}

// ExtStringVT is the descriptor for ExtString.
var ExtStringVT = cell.VTable{
	Kind:     cell.KindExternalASCIIString,
	Size:     uint32(unsafe.Sizeof(ExtString{})),
	Variable: true,
	Finalize: extStringFinalize,
}

// externalBytes tracks bytes held in out-of-line buffers.
var externalBytes uintptr

// ExternalBytes returns the bytes currently held by ExtString buffers.
func ExternalBytes() uintptr { return externalBytes }

// NewExtString constructs an ExtString holding s in mem. s is stored as
// single-byte Latin-1; characters outside that range are an error.
func NewExtString(mem []byte, s string) (*ExtString, error) {
	enc, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("cells: encode %q: %w", s, err)
	}

	es, err := cell.NewVariable[ExtString](mem, &ExtStringVT, ExtStringVT.Size)
	if err != nil {
		return nil, err
	}
	es.Length = uint32(len(enc))
	if len(enc) == 0 {
		return es, nil
	}

	capacity := align.Up(uintptr(len(enc)), uintptr(oscompat.PageSize()))
	p, err := oscompat.VMAllocate(capacity)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(p), capacity), enc)
	es.buf, es.bufCap = p, capacity
	externalBytes += capacity
	return es, nil
}

// String decodes the characters, or returns "" once the memory is released.
func (es *ExtString) String() string {
	if es.buf == nil {
		return ""
	}
	raw := unsafe.Slice((*byte)(es.buf), es.Length)
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(s)
}

// Released reports whether ReleaseMem has run.
func (es *ExtString) Released() bool {
	return es.buf == nil
}

// ReleaseMem gives the out-of-line buffer back before finalization. The
// header, including the stored size, stays valid.
func (es *ExtString) ReleaseMem() error {
	if es.buf == nil {
		return nil
	}
	p, n := es.buf, es.bufCap
	es.buf, es.bufCap = nil, 0
	externalBytes -= n
	return oscompat.VMFree(p, n)
}

func extStringFinalize(c *cell.Cell) {
	_ = cell.View[ExtString](c).ReleaseMem()
}
