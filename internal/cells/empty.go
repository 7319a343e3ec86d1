package cells

import (
	"sync"
	"unsafe"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/internal/oscompat"
)

// EmptyCell is an uninitialized fixed-size cell. Each size gets its own
// VTable, so every instance of a given size shares one descriptor.
type EmptyCell struct {
	cell.Cell
}

var emptyVTables sync.Map // uint32 -> *cell.VTable

// EmptyVTable returns the descriptor for EmptyCells of size bytes.
func EmptyVTable(size uint32) *cell.VTable {
	if vt, ok := emptyVTables.Load(size); ok {
		return vt.(*cell.VTable)
	}
	vt, _ := emptyVTables.LoadOrStore(size, &cell.VTable{
		Kind: cell.KindUninitialized,
		Size: size,
	})
	return vt.(*cell.VTable)
}

// NewEmpty constructs an EmptyCell of size bytes in mem.
func NewEmpty(mem []byte, size uint32) (*EmptyCell, error) {
	return cell.New[EmptyCell](mem, EmptyVTable(size))
}

// Touch writes one byte per page from the end of the header to the end of
// the cell and returns the number of pages touched.
func (e *EmptyCell) Touch() int {
	ps := uintptr(oscompat.PageSize())
	base := unsafe.Pointer(e)
	n := 0
	for off := unsafe.Sizeof(*e); off < uintptr(e.Size()); off += ps {
		*(*byte)(unsafe.Add(base, off)) = 1
		n++
	}
	return n
}
