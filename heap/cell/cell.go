package cell

import (
	"unsafe"

	"github.com/joshuapare/segheap/internal/align"
)

// HeapAlign is the alignment of every cell, and the granularity of cell sizes.
const HeapAlign = 16

// Cell is the header at the start of every heap object. Concrete types embed
// it (or VariableSizeCell) as their first field.
type Cell struct {
	vt *VTable
}

// VariableSizeCell is the header of cells whose size is chosen per instance.
type VariableSizeCell struct {
	Cell
	size uint32
	_    uint32
}

// HeaderSize is the size of Cell.
const HeaderSize = uint32(unsafe.Sizeof(Cell{}))

// VariableHeaderSize is the size of VariableSizeCell.
const VariableHeaderSize = uint32(unsafe.Sizeof(VariableSizeCell{}))

// At views the memory at addr as a cell. addr must be the start of a live cell.
func At(addr uintptr) *Cell {
	return (*Cell)(unsafe.Pointer(addr))
}

// Addr returns the address of the cell.
func (c *Cell) Addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// VTable returns the type descriptor.
func (c *Cell) VTable() *VTable {
	return c.vt
}

// Kind returns the kind tag of the cell's type.
func (c *Cell) Kind() Kind {
	return c.vt.Kind
}

// Is reports whether c was constructed with vt.
func (c *Cell) Is(vt *VTable) bool {
	return c.vt == vt
}

// Size returns the size of the cell in bytes: the declared size for
// fixed-size types, the stored size for variable-size ones.
func (c *Cell) Size() uint32 {
	if c.vt.Variable {
		return (*VariableSizeCell)(unsafe.Pointer(c)).size
	}
	return c.vt.Size
}

// AllocatedSize returns Size rounded up to HeapAlign; it is the distance to
// the next cell in a contiguously allocated region.
func (c *Cell) AllocatedSize() uint32 {
	return align.Up32(c.Size(), HeapAlign)
}

// Size returns the size stored at construction.
func (v *VariableSizeCell) Size() uint32 {
	return v.size
}

// As returns c as a *T if it was constructed with vt.
func As[T any](c *Cell, vt *VTable) (*T, bool) {
	if c == nil || c.vt != vt {
		return nil, false
	}
	return (*T)(unsafe.Pointer(c)), true
}

// Cast returns c as a *T and panics if c was not constructed with vt.
func Cast[T any](c *Cell, vt *VTable) *T {
	t, ok := As[T](c, vt)
	if !ok {
		panic("cell: cast of " + c.describe() + " to " + vt.Kind.String())
	}
	return t
}

// Finalize runs the type's finalizer, if any.
func Finalize(c *Cell) {
	if f := c.vt.Finalize; f != nil {
		f(c)
	}
}

func (c *Cell) describe() string {
	if c == nil {
		return "nil cell"
	}
	if c.vt == nil {
		return "untyped cell"
	}
	return c.vt.Kind.String()
}

// View returns c as a *T without checking its type. It is meant for
// BuildMeta and Finalize functions, which are only ever called with cells of
// their own type.
func View[T any](c *Cell) *T {
	return (*T)(unsafe.Pointer(c))
}
