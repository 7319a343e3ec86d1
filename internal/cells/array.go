package cells

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/segheap/heap/cell"
)

// ArrayStorage is a variable-size cell holding Len references followed by
// spare capacity.
type ArrayStorage struct {
	cell.VariableSizeCell
	Len uint32
	_   uint32
}

const ptrSize = uint32(unsafe.Sizeof(cell.Ptr(0)))

func arrayStorageBuildMeta(c *cell.Cell, mb *cell.Builder) {
	self := cell.View[ArrayStorage](c)
	mb.AddArray("storage", self.data(), &self.Len)
}

// ArrayStorageVT is the descriptor for ArrayStorage.
var ArrayStorageVT = cell.VTable{
	Kind:      cell.KindArrayStorage,
	Size:      uint32(unsafe.Sizeof(ArrayStorage{})),
	Variable:  true,
	BuildMeta: arrayStorageBuildMeta,
}

// ArrayStorageSize returns the cell size needed for capacity elements.
func ArrayStorageSize(capacity uint32) uint32 {
	return ArrayStorageVT.Size + capacity*ptrSize
}

// NewArrayStorage constructs an empty array with room for capacity elements.
func NewArrayStorage(mem []byte, capacity uint32) (*ArrayStorage, error) {
	return cell.NewVariable[ArrayStorage](mem, &ArrayStorageVT, ArrayStorageSize(capacity))
}

func (a *ArrayStorage) data() *cell.Ptr {
	return (*cell.Ptr)(unsafe.Add(unsafe.Pointer(a), unsafe.Sizeof(*a)))
}

// Capacity returns the number of elements the cell can hold.
func (a *ArrayStorage) Capacity() uint32 {
	return (a.Size() - ArrayStorageVT.Size) / ptrSize
}

// At returns the i-th element.
func (a *ArrayStorage) At(i uint32) cell.Ptr {
	if i >= a.Len {
		panic(fmt.Sprintf("cells: index %d out of range [0, %d)", i, a.Len))
	}
	return *a.slot(i)
}

// Push appends p and reports whether there was room.
func (a *ArrayStorage) Push(p cell.Ptr) bool {
	if a.Len == a.Capacity() {
		return false
	}
	*a.slot(a.Len) = p
	a.Len++
	return true
}

func (a *ArrayStorage) slot(i uint32) *cell.Ptr {
	return (*cell.Ptr)(unsafe.Add(unsafe.Pointer(a.data()), uintptr(i)*uintptr(ptrSize)))
}
