package cell

import (
	"testing"
	"unsafe"

	"github.com/joshuapare/segheap/internal/align"
)

// heapMem returns n bytes of HeapAlign-aligned memory.
func heapMem(t testing.TB, n int) []byte {
	t.Helper()
	raw := make([]byte, n+HeapAlign)
	base := uintptr(unsafe.Pointer(&raw[0]))
	off := align.Up(base, HeapAlign) - base
	return raw[off : off+uintptr(n)]
}

// pair is a fixed-size cell with two pointer fields.
type pair struct {
	Cell
	Left  Ptr
	Right Ptr
	Tag   uint32
}

func pairBuildMeta(c *Cell, mb *Builder) {
	p := View[pair](c)
	mb.AddField("left", &p.Left)
	mb.AddField("right", &p.Right)
}

var pairVT = VTable{
	Kind:      KindStringIterator,
	Size:      uint32(unsafe.Sizeof(pair{})),
	BuildMeta: pairBuildMeta,
}

// otherVT has the same kind and size as pairVT but is a distinct type.
var otherVT = VTable{
	Kind: KindStringIterator,
	Size: uint32(unsafe.Sizeof(pair{})),
}

// vector is a variable-size cell with a trailing pointer array.
type vector struct {
	VariableSizeCell
	Len uint32
	_   uint32
}

func vectorElems(v *vector) *Ptr {
	return (*Ptr)(unsafe.Add(unsafe.Pointer(v), unsafe.Sizeof(*v)))
}

func vectorBuildMeta(c *Cell, mb *Builder) {
	v := View[vector](c)
	mb.AddArray("elems", vectorElems(v), &v.Len)
}

var finalized []uintptr

func vectorFinalize(c *Cell) {
	finalized = append(finalized, c.Addr())
}

var vectorVT = VTable{
	Kind:      KindArrayStorage,
	Size:      uint32(unsafe.Sizeof(vector{})),
	Variable:  true,
	BuildMeta: vectorBuildMeta,
	Finalize:  vectorFinalize,
}

func newVector(t testing.TB, capacity uint32) *vector {
	t.Helper()
	size := uint32(unsafe.Sizeof(vector{})) + capacity*uint32(ptrSize)
	v, err := NewVariable[vector](heapMem(t, int(size)), &vectorVT, size)
	if err != nil {
		t.Fatalf("NewVariable: %v", err)
	}
	v.Len = capacity
	return v
}

func (v *vector) at(i uintptr) *Ptr {
	return (*Ptr)(unsafe.Add(unsafe.Pointer(vectorElems(v)), i*ptrSize))
}
