package cells

import (
	"unsafe"

	"github.com/joshuapare/segheap/heap/cell"
)

// StringIterator holds one reference to the string it walks.
type StringIterator struct {
	cell.Cell
	IteratedString cell.Ptr
	NextIndex      uint32
	_              uint32
}

func stringIteratorBuildMeta(c *cell.Cell, mb *cell.Builder) {
	self := cell.View[StringIterator](c)
	mb.AddField("@iteratedString", &self.IteratedString)
}

// StringIteratorVT is the descriptor for StringIterator.
var StringIteratorVT = cell.VTable{
	Kind:      cell.KindStringIterator,
	Size:      uint32(unsafe.Sizeof(StringIterator{})),
	BuildMeta: stringIteratorBuildMeta,
}

// NewStringIterator constructs an iterator over str in mem.
func NewStringIterator(mem []byte, str *cell.Cell) (*StringIterator, error) {
	it, err := cell.New[StringIterator](mem, &StringIteratorVT)
	if err != nil {
		return nil, err
	}
	it.IteratedString = cell.PtrTo(str)
	return it, nil
}
