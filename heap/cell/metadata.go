package cell

import (
	"fmt"
	"sync"
	"unsafe"
)

// Ptr is a reference from one cell to another. The zero Ptr is null.
type Ptr uintptr

// PtrTo returns a reference to c.
func PtrTo(c *Cell) Ptr {
	if c == nil {
		return 0
	}
	return Ptr(c.Addr())
}

// Cell returns the referenced cell, or nil.
func (p Ptr) Cell() *Cell {
	if p == 0 {
		return nil
	}
	return At(uintptr(p))
}

// IsNull reports whether p refers to nothing.
func (p Ptr) IsNull() bool { return p == 0 }

const ptrSize = unsafe.Sizeof(Ptr(0))

// Field is a single pointer slot at a fixed offset from the cell start.
type Field struct {
	Name   string
	Offset uintptr
}

// Array is a run of pointer slots whose element count is stored in a uint32
// at LengthOffset.
type Array struct {
	Name         string
	Offset       uintptr
	LengthOffset uintptr
}

// Metadata describes where the pointers of a type live. It depends only on
// the type's layout, so one Metadata serves every instance.
type Metadata struct {
	Kind   Kind
	Fields []Field
	Arrays []Array
}

// Builder collects field locations reported by a BuildMetaFunc. Offsets are
// computed relative to the cell being described.
type Builder struct {
	base uintptr
	end  uintptr
	md   Metadata
}

func newBuilder(c *Cell) *Builder {
	return &Builder{
		base: c.Addr(),
		end:  c.Addr() + uintptr(c.Size()),
		md:   Metadata{Kind: c.Kind()},
	}
}

func (b *Builder) offsetOf(name string, p unsafe.Pointer, width uintptr) uintptr {
	addr := uintptr(p)
	if addr < b.base || addr+width > b.end {
		panic(fmt.Sprintf("cell: field %q at %#x outside cell [%#x, %#x)", name, addr, b.base, b.end))
	}
	return addr - b.base
}

// AddField records the pointer slot at slot.
func (b *Builder) AddField(name string, slot *Ptr) {
	b.md.Fields = append(b.md.Fields, Field{
		Name:   name,
		Offset: b.offsetOf(name, unsafe.Pointer(slot), ptrSize),
	})
}

// AddArray records a pointer array starting at start whose length is stored
// in *length. The array may trail the Go struct; it must lie inside the cell.
func (b *Builder) AddArray(name string, start *Ptr, length *uint32) {
	b.md.Arrays = append(b.md.Arrays, Array{
		Name:         name,
		Offset:       b.offsetOf(name, unsafe.Pointer(start), 0),
		LengthOffset: b.offsetOf(name+".length", unsafe.Pointer(length), unsafe.Sizeof(*length)),
	})
}

// Build returns the collected metadata.
func (b *Builder) Build() Metadata {
	return b.md
}

// BuildMetadata runs the type's BuildMeta against c.
func BuildMetadata(c *Cell) Metadata {
	mb := newBuilder(c)
	if f := c.vt.BuildMeta; f != nil {
		f(c, mb)
	}
	return mb.Build()
}

var metadataCache sync.Map // *VTable -> *Metadata

// MetadataOf returns the metadata for c's type, building it from c the first
// time the type is seen.
func MetadataOf(c *Cell) *Metadata {
	if md, ok := metadataCache.Load(c.vt); ok {
		return md.(*Metadata)
	}
	md := BuildMetadata(c)
	actual, _ := metadataCache.LoadOrStore(c.vt, &md)
	return actual.(*Metadata)
}

// VisitPointers calls fn for every pointer slot in c, including null ones.
// fn may overwrite the slot, which is how a moving collector would update
// references.
func VisitPointers(c *Cell, fn func(name string, slot *Ptr)) {
	md := MetadataOf(c)
	base := unsafe.Pointer(c)
	for _, f := range md.Fields {
		fn(f.Name, (*Ptr)(unsafe.Add(base, f.Offset)))
	}
	for _, a := range md.Arrays {
		n := *(*uint32)(unsafe.Add(base, a.LengthOffset))
		for i := range uintptr(n) {
			fn(a.Name, (*Ptr)(unsafe.Add(base, a.Offset+i*ptrSize)))
		}
	}
}

// Pointers returns the non-null references held by c.
func Pointers(c *Cell) []Ptr {
	var out []Ptr
	VisitPointers(c, func(_ string, slot *Ptr) {
		if !slot.IsNull() {
			out = append(out, *slot)
		}
	})
	return out
}
