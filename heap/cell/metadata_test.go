package cell

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetadata_Fields(t *testing.T) {
	p, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)

	md := BuildMetadata(&p.Cell)
	assert.Equal(t, KindStringIterator, md.Kind)
	require.Len(t, md.Fields, 2)
	assert.Equal(t, Field{Name: "left", Offset: unsafe.Offsetof(p.Left)}, md.Fields[0])
	assert.Equal(t, Field{Name: "right", Offset: unsafe.Offsetof(p.Right)}, md.Fields[1])
	assert.Empty(t, md.Arrays)
}

func TestBuildMetadata_NoBuildMeta(t *testing.T) {
	c, err := Place(heapMem(t, int(otherVT.Size)), &otherVT)
	require.NoError(t, err)
	md := BuildMetadata(c)
	assert.Empty(t, md.Fields)
	assert.Empty(t, md.Arrays)
	assert.Empty(t, Pointers(c))
}

func TestMetadataOf_SharedAcrossInstances(t *testing.T) {
	a, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)
	b, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)

	assert.Same(t, MetadataOf(&a.Cell), MetadataOf(&b.Cell))
}

func TestVisitPointers_FieldsAndArrays(t *testing.T) {
	l, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)
	r, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)

	root, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)
	root.Left = PtrTo(&l.Cell)
	root.Right = PtrTo(&r.Cell)

	assert.Equal(t, []Ptr{PtrTo(&l.Cell), PtrTo(&r.Cell)}, Pointers(&root.Cell))
	assert.Same(t, &l.Cell, root.Left.Cell())

	v := newVector(t, 3)
	*v.at(0) = PtrTo(&l.Cell)
	*v.at(2) = PtrTo(&r.Cell)

	var names []string
	VisitPointers(&v.Cell, func(name string, _ *Ptr) { names = append(names, name) })
	assert.Equal(t, []string{"elems", "elems", "elems"}, names, "null slots are visited too")
	assert.Equal(t, []Ptr{PtrTo(&l.Cell), PtrTo(&r.Cell)}, Pointers(&v.Cell))

	// Only the live length is traced.
	v.Len = 1
	assert.Equal(t, []Ptr{PtrTo(&l.Cell)}, Pointers(&v.Cell))
}

func TestVisitPointers_Relocate(t *testing.T) {
	from, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)
	to, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)

	root, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)
	root.Left = PtrTo(&from.Cell)
	root.Right = PtrTo(&from.Cell)

	VisitPointers(&root.Cell, func(_ string, slot *Ptr) {
		if *slot == PtrTo(&from.Cell) {
			*slot = PtrTo(&to.Cell)
		}
	})
	assert.Equal(t, PtrTo(&to.Cell), root.Left)
	assert.Equal(t, PtrTo(&to.Cell), root.Right)
}

func TestBuilder_FieldOutsideCellPanics(t *testing.T) {
	p, err := New[pair](heapMem(t, int(pairVT.Size)), &pairVT)
	require.NoError(t, err)

	var outside Ptr
	mb := newBuilder(&p.Cell)
	assert.Panics(t, func() { mb.AddField("stray", &outside) })
}

func TestPtr_Null(t *testing.T) {
	var p Ptr
	assert.True(t, p.IsNull())
	assert.Nil(t, p.Cell())
	assert.Equal(t, Ptr(0), PtrTo(nil))
}
