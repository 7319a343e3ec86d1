package cell

// FillerVTable describes dead space. Allocators place fillers over gaps so a
// region can be walked cell by cell without holes.
var FillerVTable = VTable{
	Kind:     KindFiller,
	Size:     VariableHeaderSize,
	Variable: true,
}

// PlaceFiller covers all of mem with a single filler cell.
func PlaceFiller(mem []byte) (*VariableSizeCell, error) {
	return PlaceVariable(mem, &FillerVTable, uint32(len(mem)))
}

// IsFiller reports whether c is a filler.
func (c *Cell) IsFiller() bool {
	return c.vt == &FillerVTable
}
