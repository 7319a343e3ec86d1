package cell

// BuildMetaFunc reports the pointer fields of c to mb.
type BuildMetaFunc func(c *Cell, mb *Builder)

// FinalizeFunc releases resources held outside the heap by c.
type FinalizeFunc func(c *Cell)

// VTable is the type descriptor shared by every instance of a type. VTables
// are declared as package-level variables and never modified after init.
type VTable struct {
	Kind Kind

	// Size is the size of a fixed-size cell, or the minimum (header) size of
	// a variable-size one.
	Size uint32

	// Variable marks types whose instances embed VariableSizeCell.
	Variable bool

	// BuildMeta may be nil for types without pointer fields.
	BuildMeta BuildMetaFunc

	// Finalize may be nil.
	Finalize FinalizeFunc
}
