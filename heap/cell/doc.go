// Package cell defines the uniform header every heap object starts with.
//
// # Overview
//
// A cell is a typed view over a range of collector-owned memory. Its first
// word points at a VTable: a process-wide, immutable type descriptor carrying
//
//   - Kind: a closed tag identifying the concrete type
//   - Size: the declared size (exact for fixed-size types, the header size
//     for variable-size types)
//   - BuildMeta: reports where the pointer fields of an instance live
//   - Finalize: optional cleanup run before the memory is reclaimed
//
// Variable-size cells embed VariableSizeCell, which stores the instance size
// after the VTable pointer. That size is written once at construction.
//
// Given nothing but an address, generic code can recover the VTable, the
// size, and (through Metadata) every internal pointer. No per-object vtable
// or interface value is needed.
//
// # Construction
//
// Cells never allocate. New and NewVariable construct a cell inside memory
// supplied by an allocator (see heap/alloc); the allocator keeps owning the
// segment, the cell is just a view of part of it:
//
//	mem, _ := ba.Alloc(vt.Size)
//	it, err := cell.New[Iterator](mem, &iteratorVT)
//
// # Type Checks
//
// A type check compares VTable pointers:
//
//	if s, ok := cell.As[ExtString](c, &extStringVT); ok { ... }
//
// # Pointers
//
// Fields that refer to other cells are stored as Ptr (an address), so the Go
// garbage collector never scans or moves heap memory it does not own.
// VTables are package-level variables and live for the whole process, which
// is why a raw *VTable in the header is safe.
package cell
