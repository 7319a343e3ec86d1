// Package cells provides sample cell types used by the segctl diagnostics
// and by the heap package tests. They follow the layout rules real object
// types must obey: header first, pointers as cell.Ptr, no Go pointers into
// the Go heap.
package cells
