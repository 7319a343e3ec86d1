// Package footprint measures how much of an address range is backed by
// physical memory.
//
// It is a diagnostic oracle: tests use it to confirm that decommitted pages
// were really returned to the OS. Nothing on an allocation path calls it.
package footprint

import (
	"github.com/joshuapare/segheap/internal/oscompat"
)

// Failed is returned by Region when the query cannot be performed. It is
// distinct from every valid page count.
const Failed = -1

// Pages returns the number of resident pages overlapping [start, end).
// Only bytes inside the range are considered, so the count is unaffected by
// the rest of an enclosing mapping.
func Pages(start, end uintptr) (int, error) {
	return oscompat.VMFootprint(start, end)
}

// Region is Pages with the error folded into the Failed sentinel.
func Region(start, end uintptr) int {
	n, err := Pages(start, end)
	if err != nil {
		return Failed
	}
	return n
}

// Supported reports whether the platform can answer footprint queries.
func Supported() bool {
	_, err := oscompat.VMFootprint(0, 0)
	return err == nil
}
