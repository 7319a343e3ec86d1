package cell

import "errors"

var (
	// ErrTooSmall indicates the supplied memory is smaller than the cell.
	ErrTooSmall = errors.New("cell: memory too small for cell")

	// ErrMisaligned indicates the supplied memory is not HeapAlign aligned.
	ErrMisaligned = errors.New("cell: memory not heap aligned")

	// ErrVariableSize indicates a fixed-size constructor was used for a
	// variable-size type, or the reverse.
	ErrVariableSize = errors.New("cell: fixed/variable size mismatch")
)
