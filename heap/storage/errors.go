package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStorage indicates the provider could not produce a segment.
	// It is the one sentinel callers need to check for out-of-memory.
	ErrNoStorage = errors.New("storage: no storage available")

	// ErrLimitExceeded indicates a LimitedProvider refused to exceed its budget.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrNoStorage)

	// ErrNotAligned indicates a release of a pointer that is not a segment base.
	ErrNotAligned = errors.New("storage: pointer is not segment aligned")
)
