package alloc

import "errors"

var (
	// ErrNoSpace indicates the current segment is full and the provider
	// refused to supply another.
	ErrNoSpace = errors.New("alloc: no space and segment growth failed")

	// ErrTooLarge indicates a request larger than a segment.
	ErrTooLarge = errors.New("alloc: request larger than a segment")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("alloc: allocator closed")

	// ErrCorrupt indicates a walk found memory that is not a valid cell.
	ErrCorrupt = errors.New("alloc: corrupt cell")
)
