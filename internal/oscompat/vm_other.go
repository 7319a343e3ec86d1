//go:build !linux && !darwin

package oscompat

import "unsafe"

func VMAllocate(size uintptr) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}

func VMAllocateAligned(size, alignment uintptr) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}

func VMFree(p unsafe.Pointer, size uintptr) error {
	return ErrUnsupported
}

func VMUnused(p unsafe.Pointer, size uintptr) error {
	return ErrUnsupported
}

func VMFootprint(start, end uintptr) (int, error) {
	return 0, ErrUnsupported
}
