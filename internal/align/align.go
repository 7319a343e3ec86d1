// Package align provides power-of-two rounding helpers for addresses and sizes.
package align

// Down returns n rounded down to a multiple of a. a must be a power of two.
//
// Example:
//
//	Down(4097, 4096) = 4096
//	Down(4096, 4096) = 4096
//	Down(4095, 4096) = 0
func Down(n, a uintptr) uintptr {
	return n &^ (a - 1)
}

// Up returns n rounded up to a multiple of a. a must be a power of two.
//
// Example:
//
//	Up(1, 4096)    = 4096
//	Up(4096, 4096) = 4096
//	Up(4097, 4096) = 8192
func Up(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// IsAligned reports whether n is a multiple of a. a must be a power of two.
func IsAligned(n, a uintptr) bool {
	return n&(a-1) == 0
}

// IsPow2 reports whether n is a non-zero power of two.
func IsPow2(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// Up32 returns n rounded up to a multiple of a.
// uint32 version for cell sizes to avoid G115 warnings.
func Up32(n, a uint32) uint32 {
	return (n + a - 1) &^ (a - 1)
}
