package cell

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/segheap/internal/align"
)

// Place constructs a fixed-size cell of type vt at the start of mem. The
// first vt.Size bytes are zeroed before the header is written.
func Place(mem []byte, vt *VTable) (*Cell, error) {
	if err := CheckFixed(vt); err != nil {
		return nil, err
	}
	if err := checkMem(mem, vt.Size); err != nil {
		return nil, err
	}
	clear(mem[:vt.Size])
	c := (*Cell)(unsafe.Pointer(&mem[0]))
	c.vt = vt
	return c, nil
}

// PlaceVariable constructs a variable-size cell of type vt and the given
// size at the start of mem.
func PlaceVariable(mem []byte, vt *VTable, size uint32) (*VariableSizeCell, error) {
	if err := CheckVariable(vt, size); err != nil {
		return nil, err
	}
	if err := checkMem(mem, size); err != nil {
		return nil, err
	}
	clear(mem[:size])
	v := (*VariableSizeCell)(unsafe.Pointer(&mem[0]))
	v.vt = vt
	v.size = size
	return v, nil
}

// CheckFixed reports whether Place would accept vt, without touching memory.
func CheckFixed(vt *VTable) error {
	if vt.Variable {
		return fmt.Errorf("%w: %s is variable-size", ErrVariableSize, vt.Kind)
	}
	if vt.Size < HeaderSize {
		return fmt.Errorf("%w: %s declares %d bytes", ErrTooSmall, vt.Kind, vt.Size)
	}
	return nil
}

// CheckVariable reports whether PlaceVariable would accept vt and size,
// without touching memory.
func CheckVariable(vt *VTable, size uint32) error {
	if !vt.Variable {
		return fmt.Errorf("%w: %s is fixed-size", ErrVariableSize, vt.Kind)
	}
	if size < vt.Size || size < VariableHeaderSize {
		return fmt.Errorf("%w: size %d below minimum %d for %s", ErrTooSmall, size, vt.Size, vt.Kind)
	}
	return nil
}

// New constructs a fixed-size cell in mem and returns it as a *T. T must
// embed Cell as its first field, fit in vt.Size, and hold no Go pointers.
func New[T any](mem []byte, vt *VTable) (*T, error) {
	if uintptr(vt.Size) < unsafe.Sizeof(*new(T)) {
		return nil, fmt.Errorf("%w: %s declares %d bytes", ErrTooSmall, vt.Kind, vt.Size)
	}
	c, err := Place(mem, vt)
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(c)), nil
}

// NewVariable constructs a variable-size cell in mem and returns it as a *T.
// T must embed VariableSizeCell as its first field and hold no Go pointers.
func NewVariable[T any](mem []byte, vt *VTable, size uint32) (*T, error) {
	if uintptr(size) < unsafe.Sizeof(*new(T)) {
		return nil, fmt.Errorf("%w: size %d for %s", ErrTooSmall, size, vt.Kind)
	}
	v, err := PlaceVariable(mem, vt, size)
	if err != nil {
		return nil, err
	}
	return (*T)(unsafe.Pointer(v)), nil
}

func checkMem(mem []byte, size uint32) error {
	if uint64(len(mem)) < uint64(size) || len(mem) == 0 {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrTooSmall, len(mem), size)
	}
	if !align.IsAligned(uintptr(unsafe.Pointer(&mem[0])), HeapAlign) {
		return ErrMisaligned
	}
	return nil
}
