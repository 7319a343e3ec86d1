package storage

import (
	"fmt"
	"unsafe"
)

// LimitedProvider forwards to a delegate provider until a byte budget is
// used up, then refuses. It lets higher layers hit their out-of-memory paths
// without exhausting the address space.
//
// The running total is not synchronised; callers that share a LimitedProvider
// across goroutines must serialise calls themselves.
type LimitedProvider struct {
	delegate Provider
	limit    uintptr
	used     uintptr
}

// NewLimited wraps delegate with a budget of limit bytes.
func NewLimited(delegate Provider, limit uintptr) *LimitedProvider {
	return &LimitedProvider{delegate: delegate, limit: limit}
}

// Allocate grants a segment if Size more bytes fit in the budget. A refusal
// does not consult the delegate.
func (lp *LimitedProvider) Allocate() (unsafe.Pointer, error) {
	if lp.limit-lp.used < Size {
		return nil, fmt.Errorf("%w: used %d of %d bytes", ErrLimitExceeded, lp.used, lp.limit)
	}
	p, err := lp.delegate.Allocate()
	if err != nil {
		return nil, err
	}
	lp.used += Size
	return p, nil
}

// Release forwards to the delegate and credits the budget.
func (lp *LimitedProvider) Release(p unsafe.Pointer) error {
	if err := lp.delegate.Release(p); err != nil {
		return err
	}
	lp.used -= Size
	return nil
}

// Used returns the bytes currently granted.
func (lp *LimitedProvider) Used() uintptr { return lp.used }

// Limit returns the configured budget.
func (lp *LimitedProvider) Limit() uintptr { return lp.limit }
