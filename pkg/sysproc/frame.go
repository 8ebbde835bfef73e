package sysproc

import (
	"fmt"
	"math"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/umem"
)

// Frame holds the raw argument registers of a syscall.
type Frame []uint64

// Args builds a [Frame] from signed integer arguments, as a user process
// would load them into registers.
func Args(args ...int64) Frame {
	f := make(Frame, len(args))
	for i, a := range args {
		f[i] = uint64(a)
	}

	return f
}

// Int fetches the i'th argument as a 32-bit signed integer.
func (f Frame) Int(i int) (int, error) {
	if i < 0 || i >= len(f) {
		return 0, fmt.Errorf("%w: missing argument %d", kerrors.ErrInvalidArgument, i)
	}

	v := int64(f[i])
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: argument %d out of range: %d", kerrors.ErrInvalidArgument, i, v)
	}

	return int(v), nil
}

// Ptr fetches the i'th argument as a user address and checks that size bytes
// starting there lie inside space.
func (f Frame) Ptr(space *umem.Space, i int, size uint64) (umem.Addr, error) {
	if i < 0 || i >= len(f) {
		return umem.Nil, fmt.Errorf("%w: missing argument %d", kerrors.ErrInvalidArgument, i)
	}

	addr := umem.Addr(f[i])

	if space == nil {
		return umem.Nil, fmt.Errorf("%w: no address space", kerrors.ErrInvalidArgument)
	}

	err := space.Check(addr, size)
	if err != nil {
		return umem.Nil, err
	}

	return addr, nil
}
