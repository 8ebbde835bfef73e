package umem

import (
	"fmt"
	"slices"
	"sync"

	"github.com/MacroPower/kwait/pkg/kerrors"
)

// Addr is a user virtual address.
type Addr uint64

// Nil is the sentinel address meaning "no object".
const Nil = ^Addr(0)

func (a Addr) String() string {
	if a == Nil {
		return "nil"
	}

	return fmt.Sprintf("%#x", uint64(a))
}

type region struct {
	obj  any
	size uint64
}

// Space is a user address space covering [0, Size).
type Space struct {
	regions map[Addr]region
	size    uint64
	brk     uint64
	mu      sync.Mutex
}

// NewSpace creates an empty [Space] of the given size in bytes.
func NewSpace(size uint64) *Space {
	return &Space{
		regions: make(map[Addr]region),
		size:    size,
	}
}

// Size returns the size of the address space in bytes.
func (s *Space) Size() uint64 {
	return s.size
}

// Check reports whether [addr, addr+size) lies inside the space.
func (s *Space) Check(addr Addr, size uint64) error {
	a := uint64(addr)
	if a >= s.size || size > s.size-a {
		return fmt.Errorf("%w: [%v, +%d) outside space of %d bytes", kerrors.ErrInvalidArgument, addr, size, s.size)
	}

	return nil
}

// Map places obj at addr, occupying size bytes.
func (s *Space) Map(addr Addr, obj any, size uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mapLocked(addr, obj, size)
}

// Alloc places obj after the highest mapped object and returns its address.
func (s *Space) Alloc(obj any, size uint64) (Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := Addr(s.brk)

	err := s.mapLocked(addr, obj, size)
	if err != nil {
		return Nil, fmt.Errorf("alloc: %w", err)
	}

	return addr, nil
}

func (s *Space) mapLocked(addr Addr, obj any, size uint64) error {
	if size == 0 {
		return fmt.Errorf("%w: zero-sized object at %v", kerrors.ErrInvalidArgument, addr)
	}

	err := s.Check(addr, size)
	if err != nil {
		return err
	}

	if s.regions == nil {
		s.regions = make(map[Addr]region)
	}

	for base, r := range s.regions {
		if uint64(addr) < uint64(base)+r.size && uint64(base) < uint64(addr)+size {
			return fmt.Errorf("%w: [%v, +%d) overlaps object at %v", kerrors.ErrInvalidArgument, addr, size, base)
		}
	}

	s.regions[addr] = region{obj: obj, size: size}

	if end := uint64(addr) + size; end > s.brk {
		s.brk = end
	}

	return nil
}

// Mapped returns the addresses of all mapped objects in ascending order.
func (s *Space) Mapped() []Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	addrs := make([]Addr, 0, len(s.regions))
	for a := range s.regions {
		addrs = append(addrs, a)
	}

	slices.Sort(addrs)

	return addrs
}

// Lookup validates [addr, addr+size) and returns the *T mapped exactly at
// addr. The mapped object must be at least size bytes.
func Lookup[T any](s *Space, addr Addr, size uint64) (*T, error) {
	err := s.Check(addr, size)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	r, ok := s.regions[addr]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: nothing mapped at %v", kerrors.ErrBadAddress, addr)
	}

	if r.size < size {
		return nil, fmt.Errorf("%w: object at %v is %d bytes, want %d", kerrors.ErrBadAddress, addr, r.size, size)
	}

	obj, ok := r.obj.(*T)
	if !ok {
		return nil, fmt.Errorf("%w: object at %v is %T", kerrors.ErrBadAddress, addr, r.obj)
	}

	return obj, nil
}
