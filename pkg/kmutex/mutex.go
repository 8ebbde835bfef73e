package kmutex

import (
	"github.com/MacroPower/kwait/pkg/proc"
	"github.com/MacroPower/kwait/pkg/syncs"
	"github.com/MacroPower/kwait/pkg/umem"
)

// Size is the size in bytes of a mutex object in user memory.
const Size = 16

// Mutex is a user-addressable sleeping lock. The zero value is unlocked.
type Mutex struct {
	owner  *proc.Proc
	guard  syncs.Spinlock
	locked bool
}

// Locked reports whether the mutex is held.
func (m *Mutex) Locked() bool {
	m.guard.Lock()
	defer m.guard.Unlock()

	return m.locked
}

// Owner returns the process holding the mutex, or nil.
func (m *Mutex) Owner() *proc.Proc {
	m.guard.Lock()
	defer m.guard.Unlock()

	return m.owner
}

// Service performs acquire and release on behalf of processes.
type Service struct {
	waits *syncs.WaitSet
}

// NewService creates a [Service] that suspends contended callers on waits.
func NewService(waits *syncs.WaitSet) *Service {
	return &Service{waits: waits}
}

// Acquire blocks until p owns m. ref is the user address m was resolved from.
func (s *Service) Acquire(p *proc.Proc, ref umem.Addr, m *Mutex) {
	m.guard.Lock()

	if m.locked {
		p.Holding().Record(ref)
	}

	for m.locked {
		s.waits.Sleep(m, &m.guard)
	}

	m.locked = true
	m.owner = p
	p.SetOwner(ref)
	p.Holding().Clear(ref)

	m.guard.Unlock()
}

// Release unlocks m and wakes every process waiting for it. The caller is not
// required to be the owner.
func (s *Service) Release(p *proc.Proc, m *Mutex) {
	m.guard.Lock()

	m.locked = false
	m.owner = nil
	p.SetOwner(umem.Nil)
	s.waits.Wakeup(m)

	m.guard.Unlock()
}

// Waiters returns the number of processes suspended on m.
func (s *Service) Waiters(m *Mutex) int {
	return s.waits.Waiters(m)
}
