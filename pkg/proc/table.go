package proc

import (
	"fmt"
	"sync"

	"github.com/MacroPower/kwait/pkg/kerrors"
)

// Table maps PIDs to processes. The zero value is an empty table.
type Table struct {
	procs map[PID]*Proc
	mu    sync.RWMutex
}

// Add registers p, replacing any process with the same PID.
func (t *Table) Add(p *Proc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.procs == nil {
		t.procs = make(map[PID]*Proc)
	}

	t.procs[p.pid] = p
}

// Get returns the process with the given PID.
func (t *Table) Get(pid PID) (*Proc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.procs[pid]

	return p, ok
}

// Kill sets the termination flag of the process with the given PID.
func (t *Table) Kill(pid PID) error {
	p, ok := t.Get(pid)
	if !ok {
		return fmt.Errorf("%w: %d", kerrors.ErrNoProcess, pid)
	}

	p.Kill()

	return nil
}
