package proc

import (
	"runtime"
	"sync/atomic"

	"github.com/MacroPower/kwait/pkg/umem"
)

// Nice value bounds.
const (
	NiceMin = -20
	NiceMax = 19
)

// NotSleeping is the sleep diagnostic value of a process that is not in a
// timed sleep.
const NotSleeping = -1

// PID identifies a process.
type PID int

// Proc is the subset of a process's state used by the blocking syscalls.
//
// holding and owner are only touched while the process holds the guard of
// the mutex involved. sleepTicks is written under the clock lock and may be
// read by anyone for diagnostics. nice has a single writer, the process
// itself.
type Proc struct {
	space      *umem.Space
	holding    Holding
	pid        PID
	owner      umem.Addr
	nice       int
	sleepTicks atomic.Int64
	killed     atomic.Bool
}

// New creates a process with every field at its sentinel value.
func New(pid PID, space *umem.Space) *Proc {
	p := &Proc{
		pid:     pid,
		space:   space,
		holding: newHolding(),
		owner:   umem.Nil,
	}
	p.sleepTicks.Store(NotSleeping)

	return p
}

// PID returns the process identifier.
func (p *Proc) PID() PID { return p.pid }

// Space returns the address space pointer arguments are validated against.
func (p *Proc) Space() *umem.Space { return p.space }

// Holding returns the process's contention table.
func (p *Proc) Holding() *Holding { return &p.holding }

// Owner returns the address of the mutex this process holds, or [umem.Nil].
func (p *Proc) Owner() umem.Addr { return p.owner }

// SetOwner records ref as the mutex held by the process.
func (p *Proc) SetOwner(ref umem.Addr) { p.owner = ref }

// SleepTicks returns the duration of the in-progress timed sleep, or
// [NotSleeping].
func (p *Proc) SleepTicks() int { return int(p.sleepTicks.Load()) }

// SetSleepTicks sets the sleep diagnostic.
func (p *Proc) SetSleepTicks(n int) { p.sleepTicks.Store(int64(n)) }

// Nice returns the scheduling hint, in [NiceMin, NiceMax].
func (p *Proc) Nice() int { return p.nice }

// SetNice stores n as the scheduling hint. Callers clamp n.
func (p *Proc) SetNice(n int) { p.nice = n }

// Kill asks the process to terminate. The request is observed at the next
// interruptible wait.
func (p *Proc) Kill() { p.killed.Store(true) }

// Killed reports whether [Proc.Kill] was called.
func (p *Proc) Killed() bool { return p.killed.Load() }

// Yield gives up the remainder of the current scheduling quantum.
func (p *Proc) Yield() { runtime.Gosched() }
