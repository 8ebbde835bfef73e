package sysproc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MacroPower/kwait/pkg/clock"
	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/kmutex"
	"github.com/MacroPower/kwait/pkg/proc"
	"github.com/MacroPower/kwait/pkg/syncs"
	"github.com/MacroPower/kwait/pkg/umem"
)

// Kernel owns the state shared by the syscalls: the wait set, the clock, the
// mutex service and the PID registry.
type Kernel struct {
	log   *slog.Logger
	waits *syncs.WaitSet
	clock *clock.Clock
	mutex *kmutex.Service
	procs proc.Table
}

// Option configures a [Kernel].
type Option func(*Kernel)

// WithLogger sets the kernel logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(k *Kernel) {
		k.log = l
	}
}

// New creates a [Kernel] with its clock at tick 0.
func New(opts ...Option) *Kernel {
	waits := syncs.NewWaitSet()
	k := &Kernel{
		log:   slog.Default(),
		waits: waits,
		clock: clock.New(waits),
		mutex: kmutex.NewService(waits),
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Clock returns the kernel tick clock.
func (k *Kernel) Clock() *clock.Clock { return k.clock }

// Tick advances the clock by one tick, as the timer interrupt does.
func (k *Kernel) Tick() { k.clock.Tick() }

// Register adds p to the PID registry so it can be targeted by kill.
func (k *Kernel) Register(p *proc.Proc) { k.procs.Add(p) }

// Process returns the registered process with the given PID.
func (k *Kernel) Process(pid proc.PID) (*proc.Proc, bool) { return k.procs.Get(pid) }

// MutexWaiters returns the number of processes suspended on m.
func (k *Kernel) MutexWaiters(m *kmutex.Mutex) int { return k.mutex.Waiters(m) }

// Resolve validates ref in p's address space and returns the mutex mapped
// there.
func (k *Kernel) Resolve(p *proc.Proc, ref umem.Addr) (*kmutex.Mutex, error) {
	if p.Space() == nil {
		return nil, fmt.Errorf("%w: no address space", kerrors.ErrInvalidArgument)
	}

	m, err := umem.Lookup[kmutex.Mutex](p.Space(), ref, kmutex.Size)
	if err != nil {
		return nil, fmt.Errorf("mutex %v: %w", ref, err)
	}

	return m, nil
}

// MutexAcquire blocks until p holds the mutex at ref.
func (k *Kernel) MutexAcquire(p *proc.Proc, ref umem.Addr) error {
	m, err := k.Resolve(p, ref)
	if err != nil {
		return err
	}

	k.mutex.Acquire(p, ref, m)

	return nil
}

// MutexRelease releases the mutex at ref.
func (k *Kernel) MutexRelease(p *proc.Proc, ref umem.Addr) error {
	m, err := k.Resolve(p, ref)
	if err != nil {
		return err
	}

	k.mutex.Release(p, m)

	return nil
}

// Sleep blocks p for at least n ticks. n == 0 only yields.
func (k *Kernel) Sleep(p *proc.Proc, n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: sleep %d", kerrors.ErrInvalidArgument, n)
	case n == 0:
		p.Yield()

		return nil
	}

	err := k.clock.Sleep(p, uint64(n))
	if err != nil {
		return fmt.Errorf("sleep %d: %w", n, err)
	}

	return nil
}

// Uptime returns the number of ticks since the kernel started.
func (k *Kernel) Uptime() uint64 { return k.clock.Now() }

// Nice adds delta to p's nice value, saturating at [proc.NiceMin] and
// [proc.NiceMax].
func (k *Kernel) Nice(p *proc.Proc, delta int) error {
	p.SetNice(clampNice(int64(p.Nice()) + int64(delta)))

	return nil
}

// Kill asks the process with the given PID to terminate. A process in a timed
// sleep is woken at once and its sleep fails; one blocked on a mutex stays
// blocked.
func (k *Kernel) Kill(pid proc.PID) error {
	err := k.procs.Kill(pid)
	if err != nil {
		return fmt.Errorf("kill: %w", err)
	}

	k.clock.Interrupt()

	return nil
}

func clampNice(n int64) int {
	switch {
	case n < proc.NiceMin:
		return proc.NiceMin
	case n > proc.NiceMax:
		return proc.NiceMax
	}

	return int(n)
}

// discard drops the error of a call whose ABI has no failure result.
func (k *Kernel) discard(name string, p *proc.Proc, err error) Result {
	if err != nil {
		k.log.Debug("discarding syscall error",
			slog.String("syscall", name),
			slog.Int("pid", int(p.PID())),
			slog.Any("err", err),
		)
	}

	return ok(0)
}

func (k *Kernel) logFailure(name string, p *proc.Proc, err error) {
	level := slog.LevelDebug
	if errors.Is(err, kerrors.ErrUnknownSyscall) {
		level = slog.LevelWarn
	}

	k.log.Log(context.Background(), level, "syscall failed",
		slog.String("syscall", name),
		slog.Int("pid", int(p.PID())),
		slog.Any("err", err),
	)
}
