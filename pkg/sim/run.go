package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/MacroPower/kwait/pkg/kmutex"
	"github.com/MacroPower/kwait/pkg/proc"
	"github.com/MacroPower/kwait/pkg/sysproc"
	"github.com/MacroPower/kwait/pkg/umem"
)

// Roles of simulated processes.
const (
	RoleWorker = "worker"
	RoleKiller = "killer"
)

const spaceSize = 1 << 20

// Option configures [Run].
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by the kernel and the simulator.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

type process struct {
	p      *proc.Proc
	report *ProcessReport
	group  ProcessGroup
	target proc.PID
	ref    umem.Addr
}

type runner struct {
	k      *sysproc.Kernel
	cpus   *semaphore.Weighted
	logger *slog.Logger
	inside []atomic.Int32
	refs   []umem.Addr
	viol   atomic.Int64
}

// Run executes the scenario and returns its report. If ctx is cancelled, every
// process is killed and Run returns once all of them have exited.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Report, error) {
	err := sc.Validate()
	if err != nil {
		return nil, err
	}

	cfg := &runConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	runID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	logger := cfg.logger.With(slog.String("run", runID.String()))

	r := &runner{
		k:      sysproc.New(sysproc.WithLogger(logger)),
		cpus:   semaphore.NewWeighted(int64(sc.CPUs)),
		logger: logger,
		inside: make([]atomic.Int32, sc.Mutexes),
	}

	space := umem.NewSpace(spaceSize)
	for range sc.Mutexes {
		ref, err := space.Alloc(&kmutex.Mutex{}, kmutex.Size)
		if err != nil {
			return nil, fmt.Errorf("map mutex: %w", err)
		}

		r.refs = append(r.refs, ref)
	}

	procs := r.spawn(sc, space)

	clockCtx, stopClock := context.WithCancel(context.Background())
	defer stopClock()

	clockDone := make(chan error, 1)
	go func() {
		clockDone <- r.k.Clock().Run(clockCtx, time.Second/time.Duration(sc.TickHz))
	}()

	logger.Info("starting run", slog.Int("processes", len(procs)))

	// runCtx is cancelled by the caller or by the first process that fails.
	runCtx, abort := context.WithCancel(ctx)
	defer abort()

	var g errgroup.Group
	for _, pr := range procs {
		g.Go(func() error {
			var err error
			if pr.report.Role == RoleKiller {
				err = r.kill(pr)
			} else {
				err = r.work(runCtx, pr)
			}

			if err != nil {
				abort()
			}

			return err
		})
	}

	finished := make(chan struct{})
	watcherDone := make(chan struct{})

	go func() {
		defer close(watcherDone)

		select {
		case <-runCtx.Done():
			logger.Warn("run cancelled, killing processes")

			for _, pr := range procs {
				pr.p.Kill()
			}
		case <-finished:
		}
	}()

	runErr := g.Wait()
	close(finished)
	<-watcherDone

	stopClock()

	if err := <-clockDone; err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("clock: %w", err)
	}

	report := &Report{
		RunID:      runID.String(),
		Uptime:     r.k.Uptime(),
		Violations: int(r.viol.Load()),
	}

	for _, pr := range procs {
		pr.report.Killed = pr.p.Killed()
		pr.report.Nice = pr.p.Nice()
		report.Processes = append(report.Processes, *pr.report)
	}

	logger.Info("run finished",
		slog.Uint64("uptime", report.Uptime),
		slog.Int("violations", report.Violations),
	)

	if runErr != nil {
		return report, fmt.Errorf("run: %w", runErr)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, fmt.Errorf("run: %w", ctxErr)
	}

	return report, nil
}

func (r *runner) spawn(sc *Scenario, space *umem.Space) []*process {
	var procs []*process

	pid := proc.PID(1)
	newProc := func(pg ProcessGroup, role string) *process {
		p := proc.New(pid, space)
		r.k.Register(p)
		pid++

		return &process{
			p:     p,
			group: pg,
			ref:   r.refs[pg.Mutex],
			report: &ProcessReport{
				PID:   int(p.PID()),
				Group: pg.Name,
				Role:  role,
			},
		}
	}

	for _, pg := range sc.Processes {
		for range pg.Count {
			w := newProc(pg, RoleWorker)
			procs = append(procs, w)

			if pg.KillAfterTicks > 0 {
				k := newProc(pg, RoleKiller)
				k.target = w.p.PID()
				procs = append(procs, k)
			}
		}
	}

	return procs
}

func (r *runner) syscall(pr *process, num sysproc.Num, args ...int64) int {
	return r.k.Syscall(pr.p, num, sysproc.Args(args...))
}

// sleep returns false if the process was interrupted.
func (r *runner) sleep(pr *process, n int) bool {
	if r.syscall(pr, sysproc.SysSleep, int64(n)) == sysproc.Failure {
		pr.report.Interrupted = true

		return false
	}

	if n > 0 {
		pr.report.Sleeps++
	}

	return true
}

func (r *runner) work(ctx context.Context, pr *process) error {
	r.syscall(pr, sysproc.SysNice, int64(pr.group.Nice))

	for range pr.group.Iterations {
		r.syscall(pr, sysproc.SysMacquire, int64(pr.ref))

		err := r.critical(ctx, pr)
		if err != nil {
			r.syscall(pr, sysproc.SysMrelease, int64(pr.ref))

			return err
		}

		held := r.sleep(pr, pr.group.HoldTicks)

		r.syscall(pr, sysproc.SysMrelease, int64(pr.ref))

		if !held || !r.sleep(pr, pr.group.SleepTicks) {
			r.logger.Debug("process interrupted", slog.Int("pid", pr.report.PID))

			return nil
		}
	}

	pr.report.Completed = true

	return nil
}

// critical runs one compute burst on a CPU slot while holding the process's
// mutex, and checks no other process is inside the same mutex.
func (r *runner) critical(ctx context.Context, pr *process) error {
	err := r.cpus.Acquire(ctx, 1)
	if err != nil {
		return fmt.Errorf("acquire cpu: %w", err)
	}
	defer r.cpus.Release(1)

	idx := pr.group.Mutex

	if r.inside[idx].Add(1) != 1 {
		r.viol.Add(1)
	}

	if pr.p.Owner() != pr.ref {
		r.viol.Add(1)
	}

	pr.report.Acquisitions++

	r.inside[idx].Add(-1)

	return nil
}

func (r *runner) kill(pr *process) error {
	if !r.sleep(pr, pr.group.KillAfterTicks) {
		return nil
	}

	if r.syscall(pr, sysproc.SysKill, int64(pr.target)) == sysproc.Failure {
		return fmt.Errorf("kill %d: failed", pr.target)
	}

	pr.report.Completed = true

	return nil
}
