// Package clock implements the kernel tick counter and the timed-sleep
// protocol built on it.
package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/syncs"
)

// Sleeper is the process state observed by [Clock.Sleep].
type Sleeper interface {
	Killed() bool
	SetSleepTicks(n int)
}

// Clock is a monotonic tick counter. The counter is only advanced by
// [Clock.Tick]; every advance wakes all sleepers.
type Clock struct {
	waits *syncs.WaitSet
	ticks uint64
	lock  syncs.Spinlock
}

// New creates a clock at tick 0 that signals sleepers through waits.
func New(waits *syncs.WaitSet) *Clock {
	return &Clock{waits: waits}
}

// Tick advances the counter by one and wakes every sleeper.
func (c *Clock) Tick() {
	c.lock.Lock()
	c.ticks++
	c.waits.Wakeup(c)
	c.lock.Unlock()
}

// Interrupt wakes every sleeper without advancing the counter, so a killed
// sleeper returns without waiting for the next tick.
func (c *Clock) Interrupt() {
	c.lock.Lock()
	c.waits.Wakeup(c)
	c.lock.Unlock()
}

// Now returns the current tick count.
func (c *Clock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.ticks
}

// Run calls [Clock.Tick] every interval until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			c.Tick()
		}
	}
}

// Sleep blocks until at least n ticks have elapsed, n > 0. It returns
// [kerrors.ErrInterrupted] if s is killed before then.
func (c *Clock) Sleep(s Sleeper, n uint64) error {
	c.lock.Lock()

	ticks0 := c.ticks
	s.SetSleepTicks(int(n))

	for c.ticks-ticks0 < n {
		if s.Killed() {
			elapsed := c.ticks - ticks0
			c.lock.Unlock()

			return fmt.Errorf("%w: after %d of %d ticks", kerrors.ErrInterrupted, elapsed, n)
		}

		c.waits.Sleep(c, &c.lock)
	}

	s.SetSleepTicks(-1)
	c.lock.Unlock()

	return nil
}
