package syncs

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a test-and-set mutual exclusion lock with bounded hold time.
// The zero value is an unlocked lock.
type Spinlock struct {
	locked atomic.Uint32
}

// Lock acquires the lock, yielding the processor between attempts.
func (l *Spinlock) Lock() {
	for !l.locked.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *Spinlock) TryLock() bool {
	return l.locked.CompareAndSwap(0, 1)
}

// Unlock releases the lock. It panics if the lock is not held.
func (l *Spinlock) Unlock() {
	if !l.locked.CompareAndSwap(1, 0) {
		panic("syncs: unlock of unlocked spinlock")
	}
}

// Held reports whether the lock is currently held by anyone.
func (l *Spinlock) Held() bool {
	return l.locked.Load() == 1
}
