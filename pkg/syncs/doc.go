// Package syncs provides the kernel's low-level synchronization primitives.
//
// [Spinlock] is a short critical-section lock: it is held only while
// inspecting or mutating a small invariant and never across a suspension.
// [WaitSet] is the blocking primitive: a caller atomically releases a held
// [Spinlock] and suspends on a wait channel until another caller signals that
// channel with [WaitSet.Wakeup]. Signals are broadcasts, so woken callers must
// recheck the condition they were waiting for.
package syncs
