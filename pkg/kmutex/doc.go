// Package kmutex implements the sleeping mutex exposed to user processes.
//
// A [Mutex] lives in user memory and is referenced by its user address. Its
// guard is a short [syncs.Spinlock] held only while the mutex state is
// inspected or changed; contended acquirers suspend on the mutex itself as a
// wait channel and are all woken on release, then race for the lock again.
// There is no fairness and no cancellation: a blocked acquirer returns only
// once it owns the mutex.
package kmutex
