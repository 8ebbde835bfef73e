// Package sysproc implements the blocking and timing system calls: mutex
// acquire and release, tick sleep, uptime and nice, plus the kill and getpid
// calls a user process needs to drive them.
//
// [Kernel] exposes each call as a Go method returning an explicit error, and
// [Kernel.Syscall] implements the register ABI on top: arguments are fetched
// from a [Frame] and validated, and the handler result is mapped to the
// integer return value. Mutex calls have no failure result in the ABI; their
// argument errors are dropped in exactly one place, [Result] construction via
// discard.
package sysproc
