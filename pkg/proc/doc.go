// Package proc holds the per-process state that the blocking syscalls read
// and write: the mutex contention table, the held-mutex reference, the sleep
// diagnostic, the termination flag and the nice value.
//
// Process creation, destruction and scheduling live elsewhere; [Table] is only
// a PID registry used to deliver termination requests.
package proc
