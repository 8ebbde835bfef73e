// Package sim runs workloads of simulated user processes against a kernel.
//
// A [Scenario] describes groups of processes contending for mutexes and
// sleeping on the tick clock. [Run] starts one goroutine per process, drives
// the clock in real time, and reports what each process observed. Processes
// interact with the kernel only through [sysproc.Kernel.Syscall], the same
// way a user program would.
package sim
