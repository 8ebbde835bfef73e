// Package umem models a user process's address space as seen by syscalls.
//
// The kernel never dereferences a user address without validating it first:
// [Space.Check] verifies that a range lies inside the space, and [Lookup]
// additionally requires a correctly typed and sized object to be mapped at
// the address. Objects are placed by user code with [Space.Map] or
// [Space.Alloc]; the kernel only looks them up.
package umem
