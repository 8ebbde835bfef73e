// Package kerrors provides error definitions for kernel syscalls and the
// tooling built on them.
//
// This package defines standardized sentinel errors so that failures can be
// wrapped with context and still be matched with [errors.Is].
package kerrors
