package kerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a malformed integer argument or a pointer
	// argument outside the caller's address space.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadAddress indicates a pointer argument that does not reference a
	// correctly sized object.
	ErrBadAddress = fmt.Errorf("bad address: %w", ErrInvalidArgument)

	// ErrInterrupted indicates a wait was aborted because the process was asked
	// to terminate.
	ErrInterrupted = errors.New("interrupted by termination")

	// ErrNoProcess indicates a PID wasn't found in the process table.
	ErrNoProcess = errors.New("no such process")

	// ErrUnknownSyscall indicates an unsupported syscall number.
	ErrUnknownSyscall = errors.New("unknown syscall")

	// ErrParseScenario indicates a scenario file could not be decoded.
	ErrParseScenario = errors.New("parse scenario")

	// ErrInvalidScenario indicates a decoded scenario failed validation.
	ErrInvalidScenario = errors.New("invalid scenario")
)
