package sysproc

// Failure is the return value of a failed syscall.
const Failure = -1

// Result is the outcome of a syscall handler.
type Result struct {
	Err   error
	Value int
}

func ok(v int) Result { return Result{Value: v} }

func fail(err error) Result { return Result{Value: Failure, Err: err} }

// Ret returns the value placed in the caller's return register.
func (r Result) Ret() int {
	if r.Err != nil {
		return Failure
	}

	return r.Value
}
