package sysproc

import (
	"fmt"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/kmutex"
	"github.com/MacroPower/kwait/pkg/proc"
)

// Num is a syscall number.
type Num int

// Syscall numbers.
const (
	SysKill     Num = 6
	SysGetpid   Num = 11
	SysSleep    Num = 13
	SysUptime   Num = 14
	SysMacquire Num = 22
	SysMrelease Num = 23
	SysNice     Num = 24
)

// String returns the syscall name, or "syscall(n)" for an unknown number.
func (n Num) String() string {
	switch n {
	case SysKill:
		return "kill"
	case SysGetpid:
		return "getpid"
	case SysSleep:
		return "sleep"
	case SysUptime:
		return "uptime"
	case SysMacquire:
		return "macquire"
	case SysMrelease:
		return "mrelease"
	case SysNice:
		return "nice"
	default:
		return fmt.Sprintf("syscall(%d)", int(n))
	}
}

type handler func(k *Kernel, p *proc.Proc, f Frame) Result

var syscalls = map[Num]handler{
	SysKill:     sysKill,
	SysGetpid:   sysGetpid,
	SysSleep:    sysSleep,
	SysUptime:   sysUptime,
	SysMacquire: sysMacquire,
	SysMrelease: sysMrelease,
	SysNice:     sysNice,
}

// Syscall runs syscall num for p with the arguments in f and returns the
// value for p's return register.
func (k *Kernel) Syscall(p *proc.Proc, num Num, f Frame) int {
	h, ok := syscalls[num]
	if !ok {
		err := fmt.Errorf("%w: %d", kerrors.ErrUnknownSyscall, int(num))
		k.logFailure(num.String(), p, err)

		return Failure
	}

	r := h(k, p, f)
	if r.Err != nil {
		k.logFailure(num.String(), p, r.Err)
	}

	return r.Ret()
}

func sysKill(k *Kernel, _ *proc.Proc, f Frame) Result {
	pid, err := f.Int(0)
	if err != nil {
		return fail(err)
	}

	err = k.Kill(proc.PID(pid))
	if err != nil {
		return fail(err)
	}

	return ok(0)
}

func sysGetpid(_ *Kernel, p *proc.Proc, _ Frame) Result {
	return ok(int(p.PID()))
}

func sysSleep(k *Kernel, p *proc.Proc, f Frame) Result {
	n, err := f.Int(0)
	if err != nil {
		return fail(err)
	}

	err = k.Sleep(p, n)
	if err != nil {
		return fail(err)
	}

	return ok(0)
}

func sysUptime(k *Kernel, _ *proc.Proc, _ Frame) Result {
	return ok(int(k.Uptime()))
}

func sysMacquire(k *Kernel, p *proc.Proc, f Frame) Result {
	ref, err := f.Ptr(p.Space(), 0, kmutex.Size)
	if err != nil {
		return k.discard(SysMacquire.String(), p, err)
	}

	return k.discard(SysMacquire.String(), p, k.MutexAcquire(p, ref))
}

func sysMrelease(k *Kernel, p *proc.Proc, f Frame) Result {
	ref, err := f.Ptr(p.Space(), 0, kmutex.Size)
	if err != nil {
		return k.discard(SysMrelease.String(), p, err)
	}

	return k.discard(SysMrelease.String(), p, k.MutexRelease(p, ref))
}

func sysNice(k *Kernel, p *proc.Proc, f Frame) Result {
	delta, err := f.Int(0)
	if err != nil {
		return fail(err)
	}

	err = k.Nice(p, delta)
	if err != nil {
		return fail(err)
	}

	return ok(0)
}
