package commands

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/hashicorp/go-multierror"
)

type namedProfile struct {
	profile *pprof.Profile
	path    string
}

// profiler starts the runtime profiles requested by the root flags and
// writes them out when the command finishes.
type profiler struct {
	args     *ProfileArgs
	cpuFile  *os.File
	profiles []namedProfile
}

func (p *profiler) start() error {
	if !p.args.Enabled() {
		return nil
	}

	if path := p.args.CPU; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}

		err = pprof.StartCPUProfile(f)
		if err != nil {
			must(f.Close())

			return fmt.Errorf("failed to start CPU profile: %w", err)
		}

		p.cpuFile = f
	}

	if p.args.Heap != "" || p.args.Mem != "" {
		runtime.MemProfileRate = p.args.MemRate
	}

	if p.args.Block != "" {
		runtime.SetBlockProfileRate(p.args.BlockRate)
	}

	if p.args.Mutex != "" {
		runtime.SetMutexProfileFraction(p.args.MutexRate)
	}

	for name, path := range map[string]string{
		"heap":   p.args.Heap,
		"allocs": p.args.Mem,
		"block":  p.args.Block,
		"mutex":  p.args.Mutex,
	} {
		if path != "" {
			p.profiles = append(p.profiles, namedProfile{profile: pprof.Lookup(name), path: path})
		}
	}

	return nil
}

func (p *profiler) stop() error {
	var merr error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("failed to close CPU profile: %w", err))
		}

		p.cpuFile = nil
	}

	if len(p.profiles) > 0 {
		runtime.GC() //nolint:revive // Get up-to-date statistics for the profile.
	}

	for _, np := range p.profiles {
		err := writeProfile(np)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	p.profiles = nil

	return merr
}

func writeProfile(np namedProfile) error {
	f, err := os.Create(np.path)
	if err != nil {
		return fmt.Errorf("failed to create %s profile: %w", np.profile.Name(), err)
	}

	err = np.profile.WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("failed to write %s profile: %w", np.profile.Name(), err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s profile: %w", np.profile.Name(), err)
	}

	return nil
}
