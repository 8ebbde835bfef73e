package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RootArgs holds the values of the persistent root flags.
type RootArgs struct {
	LogLevel  string
	LogFormat string
	Profiles  ProfileArgs
}

// ProfileArgs selects the runtime profiles written while a command runs. An
// empty path disables the profile.
type ProfileArgs struct {
	CPU   string
	Heap  string
	Mem   string
	Block string
	Mutex string

	MemRate   int
	BlockRate int
	MutexRate int
}

// AddFlags binds the root flags to a.
func (a *RootArgs) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.LogLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	fs.StringVar(&a.LogFormat, "log_format", "text", "Set the log format (text, logfmt, json)")

	a.Profiles.AddFlags(fs)
}

// AddFlags binds the profiling flags to a.
func (a *ProfileArgs) AddFlags(fs *pflag.FlagSet) {
	paths := []struct {
		dst  *string
		name string
		kind string
	}{
		{&a.CPU, "cpuprofile", "CPU"},
		{&a.Heap, "heapprofile", "heap"},
		{&a.Mem, "memprofile", "memory allocation"},
		{&a.Block, "blockprofile", "block"},
		{&a.Mutex, "mutexprofile", "mutex contention"},
	}

	for _, p := range paths {
		fs.StringVar(p.dst, p.name, "", "Write a "+p.kind+" profile to this file")
		must(cobra.MarkFlagFilename(fs, p.name))
	}

	fs.IntVar(&a.MemRate, "memprofile_rate", 512*1024, "Memory profiling rate as a fraction")
	fs.IntVar(&a.BlockRate, "blockprofile_rate", 1, "Block profiling rate as a fraction")
	fs.IntVar(&a.MutexRate, "mutexprofile_rate", 1, "Mutex profiling rate as a fraction")
}

// Enabled reports whether any profile was requested.
func (a *ProfileArgs) Enabled() bool {
	return a.CPU != "" || a.Heap != "" || a.Mem != "" || a.Block != "" || a.Mutex != ""
}
