package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/MacroPower/kwait/pkg/kerrors"
)

const (
	maxTickHz    = 100_000
	maxMutexes   = 1024
	maxProcesses = 4096
)

// Scenario describes a simulated workload.
type Scenario struct {
	// Tick rate of the clock, in ticks per second.
	TickHz int `json:"tickHz" yaml:"tickHz" jsonschema:"minimum=1,maximum=100000,default=1000"`
	// Number of processes that may run a compute burst at the same time.
	CPUs int `json:"cpus" yaml:"cpus" jsonschema:"minimum=1,default=2"`
	// Number of mutexes mapped into the shared address space.
	Mutexes int `json:"mutexes" yaml:"mutexes" jsonschema:"minimum=1,default=1"`
	// Process groups to start.
	Processes []ProcessGroup `json:"processes" yaml:"processes" jsonschema:"minItems=1"`
}

// ProcessGroup describes Count identical processes.
type ProcessGroup struct {
	// Name used in reports and logs.
	Name string `json:"name" yaml:"name"`
	// Number of processes in the group.
	Count int `json:"count" yaml:"count" jsonschema:"minimum=1"`
	// Number of lock/sleep cycles each process runs.
	Iterations int `json:"iterations" yaml:"iterations" jsonschema:"minimum=1"`
	// Index of the mutex the group contends for.
	Mutex int `json:"mutex,omitempty" yaml:"mutex,omitempty" jsonschema:"minimum=0"`
	// Ticks to sleep while holding the mutex.
	HoldTicks int `json:"holdTicks,omitempty" yaml:"holdTicks,omitempty" jsonschema:"minimum=0"`
	// Ticks to sleep after releasing the mutex.
	SleepTicks int `json:"sleepTicks,omitempty" yaml:"sleepTicks,omitempty" jsonschema:"minimum=0"`
	// Delta passed to nice before the first iteration.
	Nice int `json:"nice,omitempty" yaml:"nice,omitempty"`
	// Kill each process of the group once this many ticks have elapsed. 0
	// disables.
	KillAfterTicks int `json:"killAfterTicks,omitempty" yaml:"killAfterTicks,omitempty" jsonschema:"minimum=0"`
}

// DefaultScenario returns a small workload of four processes sharing one
// mutex.
func DefaultScenario() *Scenario {
	return &Scenario{
		TickHz:  1000,
		CPUs:    2,
		Mutexes: 1,
		Processes: []ProcessGroup{
			{
				Name:       "worker",
				Count:      4,
				Iterations: 10,
				HoldTicks:  1,
				SleepTicks: 1,
			},
		},
	}
}

// Load decodes and validates a YAML scenario.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	sc := &Scenario{}

	err := dec.Decode(sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrParseScenario, err)
	}

	err = sc.Validate()
	if err != nil {
		return nil, err
	}

	return sc, nil
}

// LoadFile reads a scenario from a YAML file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrParseScenario, err)
	}
	defer f.Close() //nolint:errcheck // read only.

	return Load(f)
}

// Validate reports every problem with the scenario.
func (s *Scenario) Validate() error {
	var merr error

	if s.TickHz <= 0 || s.TickHz > maxTickHz {
		merr = multierror.Append(merr, fmt.Errorf("tickHz must be in [1, %d], got %d", maxTickHz, s.TickHz))
	}

	if s.CPUs <= 0 {
		merr = multierror.Append(merr, fmt.Errorf("cpus must be positive, got %d", s.CPUs))
	}

	if s.Mutexes <= 0 || s.Mutexes > maxMutexes {
		merr = multierror.Append(merr, fmt.Errorf("mutexes must be in [1, %d], got %d", maxMutexes, s.Mutexes))
	}

	if len(s.Processes) == 0 {
		merr = multierror.Append(merr, errors.New("at least one process group is required"))
	}

	total := 0

	for i, pg := range s.Processes {
		for _, err := range pg.validate(s.Mutexes) {
			merr = multierror.Append(merr, fmt.Errorf("processes[%d] %q: %w", i, pg.Name, err))
		}

		total += pg.Count
		if pg.KillAfterTicks > 0 {
			total += pg.Count
		}
	}

	if total > maxProcesses {
		merr = multierror.Append(merr, fmt.Errorf("at most %d processes are supported, got %d", maxProcesses, total))
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrInvalidScenario, merr)
	}

	return nil
}

func (pg ProcessGroup) validate(mutexes int) []error {
	var errs []error

	if pg.Count <= 0 {
		errs = append(errs, fmt.Errorf("count must be positive, got %d", pg.Count))
	}

	if pg.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", pg.Iterations))
	}

	if pg.Mutex < 0 || pg.Mutex >= mutexes {
		errs = append(errs, fmt.Errorf("mutex index %d out of range", pg.Mutex))
	}

	ticks := []struct {
		name  string
		value int
	}{
		{"holdTicks", pg.HoldTicks},
		{"sleepTicks", pg.SleepTicks},
		{"killAfterTicks", pg.KillAfterTicks},
	}

	for _, tc := range ticks {
		if tc.value < 0 || tc.value > math.MaxInt32 {
			errs = append(errs, fmt.Errorf("%s must be in [0, %d], got %d", tc.name, math.MaxInt32, tc.value))
		}
	}

	if pg.Nice < math.MinInt32 || pg.Nice > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("nice must fit in 32 bits, got %d", pg.Nice))
	}

	return errs
}
