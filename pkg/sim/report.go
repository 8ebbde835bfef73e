package sim

// Report summarizes a run.
type Report struct {
	RunID      string          `json:"runID" yaml:"runID"`
	Processes  []ProcessReport `json:"processes" yaml:"processes"`
	Uptime     uint64          `json:"uptime" yaml:"uptime"`
	Violations int             `json:"violations" yaml:"violations"`
}

// ProcessReport is what one process observed.
type ProcessReport struct {
	Group        string `json:"group" yaml:"group"`
	Role         string `json:"role" yaml:"role"`
	PID          int    `json:"pid" yaml:"pid"`
	Acquisitions int    `json:"acquisitions" yaml:"acquisitions"`
	Sleeps       int    `json:"sleeps" yaml:"sleeps"`
	Nice         int    `json:"nice" yaml:"nice"`
	Completed    bool   `json:"completed" yaml:"completed"`
	Interrupted  bool   `json:"interrupted" yaml:"interrupted"`
	Killed       bool   `json:"killed" yaml:"killed"`
}

// Completed returns the number of processes with the given role that ran to
// completion.
func (r *Report) Completed(role string) int {
	n := 0

	for _, p := range r.Processes {
		if p.Role == role && p.Completed {
			n++
		}
	}

	return n
}
