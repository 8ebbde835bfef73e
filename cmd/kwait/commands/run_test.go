package commands_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MacroPower/kwait/cmd/kwait/commands"
	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/sim"
)

var testDataDir string

func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	testDataDir = filepath.Join(dir, "testdata")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := commands.NewRootCmd("test_run", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestRunCmdJSON(t *testing.T) {
	stdout, stderr, err := execute(t, "run", "-f", filepath.Join(testDataDir, "small.yaml"), "-o", "json")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var report sim.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Zero(t, report.Violations)
	require.Len(t, report.Processes, 2)

	for _, p := range report.Processes {
		assert.Equal(t, 3, p.Acquisitions)
		assert.Equal(t, -20, p.Nice)
		assert.True(t, p.Completed)
	}
}

func TestRunCmdYAML(t *testing.T) {
	stdout, _, err := execute(t, "run", "-f", filepath.Join(testDataDir, "small.yaml"), "-o", "yaml")
	require.NoError(t, err)

	var report sim.Report
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Processes, 2)
}

func TestRunCmdText(t *testing.T) {
	stdout, _, err := execute(t, "run")
	require.NoError(t, err)

	assert.Contains(t, stdout, "violations: 0")
	assert.Contains(t, stdout, "ACQUIRED")
	assert.Contains(t, stdout, "worker")
}

func TestRunCmdErrors(t *testing.T) {
	tcs := map[string]struct {
		wantErr error
		args    []string
	}{
		"invalid scenario": {
			args:    []string{"run", "-f", filepath.Join(testDataDir, "bad.yaml")},
			wantErr: kerrors.ErrInvalidScenario,
		},
		"missing scenario": {
			args:    []string{"run", "-f", filepath.Join(testDataDir, "missing.yaml")},
			wantErr: commands.ErrInvalidArgument,
		},
		"unknown output": {
			args:    []string{"run", "-o", "xml"},
			wantErr: commands.ErrInvalidArgument,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSchemaCmd(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "kwait scenario", doc["title"])
}
