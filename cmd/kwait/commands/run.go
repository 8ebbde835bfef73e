package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MacroPower/kwait/pkg/sim"
)

const (
	runDesc = `Run a scenario of simulated processes and print what each one observed.

Without --file, a built-in scenario of four processes sharing one mutex is run.
`
	runExample = `  # Run the built-in scenario
  kwait run

  # Run a scenario file and print the report as JSON
  kwait run -f scenario.yaml -o json
`
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var ErrViolations = errors.New("mutual exclusion violated")

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("211"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewRunCmd returns the run command.
func NewRunCmd() *cobra.Command {
	args := &RunArgs{}

	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Run a workload scenario",
		Long:         runDesc,
		Example:      runExample,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			sc := sim.DefaultScenario()

			if path := args.File; path != "" {
				var err error

				sc, err = sim.LoadFile(path)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
				}
			}

			report, err := sim.Run(cc.Context(), sc, sim.WithLogger(slog.Default()))
			if err != nil {
				return fmt.Errorf("failed to run scenario: %w", err)
			}

			err = writeReport(cc.OutOrStdout(), report, args.Output)
			if err != nil {
				return err
			}

			if report.Violations > 0 {
				return fmt.Errorf("%w: %d times", ErrViolations, report.Violations)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&args.File, "file", "f", "", "Scenario file path")
	must(cmd.MarkFlagFilename("file", "yaml", "yml"))

	cmd.Flags().StringVarP(&args.Output, "output", "o", OutputText, "Output format (text, json, yaml)")

	return cmd
}

// RunArgs holds the run command flags.
type RunArgs struct {
	File   string
	Output string
}

func writeReport(w io.Writer, report *sim.Report, format string) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case OutputText:
		_, err := fmt.Fprintln(w, renderReport(report, isTerminal(w)))
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidArgument, format)
	}

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func renderReport(report *sim.Report, styled bool) string {
	rows := make([][]string, 0, len(report.Processes))
	for _, p := range report.Processes {
		rows = append(rows, []string{
			strconv.Itoa(p.PID),
			p.Group,
			p.Role,
			strconv.Itoa(p.Acquisitions),
			strconv.Itoa(p.Sleeps),
			strconv.Itoa(p.Nice),
			yesNo(p.Completed),
			yesNo(p.Interrupted),
			yesNo(p.Killed),
		})
	}

	t := table.New().
		Headers("PID", "GROUP", "ROLE", "ACQUIRED", "SLEEPS", "NICE", "DONE", "INTERRUPTED", "KILLED").
		Rows(rows...)

	if styled {
		t = t.Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}

				return cellStyle
			})
	} else {
		t = t.Border(lipgloss.HiddenBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle })
	}

	violations := fmt.Sprintf("violations: %d", report.Violations)
	if styled {
		if report.Violations == 0 {
			violations = okStyle.Render(violations)
		} else {
			violations = badStyle.Render(violations)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("run %s: %d ticks", report.RunID, report.Uptime),
		violations,
		t.String(),
	)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
