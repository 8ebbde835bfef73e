package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MacroPower/kwait/pkg/log"
)

var (
	ErrLogHandlerFailed = errors.New("log handler failed")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrProfileFailed    = errors.New("profile failed")
)

func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	args := &RootArgs{}
	prof := &profiler{args: &args.Profiles}

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
	}

	args.AddFlags(cmd.PersistentFlags())

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		h, err := log.CreateHandlerWithStrings(
			cc.ErrOrStderr(),
			args.LogLevel,
			args.LogFormat,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
		}

		slog.SetDefault(slog.New(h))

		err = prof.start()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProfileFailed, err)
		}

		slog.Debug("ready to go", slog.String("version", GetVersionString()))

		return nil
	}

	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		slog.Debug("shutting down")

		err := prof.stop()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProfileFailed, err)
		}

		return nil
	}

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
