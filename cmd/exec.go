package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/giantswarm/personapool"
)

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- COMMAND [ARG...]",
		Short: "Run a command through the session pool's command runner",
		Long:  "Runs COMMAND through the host shell with the runner's timeout, then prints its output. A non-zero exit code is reported as an error.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := personapool.ExecCommand(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if err := printTrimmed(cmd.OutOrStdout(), res.Stdout); err != nil {
				return err
			}
			if err := printTrimmed(cmd.ErrOrStderr(), res.Stderr); err != nil {
				return err
			}
			if res.ExitCode != 0 {
				return fmt.Errorf("command exited with code %d", res.ExitCode)
			}
			return nil
		},
	}
}

// printTrimmed restores the trailing newline the runner strips.
func printTrimmed(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, s)
	return err
}
