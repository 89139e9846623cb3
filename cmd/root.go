// Package cmd implements the personapool operator CLI.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/giantswarm/personapool"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "personapool",
		Short:         "Inspect and exercise persona session pool infrastructure",
		Long:          "personapool runs commands through the session pool's command runner, shows the resolved run configuration and lists reporting records stored in a ledger.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			personapool.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newExecCmd(),
		newConfigCmd(),
		newRecordsCmd(),
	)

	return rootCmd
}
