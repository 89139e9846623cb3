package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/personapool"
)

func newConfigCmd() *cobra.Command {
	var (
		propertiesFile string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved run configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := personapool.LoadRunConfig(propertiesFile)
			if err != nil {
				return fmt.Errorf("load run config: %w", err)
			}

			if asJSON {
				values := make(map[string]string)
				for _, kv := range cfg.Values() {
					values[kv[0]] = kv[1]
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(values)
			}

			for _, kv := range cfg.Values() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", kv[0], kv[1]); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "# mode: %s\n", cfg.Mode())
			return err
		},
	}

	cmd.Flags().StringVarP(&propertiesFile, "properties", "p", "", "Run properties file (KEY=value lines)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print values as JSON")

	return cmd
}
