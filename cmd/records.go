package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/personapool"
)

func newRecordsCmd() *cobra.Command {
	var (
		ledgerPath     string
		propertiesFile string
		runID          string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List reporting records stored in a ledger",
		Long:  "Lists reporting records stored in a ledger. Without --ledger the LEDGER_PATH of the run configuration is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ledgerPath == "" {
				cfg, err := personapool.LoadRunConfig(propertiesFile)
				if err != nil {
					return fmt.Errorf("load run config: %w", err)
				}
				ledgerPath = cfg.LedgerPath
			}
			if ledgerPath == "" {
				return errors.New("no ledger: pass --ledger or set LEDGER_PATH")
			}

			ledger, err := personapool.OpenLedger(cmd.Context(), ledgerPath, "")
			if err != nil {
				return err
			}
			defer ledger.Close() //nolint:errcheck // read-only use

			entries, err := ledger.Records(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}
			return writeRecords(cmd, entries, asJSON)
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "Path to the ledger database (default: LEDGER_PATH)")
	cmd.Flags().StringVarP(&propertiesFile, "properties", "p", "", "Run properties file (KEY=value lines)")
	cmd.Flags().StringVar(&runID, "run", "", "Only list records of this run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")

	return cmd
}

func writeRecords(cmd *cobra.Command, entries []personapool.LedgerEntry, asJSON bool) error {
	if asJSON {
		if entries == nil {
			entries = []personapool.LedgerEntry{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no records")
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRUN\tLEVEL\tMESSAGE\tATTACHMENT") //nolint:errcheck // flushed below
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck // flushed below
			e.EmittedAt.Format(time.RFC3339), e.RunID, e.Level, e.Message, e.AttachmentCopy)
	}
	return tw.Flush()
}
