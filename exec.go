package personapool

import (
	"context"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/ledger"
	"github.com/giantswarm/personapool/internal/runconfig"
	"github.com/giantswarm/personapool/internal/shell"
)

type (
	// CommandResult is the outcome of ExecCommand.
	CommandResult = shell.Result
	// RunConfig is a loaded run configuration.
	RunConfig = runconfig.Config
	// Ledger is a SQLite-backed Sink.
	Ledger = ledger.Ledger
	// LedgerEntry is a record stored in a Ledger.
	LedgerEntry = ledger.Entry
)

// ExecCommand runs argv through the host shell with DefaultCommandTimeout.
// A command that exits non-zero or is killed on timeout is not an error;
// see CommandResult.ExitCode.
func ExecCommand(ctx context.Context, argv ...string) (CommandResult, error) {
	return shell.NewRunner(core.Logger()).Run(ctx, argv)
}

// LoadRunConfig reads the run properties file (optional, may be empty) and
// the environment.
func LoadRunConfig(propertiesFile string) (*RunConfig, error) {
	return runconfig.Load(propertiesFile)
}

// OpenLedger opens the reporting ledger at path. An empty runID gets a
// random one.
func OpenLedger(ctx context.Context, path, runID string) (*Ledger, error) {
	return ledger.Open(ctx, path, ledger.Options{RunID: runID, Logger: core.Logger()})
}
