package personapool

import (
	"context"
	"errors"
	"fmt"

	"github.com/giantswarm/personapool/internal/policy/android"
	"github.com/giantswarm/personapool/internal/policy/web"
)

// Run is a Pool wired from a RunConfig together with the collaborators the
// configuration asks for.
type Run struct {
	// Pool serves the scenario's personas.
	Pool Pool
	// Context is the RunContext Pool is bound to.
	Context *RunContext
	// Ledger stores the run's report records. nil without LEDGER_PATH.
	Ledger *Ledger

	driver MobileDriver
}

// ConfigPoolOptions returns the options that build the Android and web
// policies from cfg: DEVICE_LOCK_DIR enables device leases and
// REMOTE_WEBDRIVER_URL overrides the Selenium hub.
func ConfigPoolOptions(cfg *RunConfig) []PoolOption {
	return []PoolOption{
		WithPolicies(android.New(cfg.AndroidPolicyConfig()), web.New(cfg.WebPolicyConfig())),
	}
}

// OpenRun prepares one scenario from cfg. With LEDGER_PATH set, reports go
// to a Ledger; otherwise they are only logged. Android runs connect to the
// Appium server at APPIUM_URL for DEVICE_SERIAL. opts are applied after
// ConfigPoolOptions.
//
// The caller must Close the Run.
func OpenRun(ctx context.Context, cfg *RunConfig, testName string, opts ...PoolOption) (*Run, error) {
	r := &Run{}

	var sink Sink = LogSink{}
	if cfg.LedgerPath != "" {
		l, err := OpenLedger(ctx, cfg.LedgerPath, "")
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		r.Ledger = l
		sink = l
	}

	if cfg.Platform == PlatformAndroid {
		d, err := ConnectAppium(ctx, cfg.AppiumURL, cfg.DeviceSerial, cfg.AppPackageName)
		if err != nil {
			r.closeLedger()
			return nil, fmt.Errorf("connect appium: %w", err)
		}
		r.driver = d
	}

	r.Context = cfg.RunContext(testName, sink, r.driver)
	r.Pool = NewPool(r.Context, append(ConfigPoolOptions(cfg), opts...)...)
	return r, nil
}

// Close tears down every session, then ends the Appium session and closes
// the ledger. All failures are joined.
func (r *Run) Close(ctx context.Context) error {
	var errs []error
	if err := r.Pool.TeardownAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if q, ok := r.driver.(interface{ Quit() error }); ok {
		if err := q.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("quit appium session: %w", err))
		}
	}
	if r.Ledger != nil {
		if err := r.Ledger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Run) closeLedger() {
	if r.Ledger != nil {
		_ = r.Ledger.Close()
	}
}
