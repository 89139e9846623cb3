package personapool

import (
	"context"

	"github.com/giantswarm/personapool/internal/core"
)

// Public names for the types pools, policies and callers exchange.
type (
	// Platform selects the kind of automation session.
	Platform = core.Platform
	// ExecutionMode selects attended (local) or unattended (cloud) behavior.
	ExecutionMode = core.ExecutionMode
	// AppState is a mobile app state as reported by Appium.
	AppState = core.AppState
	// RunContext carries what a test run supplies to the pool.
	RunContext = core.RunContext
	// Session, Browser and MobileDriver are the automation session
	// capabilities.
	Session      = core.Session
	Browser      = core.Browser
	MobileDriver = core.MobileDriver
	// VisualValidator finalizes visual validation of a persona on teardown.
	VisualValidator = core.VisualValidator
	// ConnReleaser drops idle network connections on teardown.
	ConnReleaser = core.ConnReleaser
	// Policy creates and closes the sessions of one platform.
	Policy = core.Policy
	// PolicyHandle is the concrete handle a Policy is asked to close. It
	// implements Handle.
	PolicyHandle = core.Handle
	// Provisioned is what a Policy returns from Create.
	Provisioned = core.Provisioned
	// Record and Sink make up the reporting interface.
	Record = core.Record
	Sink   = core.Sink
	Level  = core.Level
	// LogSink reports through the package logger only.
	LogSink = core.LogSink
)

// Platforms, modes, app states and record levels.
const (
	PlatformAndroid = core.PlatformAndroid
	PlatformWeb     = core.PlatformWeb

	ModeAttended   = core.ModeAttended
	ModeUnattended = core.ModeUnattended

	AppNotInstalled                 = core.AppNotInstalled
	AppNotRunning                   = core.AppNotRunning
	AppRunningInBackgroundSuspended = core.AppRunningInBackgroundSuspended
	AppRunningInBackground          = core.AppRunningInBackground
	AppRunningInForeground          = core.AppRunningInForeground

	LevelDebug = core.LevelDebug
	LevelInfo  = core.LevelInfo
	LevelWarn  = core.LevelWarn
	LevelError = core.LevelError
)

// ParsePlatform normalizes a platform name such as "Android" or " web ".
func ParsePlatform(s string) (Platform, error) {
	return core.ParsePlatform(s)
}

var (
	_ Pool   = (*poolWrapper)(nil)
	_ Handle = (*PolicyHandle)(nil)
)

// poolWrapper hides *core.Pool behind the Pool interface so callers cannot
// reach internal methods through a type assertion.
type poolWrapper struct {
	pool *core.Pool
}

// NewPool returns an empty Pool bound to rc. Without WithPolicies it serves
// Android and Web with their default policies.
//
// Panics if rc is nil or the options conflict, e.g. a capacity for a
// platform no policy serves.
//
//nolint:ireturn // Returns Pool interface for testability.
func NewPool(rc *RunContext, opts ...PoolOption) Pool {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &poolWrapper{pool: core.NewPool(rc, cfg.toCore())}
}

//nolint:ireturn // Handle interface by design.
func (w *poolWrapper) Allocate(ctx context.Context, persona string, platform Platform) (Handle, error) {
	h, err := w.pool.Allocate(ctx, persona, platform)
	if err != nil {
		return nil, err
	}
	return h, nil
}

//nolint:ireturn // Handle interface by design.
func (w *poolWrapper) Get(persona string) (Handle, error) {
	h, err := w.pool.Get(persona)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (w *poolWrapper) PlatformOf(persona string) (Platform, error) {
	return w.pool.PlatformOf(persona)
}

func (w *poolWrapper) Current() (string, Handle, bool) {
	persona, h, ok := w.pool.Current()
	if !ok {
		return "", nil, false
	}
	return persona, h, true
}

func (w *poolWrapper) Personas() []string {
	return w.pool.Personas()
}

func (w *poolWrapper) Count(platform Platform) int {
	return w.pool.Count(platform)
}

func (w *poolWrapper) Capacity(platform Platform) int {
	return w.pool.Capacity(platform)
}

func (w *poolWrapper) TeardownAll(ctx context.Context) error {
	return w.pool.TeardownAll(ctx)
}
