package core

import (
	"context"
	"time"
)

// RunContext carries what a test run supplies to the pool and its policies.
// It is owned by the caller and read, never modified, by the pool.
type RunContext struct {
	// TestName prefixes handle names ("<TestName>-<persona>").
	TestName string
	// ScenarioLogDir is the directory for per-scenario artifacts. Browser
	// logs go to <ScenarioLogDir>/deviceLogs/chrome-<persona>.log.
	ScenarioLogDir string
	// Mode selects attended (local) or unattended (cloud) behavior.
	Mode ExecutionMode
	// MobileDriver is the pre-established mobile session, if any.
	MobileDriver MobileDriver
	// DeviceSerial identifies the target Android device for adb.
	DeviceSerial string
	// AppPackageName is the package of the app under test.
	AppPackageName string
	// BaseURL is the start page for web sessions.
	BaseURL string
	// Sink receives report records. nil means records are only logged.
	Sink Sink
	// Now returns the timestamp for emitted records. nil means time.Now.
	Now func() time.Time
}

// Unattended reports whether the run executes on remote infrastructure.
func (rc *RunContext) Unattended() bool {
	return rc.Mode == ModeUnattended
}

// Emit stamps r with the current time, when unset, and forwards it to the
// configured sink (or a LogSink).
func (rc *RunContext) Emit(ctx context.Context, r Record) error {
	if r.Time.IsZero() {
		now := time.Now
		if rc.Now != nil {
			now = rc.Now
		}
		r.Time = now()
	}
	if r.Level == "" {
		r.Level = LevelInfo
	}
	sink := rc.Sink
	if sink == nil {
		sink = LogSink{}
	}
	return sink.Emit(ctx, r)
}
