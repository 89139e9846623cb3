package personapool

import (
	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/devicelock"
	"github.com/giantswarm/personapool/internal/shell"
)

// Sentinel errors for inspection with errors.Is. The typed errors below
// match them and carry the details.
const (
	// ErrDuplicateSession is returned by Allocate for a persona that already
	// has a session.
	ErrDuplicateSession = core.ErrDuplicateSession

	// ErrUnknownSession is returned by Get and PlatformOf for a persona
	// without a session.
	ErrUnknownSession = core.ErrUnknownSession

	// ErrCapacityExceeded is returned by Allocate when the platform is at
	// its limit.
	ErrCapacityExceeded = core.ErrCapacityExceeded

	// ErrEnvironmentSetup is returned when a browser, chromedriver or the
	// remote hub cannot be prepared, or the hub URL is malformed.
	ErrEnvironmentSetup = core.ErrEnvironmentSetup

	// ErrMissingConfiguration is returned when a required setting, such as
	// the base URL, is absent.
	ErrMissingConfiguration = core.ErrMissingConfiguration

	// ErrExecution is returned by ExecCommand when a command cannot be
	// started or its output cannot be collected.
	ErrExecution = shell.ErrExecution

	// ErrUnsupportedPlatform is returned by Allocate for a platform without
	// a policy.
	ErrUnsupportedPlatform = core.ErrUnsupportedPlatform

	// ErrInvalidPersona is returned by Allocate for an empty persona.
	ErrInvalidPersona = core.ErrInvalidPersona

	// ErrDeviceBusy is returned by Allocate on an attended Android run when
	// another process holds the device lease.
	ErrDeviceBusy = devicelock.ErrDeviceBusy
)

// Typed errors. Use errors.As to read their fields.
type (
	DuplicateSessionError     = core.DuplicateSessionError
	UnknownSessionError       = core.UnknownSessionError
	CapacityExceededError     = core.CapacityExceededError
	EnvironmentSetupError     = core.EnvironmentSetupError
	MissingConfigurationError = core.MissingConfigurationError
	ExecutionError            = shell.ExecutionError
)
