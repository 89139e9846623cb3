package core

import (
	"fmt"
	"strings"

	"github.com/giantswarm/personapool/internal/sentinel"
)

// Sentinel errors. Every typed error below matches exactly one of these
// through errors.Is, so callers can branch on the kind without a type switch.
const (
	// ErrDuplicateSession is returned by Allocate when the persona already
	// owns a live session.
	ErrDuplicateSession = sentinel.Error("session already exists for persona")

	// ErrUnknownSession is returned by Get and PlatformOf for a persona that
	// was never allocated (or was already torn down).
	ErrUnknownSession = sentinel.Error("no session for persona")

	// ErrCapacityExceeded is returned by Allocate when the platform is at its
	// concurrent session limit.
	ErrCapacityExceeded = sentinel.Error("platform session capacity exceeded")

	// ErrEnvironmentSetup is returned when the automation endpoint or the
	// local environment cannot be prepared.
	ErrEnvironmentSetup = sentinel.Error("environment setup failed")

	// ErrMissingConfiguration is returned when a required run configuration
	// value is absent.
	ErrMissingConfiguration = sentinel.Error("missing configuration")

	// ErrUnsupportedPlatform is returned by Allocate for a platform that has
	// no registered policy.
	ErrUnsupportedPlatform = sentinel.Error("unsupported platform")

	// ErrInvalidPersona is returned by Allocate for an empty persona name.
	ErrInvalidPersona = sentinel.Error("persona must not be empty")
)

// DuplicateSessionError reports an Allocate call for a persona that already
// has a live session. The existing session is left untouched.
type DuplicateSessionError struct {
	Persona string
	Known   []string
}

func (e *DuplicateSessionError) Error() string {
	return fmt.Sprintf("%s: %q (known personas: %s)", ErrDuplicateSession, e.Persona, quoteList(e.Known))
}

// Is matches ErrDuplicateSession.
func (e *DuplicateSessionError) Is(target error) bool {
	return target == ErrDuplicateSession
}

// UnknownSessionError reports a lookup for a persona that has no session.
// Known holds the personas that did have sessions at the time of the call.
type UnknownSessionError struct {
	Persona string
	Known   []string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("%s: %q (known personas: %s)", ErrUnknownSession, e.Persona, quoteList(e.Known))
}

// Is matches ErrUnknownSession.
func (e *UnknownSessionError) Is(target error) bool {
	return target == ErrUnknownSession
}

// CapacityExceededError reports that one more session of Platform would
// exceed Limit.
type CapacityExceededError struct {
	Persona  string
	Platform Platform
	Limit    int
	InUse    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: cannot create session for persona %q on %s: %d of %d in use",
		ErrCapacityExceeded, e.Persona, e.Platform, e.InUse, e.Limit)
}

// Is matches ErrCapacityExceeded.
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// EnvironmentSetupError reports a malformed endpoint or an environment that
// could not be prepared. Err is the underlying cause, if any.
type EnvironmentSetupError struct {
	Reason string
	Err    error
}

func (e *EnvironmentSetupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrEnvironmentSetup, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrEnvironmentSetup, e.Reason, e.Err)
}

// Is matches ErrEnvironmentSetup.
func (e *EnvironmentSetupError) Is(target error) bool {
	return target == ErrEnvironmentSetup
}

func (e *EnvironmentSetupError) Unwrap() error {
	return e.Err
}

// MissingConfigurationError names the configuration value that was required
// but absent.
type MissingConfigurationError struct {
	Key string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s not provided", ErrMissingConfiguration, e.Key)
}

// Is matches ErrMissingConfiguration.
func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

func quoteList(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
