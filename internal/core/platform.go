package core

import (
	"fmt"
	"strings"
)

// Platform is the kind of automation target a session runs against. It picks
// both the capacity class and the Policy used to create and close sessions.
// New platforms are added by registering a Policy for a new value; the pool
// itself does not switch on Platform.
type Platform string

const (
	// PlatformAndroid is a native app session on an Android device.
	PlatformAndroid Platform = "android"
	// PlatformWeb is a Chrome browser session.
	PlatformWeb Platform = "web"
)

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether p is a usable platform name: non-empty, lower case
// and free of whitespace.
func (p Platform) IsValid() bool {
	s := string(p)
	return s != "" && s == strings.ToLower(s) && !strings.ContainsAny(s, " \t\r\n")
}

// ParsePlatform normalizes s (trimmed, lower-cased) into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
	return p, nil
}

// ExecutionMode tells policies whether the run is attended (local devices and
// browsers the pool manages itself) or unattended (cloud/CI infrastructure
// that owns device and browser shutdown).
type ExecutionMode int

const (
	// ModeAttended runs against local devices and browser processes.
	ModeAttended ExecutionMode = iota
	// ModeUnattended runs on remote infrastructure.
	ModeUnattended
)

// String returns the mode name.
func (m ExecutionMode) String() string {
	switch m {
	case ModeAttended:
		return "attended"
	case ModeUnattended:
		return "unattended"
	default:
		return fmt.Sprintf("ExecutionMode(%d)", int(m))
	}
}

// AppState is the application state reported by a mobile automation driver.
// The numeric values follow the Appium queryAppState contract.
type AppState int

const (
	AppNotInstalled AppState = iota
	AppNotRunning
	AppRunningInBackgroundSuspended
	AppRunningInBackground
	AppRunningInForeground
)

// String returns the Appium-style state name.
func (s AppState) String() string {
	switch s {
	case AppNotInstalled:
		return "NOT_INSTALLED"
	case AppNotRunning:
		return "NOT_RUNNING"
	case AppRunningInBackgroundSuspended:
		return "RUNNING_IN_BACKGROUND_SUSPENDED"
	case AppRunningInBackground:
		return "RUNNING_IN_BACKGROUND"
	case AppRunningInForeground:
		return "RUNNING_IN_FOREGROUND"
	default:
		return fmt.Sprintf("AppState(%d)", int(s))
	}
}
