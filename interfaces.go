package personapool

import (
	"context"
)

// Pool tracks the automation sessions of one test run, keyed by persona.
//
// Allocate → Get/PlatformOf (repeatable) → TeardownAll
//
// TeardownAll may be called at any point, also on an empty pool, and leaves
// the pool empty and ready for new allocations.
type Pool interface {
	// Allocate creates a session for persona on platform.
	//
	// Returns an error matching ErrInvalidPersona for an empty persona,
	// ErrDuplicateSession if persona already has a session,
	// ErrUnsupportedPlatform if no policy serves platform, and
	// ErrCapacityExceeded if platform is at its limit. Failures of the
	// platform policy are returned wrapped; pool state is unchanged on any
	// error.
	Allocate(ctx context.Context, persona string, platform Platform) (Handle, error)

	// Get returns the session of persona and makes it the current one.
	// Returns an error matching ErrUnknownSession if there is none.
	Get(persona string) (Handle, error)

	// PlatformOf returns the platform of persona's session.
	// Returns an error matching ErrUnknownSession if there is none.
	PlatformOf(persona string) (Platform, error)

	// Current returns the persona most recently bound by Allocate or Get.
	Current() (persona string, h Handle, ok bool)

	// Personas lists the personas with a live session in allocation order.
	Personas() []string

	// Count returns the number of live sessions on platform.
	Count(platform Platform) int

	// Capacity returns the concurrent session limit of platform, 0 for a
	// platform no policy serves.
	Capacity(platform Platform) int

	// TeardownAll closes every session, best effort. Every step runs even
	// when earlier steps or personas fail; the failures are logged and
	// returned joined. The error is informational: the pool is empty
	// afterwards either way.
	TeardownAll(ctx context.Context) error
}

// Handle is one persona's session.
type Handle interface {
	// ID is unique per allocation.
	ID() string
	// Name is "<test name>-<persona>".
	Name() string
	Persona() string
	Platform() Platform
	// Session is the automation session; type-assert to Browser or
	// MobileDriver. It is nil once the pool has torn the session down.
	Session() Session
	// LogPath is the browser log of web sessions, empty otherwise.
	LogPath() string
	Closed() bool
}
