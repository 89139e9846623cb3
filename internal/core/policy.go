package core

import "context"

// Policy is the platform-specific half of session management. The pool checks
// identity and capacity, then delegates construction and shutdown to the
// Policy registered for the requested platform.
type Policy interface {
	// Platform is the platform this policy serves.
	Platform() Platform

	// Capacity is the maximum number of concurrent sessions for Platform.
	Capacity() int

	// Create constructs and configures a session for persona.
	Create(ctx context.Context, persona string, rc *RunContext) (Provisioned, error)

	// Close finalizes and closes h's session. It is called exactly once per
	// handle. A nil h.Session() must be tolerated.
	Close(ctx context.Context, h *Handle, rc *RunContext) error
}

// Provisioned is what a Policy hands back from Create.
type Provisioned struct {
	Session Session
	// LogPath is the session's log file, if the platform keeps one.
	LogPath string
}
