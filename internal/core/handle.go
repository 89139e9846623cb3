package core

import (
	"log/slog"

	"github.com/google/uuid"
)

// Handle binds a persona to exactly one live automation session. Handles are
// only created by Pool.Allocate and only closed by Pool.TeardownAll; the
// session reference is cleared once the policy has closed it.
type Handle struct {
	id       string
	name     string
	persona  string
	platform Platform
	session  Session
	logPath  string
	visual   VisualValidator
	log      *slog.Logger
}

func newHandle(persona, testName string, platform Platform, p Provisioned, visual VisualValidator) *Handle {
	id := uuid.NewString()
	name := persona
	if testName != "" {
		name = testName + "-" + persona
	}
	return &Handle{
		id:       id,
		name:     name,
		persona:  persona,
		platform: platform,
		session:  p.Session,
		logPath:  p.LogPath,
		visual:   visual,
		log:      Logger().With("persona", persona, "platform", string(platform), "handle", id),
	}
}

// ID returns a unique identifier for this handle.
func (h *Handle) ID() string { return h.id }

// Name returns the display name, "<test name>-<persona>".
func (h *Handle) Name() string { return h.name }

// Persona returns the persona the handle belongs to.
func (h *Handle) Persona() string { return h.persona }

// Platform returns the platform the session runs on.
func (h *Handle) Platform() Platform { return h.platform }

// Session returns the underlying automation session, or nil once closed.
func (h *Handle) Session() Session { return h.session }

// LogPath returns the browser log file path. Empty for non-web sessions.
func (h *Handle) LogPath() string { return h.logPath }

// Closed reports whether the session has been torn down.
func (h *Handle) Closed() bool { return h.session == nil }

// Logger returns a logger scoped to this handle.
func (h *Handle) Logger() *slog.Logger { return h.log }

func (h *Handle) detach() {
	h.session = nil
}
