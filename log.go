package personapool

import (
	"log/slog"

	"github.com/giantswarm/personapool/internal/core"
)

// SetLogger replaces the package-level logger. The logger is used as given;
// no attributes are added.
//
// A nil l restores the default, slog.Default() with a "component"
// attribute, re-derived on next use. Call SetLogger(nil) after
// slog.SetDefault to pick the change up.
//
// SetLogger is safe for concurrent use, but pools and policies built before
// the call may keep loggers derived from the previous one. Call it in
// TestMain before m.Run.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
