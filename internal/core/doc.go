// Package core provides the internal implementation of personapool.
// It contains the Pool (per-platform bounded registry of sessions keyed by
// persona, with best-effort teardown), the Handle that binds a session to a
// persona, the Policy interface platform implementations satisfy, and the
// error taxonomy and package logger shared by the other internal packages.
package core
