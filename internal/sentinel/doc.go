// Package sentinel defines the string-backed error type used for every
// sentinel error in personapool. Because Error is a plain string type, the
// sentinels can be declared as constants and compared with errors.Is through
// any number of %w wraps.
package sentinel
