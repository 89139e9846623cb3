// Package shell runs host commands (adb, device tooling) through the
// platform shell with a hard timeout and captures their output.
package shell
