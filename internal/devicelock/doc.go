// Package devicelock gives one process at a time exclusive use of an
// attended Android device. The lease is an advisory file lock named after
// the device serial, so parallel test binaries on the same workstation queue
// up instead of fighting over adb.
package devicelock
