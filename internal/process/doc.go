// Package process runs and stops the helper daemons a browser session
// depends on, such as a local chromedriver.
//
// Daemon owns one child process: it captures stdout/stderr into log files,
// starts a single Wait goroutine, and stops the child with SIGTERM followed by
// SIGKILL. WaitReady polls a readiness probe until the daemon answers.
package process
