package process

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// termGracePeriod is how long a child gets after SIGTERM before SIGKILL. It
// is capped at the stop timeout.
const termGracePeriod = 5 * time.Second

// killDrainTimeout bounds the wait for cmd.Wait after SIGKILL.
const killDrainTimeout = 10 * time.Second

// drainDone waits up to timeout for the Wait result. ok is false if nothing
// arrived in time.
func drainDone(done <-chan error, timeout time.Duration) (ok bool, err error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return true, err
	case <-t.C:
		return false, nil
	}
}

// terminate sends SIGTERM, escalates to SIGKILL after the grace period and
// waits for the Wait goroutine to report. done must carry the result of the
// only cmd.Wait call for cmd.
func terminate(cmd *exec.Cmd, done <-chan error, timeout time.Duration, name string) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if done == nil {
		return fmt.Errorf("%s: done channel must not be nil", name)
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone.
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out draining process after signal failure", name)
		}
		return expectSignalExit(waitErr, name)
	}

	killTimer := time.AfterFunc(min(termGracePeriod, timeout), func() {
		_ = cmd.Process.Kill()
	})
	defer killTimer.Stop()

	total := time.NewTimer(timeout)
	defer total.Stop()

	select {
	case err := <-done:
		return expectSignalExit(err, name)
	case <-total.C:
		ok, waitErr := drainDone(done, killDrainTimeout)
		if !ok {
			return fmt.Errorf("%s: timed out waiting for process to exit after SIGKILL", name)
		}
		if err := expectSignalExit(waitErr, name); err != nil {
			return fmt.Errorf("%s stop timeout: %w", name, err)
		}
		return nil
	}
}

// expectSignalExit treats an exit caused by SIGTERM or SIGKILL as a clean
// stop. chromedriver also exits 0 on SIGTERM, which Wait reports as nil.
func expectSignalExit(err error, name string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if sig := status.Signal(); sig == syscall.SIGTERM || sig == syscall.SIGKILL {
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}
