package process

import (
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/giantswarm/personapool/internal/sentinel"
)

const (
	// ErrAlreadyStarted is returned by Start on a daemon that is running.
	ErrAlreadyStarted = sentinel.Error("process already started")

	// ErrNilCmd is returned by Start for a nil command.
	ErrNilCmd = sentinel.Error("cmd must not be nil")

	// ErrEmptyCmdPath is returned by Start for a command without a path.
	ErrEmptyCmdPath = sentinel.Error("cmd.Path must not be empty")

	// ErrEmptyLogDir is returned by Start when no log directory is given.
	ErrEmptyLogDir = sentinel.Error("log directory must not be empty")
)

// DefaultStopTimeout bounds Close's automatic stop of a daemon that was not
// stopped explicitly.
const DefaultStopTimeout = 10 * time.Second

var _ Stoppable = (*Daemon)(nil)

// Daemon is a single long-running child process.
//
// Daemon is not safe for concurrent use.
type Daemon struct {
	cmd         *exec.Cmd
	waitDone    <-chan error
	exited      <-chan struct{}
	logs        LogFiles
	name        string
	log         *slog.Logger
	stopTimeout time.Duration
}

// NewDaemon returns a stopped Daemon. A nil logger falls back to
// slog.Default(); a zero stopTimeout falls back to DefaultStopTimeout in
// Close. Panics if name is empty.
func NewDaemon(name string, logger *slog.Logger, stopTimeout time.Duration) *Daemon {
	if name == "" {
		panic("personapool: process name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{name: name, log: logger.With("process", name), stopTimeout: stopTimeout}
}

// Name returns the daemon name used in log file names and errors.
func (d *Daemon) Name() string {
	return d.name
}

// Logger returns the daemon's logger.
func (d *Daemon) Logger() *slog.Logger {
	return d.log
}

// Running reports whether the daemon was started and not yet stopped.
func (d *Daemon) Running() bool {
	return d.cmd != nil
}

// Exited is closed when the child exits. It is nil before Start and after
// Stop.
func (d *Daemon) Exited() <-chan struct{} {
	return d.exited
}

// Start redirects cmd's output into <logDir>/<name>-stdout.log and
// <logDir>/<name>-stderr.log and starts it. cmd.Path and cmd.Args must be
// set.
func (d *Daemon) Start(cmd *exec.Cmd, logDir string) error {
	switch {
	case cmd == nil:
		return ErrNilCmd
	case cmd.Path == "":
		return ErrEmptyCmdPath
	case logDir == "":
		return ErrEmptyLogDir
	case d.cmd != nil:
		return ErrAlreadyStarted
	}

	configureSysProcAttr(cmd)

	logs, err := startWithLogs(cmd, logDir, d.name)
	if err != nil {
		return fmt.Errorf("start %s: %w", d.name, err)
	}
	d.cmd = cmd
	d.logs = logs

	// cmd.Wait may only be called once; Stop consumes done and anything may
	// select on exited.
	done := make(chan error, 1)
	exited := make(chan struct{})
	go func() {
		done <- cmd.Wait()
		close(exited)
	}()
	d.waitDone = done
	d.exited = exited

	d.log.Debug("process started", "pid", cmd.Process.Pid, "stdout", logs.StdoutPath())
	return nil
}

// Stop terminates the child within timeout. The daemon counts as stopped
// afterwards even when Stop fails.
func (d *Daemon) Stop(timeout time.Duration) error {
	defer func() {
		d.cmd = nil
		d.waitDone = nil
		d.exited = nil
	}()
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	pid := d.cmd.Process.Pid
	if err := terminate(d.cmd, d.waitDone, timeout, d.name); err != nil {
		d.log.Warn("process stop failed; process may be orphaned", "pid", pid, "error", err)
		return err
	}
	d.log.Debug("process stopped", "pid", pid)
	return nil
}

// Close releases the log files, stopping the child first if Stop was never
// called.
func (d *Daemon) Close() {
	if d.cmd != nil {
		d.log.Warn("process closed while running; stopping")
		timeout := d.stopTimeout
		if timeout <= 0 {
			timeout = DefaultStopTimeout
		}
		if err := d.Stop(timeout); err != nil {
			d.log.Warn("stop during close failed", "error", err)
		}
	}
	d.logs.Close()
}
