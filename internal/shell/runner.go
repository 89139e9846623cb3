package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	// DefaultTimeout is the hard limit for one command.
	DefaultTimeout = 60 * time.Second

	// DefaultWaitDelay is how long output pipes may stay open after the
	// command was killed.
	DefaultWaitDelay = time.Second
)

// Result is the outcome of a command that ran.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes argv vectors through the host shell. Zero fields fall back
// to the package defaults.
type Runner struct {
	Timeout   time.Duration
	WaitDelay time.Duration
	Logger    *slog.Logger
}

// NewRunner returns a Runner with the default timeout that logs to logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Timeout: DefaultTimeout, WaitDelay: DefaultWaitDelay, Logger: logger}
}

// Run executes argv and waits for it to finish or for the timeout. A
// command killed on timeout still returns a Result, with ExitCode -1.
func (r *Runner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, &ExecutionError{Err: errors.New("empty command")}
	}

	log := r.logger()
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	waitDelay := r.WaitDelay
	if waitDelay <= 0 {
		waitDelay = DefaultWaitDelay
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell := ShellCommand(runtime.GOOS, argv)
	log.Info("Executing command", "command", strings.Join(argv, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell[0], shell[1:]...) //nolint:gosec // G204: running commands is the point
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if cmd.ProcessState == nil {
		return Result{}, &ExecutionError{Command: argv, Err: err}
	}

	res := Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warn("command timed out", "command", strings.Join(argv, " "), "timeout", timeout)
	case ctx.Err() != nil:
		return res, &ExecutionError{Command: argv, Err: ctx.Err()}
	case err != nil && !errors.As(err, &exitErr):
		// Exited, but the output pipes were not drained in time.
		return res, &ExecutionError{Command: argv, Err: err}
	}

	log.Info("Command output", "stdout", res.Stdout, "exit_code", res.ExitCode)
	if res.Stderr != "" {
		log.Debug("Command stderr", "stderr", res.Stderr)
	}
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ShellCommand wraps argv for the shell of goos: cmd.exe /c on Windows and
// sh -c elsewhere. Each argument is quoted so the shell sees it as one word.
func ShellCommand(goos string, argv []string) []string {
	if goos == "windows" {
		return []string{"cmd.exe", "/c", windowsJoin(argv)}
	}
	return []string{"sh", "-c", shellquote.Join(argv...)}
}

func windowsJoin(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = fmt.Sprintf(`"%s"`, strings.ReplaceAll(a, `"`, `\"`))
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
