package shell_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/personapool/internal/shell"
)

func TestRun(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}

	tests := map[string]struct {
		argv []string
		want shell.Result
	}{
		"echo": {
			argv: []string{"echo", "hello"},
			want: shell.Result{Stdout: "hello"},
		},
		"arguments keep their boundaries": {
			argv: []string{"printf", "%s|%s", "a b", "it's"},
			want: shell.Result{Stdout: "a b|it's"},
		},
		"metacharacters are not interpreted": {
			argv: []string{"echo", "$HOME;", "`id`"},
			want: shell.Result{Stdout: "$HOME; `id`"},
		},
		"non-zero exit": {
			argv: []string{"sh", "-c", "echo oops >&2; exit 3"},
			want: shell.Result{Stderr: "oops", ExitCode: 3},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := shell.NewRunner(nil).Run(context.Background(), tc.argv)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}

	r := &shell.Runner{Timeout: 100 * time.Millisecond, WaitDelay: 100 * time.Millisecond}

	start := time.Now()
	got, err := r.Run(context.Background(), []string{"sleep", "30"})
	require.NoError(t, err)
	assert.Equal(t, -1, got.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRun_ExecutionErrors(t *testing.T) {
	t.Parallel()

	_, err := shell.NewRunner(nil).Run(context.Background(), nil)
	require.ErrorIs(t, err, shell.ErrExecution)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = shell.NewRunner(nil).Run(ctx, []string{"echo", "never"})
	require.ErrorIs(t, err, shell.ErrExecution)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShellCommand(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		goos string
		argv []string
		want []string
	}{
		"posix plain": {
			goos: "linux",
			argv: []string{"adb", "-s", "emulator-5554", "shell", "settings", "put", "global", "heads_up_notifications_enabled", "0"},
			want: []string{"sh", "-c", "adb -s emulator-5554 shell settings put global heads_up_notifications_enabled 0"},
		},
		"windows plain": {
			goos: "windows",
			argv: []string{"adb", "shell", "appops", "set", "com.example.app", "TOAST_WINDOW", "deny"},
			want: []string{"cmd.exe", "/c", "adb shell appops set com.example.app TOAST_WINDOW deny"},
		},
		"windows quotes whitespace": {
			goos: "windows",
			argv: []string{"echo", "hello world", ""},
			want: []string{"cmd.exe", "/c", `echo "hello world" ""`},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, shell.ShellCommand(tc.goos, tc.argv))
		})
	}
}

func TestExecutionError(t *testing.T) {
	t.Parallel()

	err := &shell.ExecutionError{Command: []string{"adb", "devices"}, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, shell.ErrExecution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "command execution failed: adb devices: context deadline exceeded", err.Error())
}
