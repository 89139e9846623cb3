package process

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// LogFiles holds the stdout/stderr capture files of a daemon.
type LogFiles struct {
	stdout *os.File
	stderr *os.File
	dir    string
	name   string
}

// NewLogFiles creates <dir>/<name>-stdout.log and <dir>/<name>-stderr.log,
// truncating any previous run's output.
func NewLogFiles(dir, name string) (LogFiles, error) {
	l := LogFiles{dir: dir, name: name}
	stdout, err := os.Create(l.StdoutPath())
	if err != nil {
		return LogFiles{}, fmt.Errorf("create stdout log: %w", err)
	}
	stderr, err := os.Create(l.StderrPath())
	if err != nil {
		_ = stdout.Close()
		return LogFiles{}, fmt.Errorf("create stderr log: %w", err)
	}
	l.stdout = stdout
	l.stderr = stderr
	return l, nil
}

// StdoutPath returns the path of the stdout capture file.
func (l *LogFiles) StdoutPath() string {
	return filepath.Join(l.dir, l.name+"-stdout.log")
}

// StderrPath returns the path of the stderr capture file.
func (l *LogFiles) StderrPath() string {
	return filepath.Join(l.dir, l.name+"-stderr.log")
}

// Close closes both files. Calling it twice is harmless.
func (l *LogFiles) Close() {
	if l.stdout != nil {
		_ = l.stdout.Close()
		l.stdout = nil
	}
	if l.stderr != nil {
		_ = l.stderr.Close()
		l.stderr = nil
	}
}

// startWithLogs wires cmd's output into fresh log files and starts it. The
// files are closed again if the start fails.
func startWithLogs(cmd *exec.Cmd, dir, name string) (LogFiles, error) {
	logs, err := NewLogFiles(dir, name)
	if err != nil {
		return LogFiles{}, err
	}
	cmd.Stdout = logs.stdout
	cmd.Stderr = logs.stderr
	if err := cmd.Start(); err != nil {
		logs.Close()
		return LogFiles{}, err
	}
	return logs, nil
}
