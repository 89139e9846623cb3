package shell

import (
	"fmt"
	"strings"

	"github.com/giantswarm/personapool/internal/sentinel"
)

// ErrExecution matches every ExecutionError.
const ErrExecution = sentinel.Error("command execution failed")

// ExecutionError reports a command that could not be started or whose
// output could not be collected. A command that ran and exited non-zero is
// not an ExecutionError; its exit code is in Result.
type ExecutionError struct {
	Command []string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExecution, strings.Join(e.Command, " "), e.Err)
}

// Is matches ErrExecution.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
