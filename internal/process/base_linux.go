//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr makes the kernel send SIGTERM to the child if the
// test binary dies, so no chromedriver outlives the run.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
