//go:build unix

package mfa

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the aligner in its own process group so that
// cancellation also reaches the workers it forks.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
