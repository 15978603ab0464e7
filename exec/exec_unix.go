//go:build unix

package exec

import (
	osexec "os/exec"
	"syscall"
)

// killProcessGroup starts the command in its own process group and kills the whole group on
// cancellation so children holding the output pipes die with it
func killProcessGroup(cmd *osexec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
