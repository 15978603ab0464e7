//go:build !unix

package exec

import (
	osexec "os/exec"
)

func killProcessGroup(cmd *osexec.Cmd) {}
