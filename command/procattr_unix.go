//go:build unix

package command

import (
	"os/exec"
	"syscall"
)

// detachFromTerminalSignals moves cmd into its own process group.
func detachFromTerminalSignals(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
