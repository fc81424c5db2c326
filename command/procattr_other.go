//go:build !unix

package command

import "os/exec"

// detachFromTerminalSignals is a no-op where process groups are unavailable.
func detachFromTerminalSignals(cmd *exec.Cmd) {}
