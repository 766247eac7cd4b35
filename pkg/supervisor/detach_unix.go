//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// detach starts the child in a new session so it has no controlling
// terminal and does not receive signals sent to this process group.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
