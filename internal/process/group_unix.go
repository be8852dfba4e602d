//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killGroupOnCancel starts c as the leader of a new process group and makes
// cancellation kill the whole group, so commands forked by the shell die with
// it.
func killGroupOnCancel(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		err := syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
