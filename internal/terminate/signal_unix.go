//go:build !windows

package terminate

import (
	"os"

	"golang.org/x/sys/unix"
)

type SystemSignaler struct{}

func (SystemSignaler) Kill(pid int) error {
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return os.NewSyscallError("kill", err)
	}
	return nil
}
