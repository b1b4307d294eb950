//go:build windows

package terminate

import (
	"os"

	"golang.org/x/sys/windows"
)

type SystemSignaler struct{}

func (SystemSignaler) Kill(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return os.NewSyscallError("OpenProcess", err)
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		return os.NewSyscallError("TerminateProcess", err)
	}
	return nil
}
