//go:build !windows

package probe

import "golang.org/x/sys/unix"

var errAddrInUse error = unix.EADDRINUSE
