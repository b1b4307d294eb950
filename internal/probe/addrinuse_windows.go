//go:build windows

package probe

import "golang.org/x/sys/windows"

var errAddrInUse error = windows.WSAEADDRINUSE
