//go:build linux

package cliutil

import "golang.org/x/sys/unix"

func isTty(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
