//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package cliutil

import "golang.org/x/sys/unix"

func isTty(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
