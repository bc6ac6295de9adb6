//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package cliutil

func isTty(uintptr) bool {
	return false
}
