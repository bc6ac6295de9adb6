package cliutil

// IsTty reports whether fd refers to a terminal. The command line
// tools use this to decide between reading stdin and showing usage.
func IsTty(fd uintptr) bool {
	return isTty(fd)
}
