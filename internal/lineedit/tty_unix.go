//go:build linux || darwin || freebsd || netbsd || openbsd

package lineedit

import "golang.org/x/sys/unix"

// isRaw reports whether canonical input and echo are both off on fd.
func isRaw(fd int) bool {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return false
	}
	return t.Lflag&(unix.ICANON|unix.ECHO) == 0
}
