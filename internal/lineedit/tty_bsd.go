//go:build darwin || freebsd || netbsd || openbsd

package lineedit

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TIOCGETA
