//go:build !(linux || darwin || freebsd || netbsd || openbsd || windows)

package lineedit

func isRaw(int) bool { return false }
