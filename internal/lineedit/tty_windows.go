//go:build windows

package lineedit

import "golang.org/x/sys/windows"

// isRaw on Windows checks whether line input is disabled on the console.
func isRaw(fd int) bool {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(fd), &mode); err != nil {
		return false
	}
	return mode&windows.ENABLE_LINE_INPUT == 0
}
