//go:build windows
// +build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableVirtualTerminal switches the console behind f to Virtual Terminal
// processing so that carriage-return redraws and colour escapes work.
func EnableVirtualTerminal(f *os.File) {
	handle := windows.Handle(f.Fd())
	var mode uint32

	if err := windows.GetConsoleMode(handle, &mode); err == nil {
		_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
