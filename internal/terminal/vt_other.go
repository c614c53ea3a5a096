//go:build !windows
// +build !windows

package terminal

import "os"

// EnableVirtualTerminal is a no-op: Unix terminals understand ANSI natively.
func EnableVirtualTerminal(f *os.File) {}
