package terminal

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/rescale/pkgview/internal/constants"
)

// Columns returns the width of the terminal behind f.
//
// A positive COLUMNS environment variable wins. Output that is not a
// terminal has no width (0), which turns progress bars off. A terminal
// whose size cannot be queried is assumed to be 80 columns wide.
func Columns(f *os.File) int {
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}

	if !IsTerminal(f) {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return constants.FallbackColumns
	}
	return width
}

// IsTerminal reports whether f is an interactive terminal, including
// Cygwin/MSYS pseudo terminals on Windows.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ColorMode is the user's colour preference.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UseColor resolves mode against the stream that will be coloured.
func UseColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTerminal(f)
	}
}
