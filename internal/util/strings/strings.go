// Package strings provides string utility functions for message text.
package strings

import (
	stdstrings "strings"
)

// Pluralize returns singular or plural form based on count.
// Example: Pluralize("package", 1) returns "package", Pluralize("package", 2) returns "packages"
func Pluralize(word string, count int64) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

// Choose returns singular when count is 1 and plural otherwise, for
// messages whose plural is not a simple suffix.
func Choose(singular, plural string, count int64) string {
	if count == 1 {
		return singular
	}
	return plural
}

// NumberLength returns the number of decimal digits of n (at least 1).
func NumberLength(n int) int {
	if n < 0 {
		n = -n
	}
	digits := 1
	for n /= 10; n > 0; n /= 10 {
		digits++
	}
	return digits
}

// TrimPackageExt shortens a download filename for display: everything from
// the first ".pkg", ".db" or ".files" is dropped, and a trailing ".sig" is kept.
// Example: "zlib-1.3-1-x86_64.pkg.tar.zst.sig" returns "zlib-1.3-1-x86_64.sig"
func TrimPackageExt(name string) string {
	cut := -1
	for _, ext := range []string{".pkg", ".db", ".files"} {
		if i := stdstrings.Index(name, ext); i >= 0 {
			cut = i
			break
		}
	}
	if cut < 0 {
		return name
	}
	if stdstrings.HasSuffix(name, ".sig") {
		return name[:cut] + ".sig"
	}
	return name[:cut]
}
