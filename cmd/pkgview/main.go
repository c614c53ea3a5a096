// pkgview renders package transaction notifications on a terminal.
package main

import (
	"os"

	"github.com/rescale/pkgview/internal/cli"
	"github.com/rescale/pkgview/internal/version"
)

// Version information, set with -ldflags at release builds
var (
	Version   = "v0.3.0"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
