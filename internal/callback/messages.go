package callback

import (
	"fmt"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/rescale/pkgview/internal/events"
)

// palette holds the escape sequences used around message text. With colour
// off every entry is empty.
type palette struct {
	prefix  string
	title   string
	err     string
	warn    string
	debug   string
	nocolor string
}

func newPalette(color bool) palette {
	c := colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !color,
	}
	return palette{
		prefix:  c.Color("[bold][blue]::[reset][bold] "),
		title:   c.Color("[bold]"),
		err:     c.Color("[bold][red]"),
		warn:    c.Color("[bold][yellow]"),
		debug:   c.Color("[bold][cyan]"),
		nocolor: c.Color("[reset]"),
	}
}

// colon formats a ":: message" line. The message is used verbatim, never
// parsed for colour codes.
func (p palette) colon(format string, args ...interface{}) string {
	return p.prefix + fmt.Sprintf(format, args...) + p.nocolor
}

// level prefixes a message the way log lines are shown.
func (p palette) level(level events.LogLevel, msg string) string {
	var prefix string
	switch level {
	case events.ErrorLevel:
		prefix = p.err + "error: " + p.nocolor
	case events.WarnLevel:
		prefix = p.warn + "warning: " + p.nocolor
	case events.DebugLevel:
		prefix = p.debug + "debug: " + p.nocolor
	}
	return prefix + terminate(msg)
}

// terminate makes sure msg ends with a newline.
func terminate(msg string) string {
	if strings.HasSuffix(msg, "\n") {
		return msg
	}
	return msg + "\n"
}

// progressText names a transaction operation on its progress line.
func progressText(op events.ProgressOp) (string, bool) {
	switch op {
	case events.ProgressAddStart:
		return "installing", true
	case events.ProgressUpgradeStart:
		return "upgrading", true
	case events.ProgressDowngradeStart:
		return "downgrading", true
	case events.ProgressReinstallStart:
		return "reinstalling", true
	case events.ProgressRemoveStart:
		return "removing", true
	case events.ProgressConflictsStart:
		return "checking for file conflicts", true
	case events.ProgressDiskspaceStart:
		return "checking available disk space", true
	case events.ProgressIntegrityStart:
		return "checking package integrity", true
	case events.ProgressKeyringStart:
		return "checking keys in keyring", true
	case events.ProgressLoadStart:
		return "loading package files", true
	default:
		return "", false
	}
}

// newOptDepends lists the optional dependencies of newPkg that oldPkg did
// not already have.
func newOptDepends(oldPkg, newPkg *events.Package) []string {
	if newPkg == nil {
		return nil
	}
	if oldPkg == nil {
		return newPkg.OptDepends
	}
	seen := make(map[string]bool, len(oldPkg.OptDepends))
	for _, dep := range oldPkg.OptDepends {
		seen[dep] = true
	}
	var added []string
	for _, dep := range newPkg.OptDepends {
		if !seen[dep] {
			added = append(added, dep)
		}
	}
	return added
}

func pkgName(p *events.Package) string {
	if p == nil {
		return ""
	}
	return p.Name
}
