// Package config reads the rendering options of a pacman.conf-style file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/rescale/pkgview/internal/constants"
	"github.com/rescale/pkgview/internal/events"
	"github.com/rescale/pkgview/internal/terminal"
)

// Options are the settings that shape terminal output.
//
// File format (only the [options] section is read; other sections are
// listed as repositories):
//
//	[options]
//	Color
//	ILoveCandy
//	TotalDownload
//	#NoProgressBar
//	ParallelDownloads = 5
//	LogFile = /var/log/pkgview.log
//
//	[core]
//	Include = /etc/pacman.d/mirrorlist
type Options struct {
	// Settings read from the file
	Color             bool
	ILoveCandy        bool
	TotalDownload     bool
	NoProgressBar     bool
	ParallelDownloads int
	LogFile           string

	// Repositories are the non-options sections, in file order.
	Repositories []string

	// Runtime-only settings, set from flags
	ColorMode    terminal.ColorMode
	NoConfirm    bool
	Print        bool
	DownloadOnly bool
	Debug        bool
	NoAsk        bool
	Ask          events.QuestionType

	// Path is the file the options were loaded from; empty for defaults.
	Path string
}

// Validation errors
var (
	ErrInvalidParallelDownloads = fmt.Errorf("ParallelDownloads must be between 1 and %d", constants.MaxParallelDownloads)
	ErrInvalidColorMode         = errors.New("color must be one of auto, always, never")
)

var loadOptions = ini.LoadOptions{
	AllowBooleanKeys: true,
	AllowShadows:     true,
}

// NewOptions creates Options with default values.
func NewOptions() *Options {
	return &Options{
		ParallelDownloads: 1,
		ColorMode:         terminal.ColorAuto,
	}
}

// Load reads options from an INI file.
// If the file doesn't exist, returns defaults and no error.
// If the file exists but is invalid, returns an error.
func Load(path string) (*Options, error) {
	cfg := NewOptions()

	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	cfg.Path = path

	options := iniFile.Section(constants.OptionsSection)
	cfg.Color = flag(options, "Color")
	cfg.ILoveCandy = flag(options, "ILoveCandy")
	cfg.TotalDownload = flag(options, "TotalDownload")
	cfg.NoProgressBar = flag(options, "NoProgressBar")
	cfg.LogFile = last(options, "LogFile")

	if v := last(options, "ParallelDownloads"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ParallelDownloads %q: %w", v, ErrInvalidParallelDownloads)
		}
		cfg.ParallelDownloads = n
	}

	for _, section := range iniFile.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || name == constants.OptionsSection {
			continue
		}
		cfg.Repositories = append(cfg.Repositories, name)
	}

	return cfg, nil
}

// flag reads a key that may be written bare ("Color") or with a value
// ("Color = true").
func flag(section *ini.Section, name string) bool {
	if !section.HasKey(name) {
		return false
	}
	return section.Key(name).MustBool(true)
}

// last returns the final value of a possibly repeated key.
func last(section *ini.Section, name string) string {
	if !section.HasKey(name) {
		return ""
	}
	values := section.Key(name).ValueWithShadows()
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[len(values)-1])
}

// Save writes the [options] section to path.
// Creates parent directories if they don't exist.
func Save(cfg *Options, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty(loadOptions)
	options, err := iniFile.NewSection(constants.OptionsSection)
	if err != nil {
		return fmt.Errorf("failed to create options section: %w", err)
	}

	for _, b := range []struct {
		name string
		set  bool
	}{
		{"Color", cfg.Color},
		{"ILoveCandy", cfg.ILoveCandy},
		{"TotalDownload", cfg.TotalDownload},
		{"NoProgressBar", cfg.NoProgressBar},
	} {
		if !b.set {
			continue
		}
		if _, err := options.NewBooleanKey(b.name); err != nil {
			return fmt.Errorf("failed to write %s: %w", b.name, err)
		}
	}
	options.Key("ParallelDownloads").SetValue(fmt.Sprintf("%d", cfg.ParallelDownloads))
	if cfg.LogFile != "" {
		options.Key("LogFile").SetValue(cfg.LogFile)
	}

	// Use temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the options for values the renderer cannot use.
func (cfg *Options) Validate() error {
	if cfg.ParallelDownloads < 1 || cfg.ParallelDownloads > constants.MaxParallelDownloads {
		return ErrInvalidParallelDownloads
	}
	switch cfg.ColorMode {
	case terminal.ColorAuto, terminal.ColorAlways, terminal.ColorNever:
	default:
		return ErrInvalidColorMode
	}
	return nil
}

// WantColor decides whether output to f is coloured. An explicit colour
// mode wins; in auto mode the Color option must be set and f must be a
// terminal.
func (cfg *Options) WantColor(f *os.File) bool {
	switch cfg.ColorMode {
	case terminal.ColorAlways:
		return true
	case terminal.ColorNever:
		return false
	default:
		return cfg.Color && terminal.UseColor(terminal.ColorAuto, f)
	}
}

// String renders the effective options as "key = value" lines.
func (cfg *Options) String() string {
	var sb strings.Builder
	source := cfg.Path
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(&sb, "Config File       : %s\n", source)
	fmt.Fprintf(&sb, "Color             : %t (%s)\n", cfg.Color, cfg.ColorMode)
	fmt.Fprintf(&sb, "ILoveCandy        : %t\n", cfg.ILoveCandy)
	fmt.Fprintf(&sb, "TotalDownload     : %t\n", cfg.TotalDownload)
	fmt.Fprintf(&sb, "NoProgressBar     : %t\n", cfg.NoProgressBar)
	fmt.Fprintf(&sb, "ParallelDownloads : %d\n", cfg.ParallelDownloads)
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "None"
	}
	fmt.Fprintf(&sb, "LogFile           : %s\n", logFile)
	repos := "None"
	if len(cfg.Repositories) > 0 {
		repos = strings.Join(cfg.Repositories, "  ")
	}
	fmt.Fprintf(&sb, "Repositories      : %s\n", repos)
	return sb.String()
}
