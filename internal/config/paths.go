package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rescale/pkgview/internal/constants"
)

// ConfigPathEnv overrides the default configuration file location.
const ConfigPathEnv = "PKGVIEW_CONFIG"

// AutoLogFile is the LogFile value that selects the per-user log location.
const AutoLogFile = "auto"

// DefaultConfigPath returns the configuration file used when none is given.
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return constants.DefaultConfigPath
}

// LogDirectory returns the per-user directory for pkgview logs.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\pkgview\logs
//   - Unix: ~/.config/pkgview/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "pkgview-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "pkgview", "logs")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "pkgview-logs")
		}
		return filepath.Join(homeDir, ".config", "pkgview", "logs")
	}
	return filepath.Join(configDir, "pkgview", "logs")
}

// ResolveLogFile expands AutoLogFile to a file in LogDirectory. Other
// values are returned unchanged; "" means no log file.
func ResolveLogFile(value string) string {
	if value == AutoLogFile {
		return filepath.Join(LogDirectory(), "pkgview.log")
	}
	return value
}
