package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rescale/pkgview/internal/terminal"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pacman.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*testing.T, *Options)
	}{
		{
			name: "bare boolean keys",
			content: `[options]
Color
ILoveCandy
#NoProgressBar
ParallelDownloads = 5
`,
			check: func(t *testing.T, cfg *Options) {
				if !cfg.Color {
					t.Error("Color should be set")
				}
				if !cfg.ILoveCandy {
					t.Error("ILoveCandy should be set")
				}
				if cfg.NoProgressBar {
					t.Error("commented NoProgressBar should not be set")
				}
				if cfg.ParallelDownloads != 5 {
					t.Errorf("ParallelDownloads = %d, want 5", cfg.ParallelDownloads)
				}
			},
		},
		{
			name: "explicit values and repositories",
			content: `[options]
TotalDownload = true
NoProgressBar = false
LogFile = /tmp/first.log
LogFile = /tmp/second.log

[core]
Include = /etc/pacman.d/mirrorlist

[extra]
Include = /etc/pacman.d/mirrorlist
`,
			check: func(t *testing.T, cfg *Options) {
				if !cfg.TotalDownload {
					t.Error("TotalDownload should be set")
				}
				if cfg.NoProgressBar {
					t.Error("NoProgressBar = false should not be set")
				}
				if cfg.LogFile != "/tmp/second.log" {
					t.Errorf("LogFile = %q, want last value", cfg.LogFile)
				}
				if strings.Join(cfg.Repositories, ",") != "core,extra" {
					t.Errorf("Repositories = %v, want [core extra]", cfg.Repositories)
				}
				if cfg.ParallelDownloads != 1 {
					t.Errorf("ParallelDownloads default = %d, want 1", cfg.ParallelDownloads)
				}
			},
		},
		{
			name: "bad parallel downloads",
			content: `[options]
ParallelDownloads = many
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConf(t, tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParallelDownloads) {
					t.Errorf("expected ErrInvalidParallelDownloads, got %v", err)
				}
				return
			}
			if cfg.Path == "" {
				t.Error("Path should record the loaded file")
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ParallelDownloads != 1 {
		t.Errorf("ParallelDownloads = %d, want 1", cfg.ParallelDownloads)
	}
	if cfg.ColorMode != terminal.ColorAuto {
		t.Errorf("ColorMode = %q, want auto", cfg.ColorMode)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty for defaults", cfg.Path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pacman.conf")
	cfg := NewOptions()
	cfg.Color = true
	cfg.TotalDownload = true
	cfg.ParallelDownloads = 3
	cfg.LogFile = "/var/log/pkgview.log"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "ILoveCandy") {
		t.Errorf("unset flags should not be written, got:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Color || !loaded.TotalDownload || loaded.ILoveCandy {
		t.Errorf("flags not preserved: %+v", loaded)
	}
	if loaded.ParallelDownloads != 3 {
		t.Errorf("ParallelDownloads = %d, want 3", loaded.ParallelDownloads)
	}
	if loaded.LogFile != cfg.LogFile {
		t.Errorf("LogFile = %q, want %q", loaded.LogFile, cfg.LogFile)
	}
}

func TestValidate(t *testing.T) {
	cfg := NewOptions()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	cfg.ParallelDownloads = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidParallelDownloads) {
		t.Errorf("expected ErrInvalidParallelDownloads, got %v", err)
	}

	cfg.ParallelDownloads = 2
	cfg.ColorMode = "sometimes"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidColorMode) {
		t.Errorf("expected ErrInvalidColorMode, got %v", err)
	}
}

func TestWantColor(t *testing.T) {
	cfg := NewOptions()
	cfg.ColorMode = terminal.ColorAlways
	if !cfg.WantColor(os.Stdout) {
		t.Error("always should colour")
	}
	cfg.ColorMode = terminal.ColorNever
	cfg.Color = true
	if cfg.WantColor(os.Stdout) {
		t.Error("never should not colour")
	}
	cfg.ColorMode = terminal.ColorAuto
	cfg.Color = false
	if cfg.WantColor(os.Stdout) {
		t.Error("auto without Color should not colour")
	}
}

func TestResolveLogFile(t *testing.T) {
	if got := ResolveLogFile(""); got != "" {
		t.Errorf("ResolveLogFile(\"\") = %q, want empty", got)
	}
	if got := ResolveLogFile("/tmp/x.log"); got != "/tmp/x.log" {
		t.Errorf("explicit path changed to %q", got)
	}
	got := ResolveLogFile(AutoLogFile)
	if filepath.Base(got) != "pkgview.log" || !strings.HasPrefix(got, LogDirectory()) {
		t.Errorf("auto resolved to %q", got)
	}
}

func TestOptionsString(t *testing.T) {
	cfg := NewOptions()
	cfg.Repositories = []string{"core", "extra"}
	s := cfg.String()
	for _, want := range []string{"(defaults)", "ParallelDownloads : 1", "LogFile           : None", "core  extra"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in:\n%s", want, s)
		}
	}
}

func TestDefaultConfigPathEnv(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	if got := DefaultConfigPath(); got != "/etc/pacman.conf" {
		t.Errorf("DefaultConfigPath() = %q, want /etc/pacman.conf", got)
	}

	path := writeConf(t, "[options]\nILoveCandy\n")
	t.Setenv(ConfigPathEnv, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.ILoveCandy || cfg.Path != path {
		t.Errorf("expected options from %s, got %+v", path, cfg)
	}
}
