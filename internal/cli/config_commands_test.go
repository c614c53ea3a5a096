package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rescale/pkgview/internal/config"
)

// executeRoot runs the root command with args and returns its stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	AddCommands(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// TestConfigCmd tests the config command group
func TestConfigCmd(t *testing.T) {
	cmd := newConfigCmd()
	if cmd.Use != "config" {
		t.Errorf("Expected Use='config', got '%s'", cmd.Use)
	}

	expectedSubs := []string{"init", "show", "path"}
	foundSubs := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		foundSubs[sub.Name()] = true
		if sub.Short == "" {
			t.Errorf("Subcommand '%s' has no short description", sub.Name())
		}
	}
	for _, expected := range expectedSubs {
		if !foundSubs[expected] {
			t.Errorf("Subcommand '%s' not found", expected)
		}
	}
}

func TestConfigShowMergesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacman.conf")
	content := "[options]\nColor\nParallelDownloads = 3\n\n[core]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := executeRoot(t, "--config", path, "--ilovecandy", "--parallel", "7", "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	for _, want := range []string{
		"Config File       : " + path,
		"ILoveCandy        : true",
		"ParallelDownloads : 7",
		"Repositories      : core",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInvalidOptionsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.conf")

	if _, err := executeRoot(t, "--config", path, "--parallel", "500", "config", "show"); err == nil {
		t.Error("expected an error for --parallel 500")
	}
	if _, err := executeRoot(t, "--config", path, "--color", "sometimes", "config", "show"); err == nil {
		t.Error("expected an error for --color sometimes")
	}
}

func TestAskFlagSetsMask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.conf")
	if _, err := executeRoot(t, "--config", path, "--ask", "4", "config", "show"); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	cfg := GetOptions()
	if !cfg.NoAsk || cfg.Ask != 4 {
		t.Errorf("expected NoAsk with mask 4, got NoAsk=%v Ask=%d", cfg.NoAsk, cfg.Ask)
	}
}

func TestConfigInitWritesOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "pacman.conf")

	if _, err := executeRoot(t, "--config", path, "--totaldownload", "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if !cfg.TotalDownload {
		t.Error("TotalDownload should be written")
	}

	out, err := executeRoot(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("second config init failed: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("expected refusal to overwrite, got %q", out)
	}
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacman.conf")
	out, err := executeRoot(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.HasPrefix(out, path+"\n") {
		t.Errorf("expected path first, got %q", out)
	}
	if !strings.Contains(out, "does not exist") {
		t.Errorf("expected missing status, got %q", out)
	}
}
