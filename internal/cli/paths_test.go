package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAutosaveDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	os.Unsetenv("XDG_STATE_HOME")

	dir, err := autosaveDir()
	if err != nil {
		t.Fatalf("autosaveDir() error: %v", err)
	}

	if dir == "" {
		t.Error("autosaveDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("autosaveDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("autosaveDir() = %q, should end with %q", dir, appName)
	}
}

func TestAutosaveDirStructure(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	os.Unsetenv("XDG_STATE_HOME")

	dir, err := autosaveDir()
	if err != nil {
		t.Fatalf("autosaveDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".local", "state", appName)
	if dir != expected {
		t.Errorf("autosaveDir() = %q, want %q", dir, expected)
	}
}

func TestAutosaveDirXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/custom-state")

	dir, err := autosaveDir()
	if err != nil {
		t.Fatalf("autosaveDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-state", appName)
	if dir != expected {
		t.Errorf("autosaveDir() with XDG_STATE_HOME = %q, want %q", dir, expected)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		ext   string
		want  string
	}{
		{"chart.toml", ".svg", "chart.svg"},
		{"songs/neon.toml", ".svg", "songs/neon.svg"},
		{"noext", ".svg", "noext.svg"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.input, tt.ext); got != tt.want {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
		}
	}
}
