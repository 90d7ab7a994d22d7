// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Isolate tests from the user's XDG directories

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

// IsolateXDG points every XDG base directory into a fresh temp dir and
// clears asprules environment overrides. It returns the temp root; the
// directories are <root>/config, <root>/data and <root>/state.
func IsolateXDG(t *testing.T) string {
	t.Helper()

	// Registered first so it runs after the environment is restored.
	t.Cleanup(xdg.Reload)

	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	for _, env := range os.Environ() {
		if name, _, ok := strings.Cut(env, "="); ok && strings.HasPrefix(name, "ASPRULES_") {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}

	xdg.Reload()
	return root
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReloadXDG re-reads the XDG variables after a test changes them.
func ReloadXDG() {
	xdg.Reload()
}
