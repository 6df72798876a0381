//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/upt-tools/upt/internal/docs"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, holds ~/.upt/config.yaml
	PackageDir string // parent of the generated packages
	OutputDir  string // documentation output root
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so no user configuration is read.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		PackageDir: t.TempDir(),
		OutputDir:  t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	return env
}

// requireDocFx returns a DocFx runner for the executable on PATH or skips
// the test when none is installed.
func requireDocFx(t *testing.T) *docs.DocFx {
	t.Helper()
	path, err := docs.FindDocFx(os.Getenv("UPT_DOCFX_PATH"))
	if err != nil {
		t.Skipf("docfx not available: %v", err)
	}
	docfx := docs.NewDocFx(path, nil)
	if _, err := docfx.CheckVersion(context.Background()); err != nil {
		t.Skipf("docfx not usable: %v", err)
	}
	return docfx
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
