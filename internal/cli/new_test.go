package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPackage(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := runCLI(t, "new", "com.example.widgets",
		"--display-name", "Widgets", "--unity", "2022.3", "--author", "Jo", "--tests")
	require.NoError(t, err)

	pkg := readPackageFixture(t, filepath.Join(dir, "com.example.widgets"))
	assert.Equal(t, "com.example.widgets", pkg.Name)
	assert.Equal(t, "0.0.1", pkg.Version)
	assert.Equal(t, "Widgets", pkg.DisplayName)
	assert.Equal(t, "2022.3", pkg.Unity)
	require.NotNil(t, pkg.Author)
	assert.Equal(t, "Jo", pkg.Author.Name)

	assert.DirExists(t, filepath.Join(dir, "com.example.widgets", "Runtime"))
	assert.DirExists(t, filepath.Join(dir, "com.example.widgets", "Editor"))
	assert.DirExists(t, filepath.Join(dir, "com.example.widgets", "Documentation~"))
	assert.DirExists(t, filepath.Join(dir, "com.example.widgets.tests"))
}

func TestNewPackageExists(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := runCLI(t, "new", "com.example.widgets")
	require.NoError(t, err)

	_, _, err = runCLI(t, "new", "com.example.widgets")
	require.Error(t, err)
	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)

	_, _, err = runCLI(t, "new", "com.example.widgets", "--force", "--version", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", readPackageFixture(t, filepath.Join(dir, "com.example.widgets")).Version)
}

func TestNewPackageValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"invalid name", []string{"new", "Not A Package"}},
		{"invalid version", []string{"new", "com.example.a", "--version", "one"}},
		{"invalid unity", []string{"new", "com.example.a", "--unity", "latest"}},
		{"exclusive modes", []string{"new", "com.example.a", "--editor-only", "--runtime-only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}
