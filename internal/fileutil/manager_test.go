package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyDirectoryFiltersByPattern(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")

	writeFile(t, filepath.Join(src, "Runtime", "Foo.cs"), "class Foo {}")
	writeFile(t, filepath.Join(src, "Runtime", "Foo.asmdef"), "{}")
	writeFile(t, filepath.Join(src, "Runtime", "Sub", "Bar.cs"), "class Bar {}")

	m := New(nil)
	copied, err := m.CopyDirectory(src, dst, "*.cs")
	if err != nil {
		t.Fatalf("CopyDirectory: %v", err)
	}
	sort.Strings(copied)

	want := []string{filepath.Join("Runtime", "Foo.cs"), filepath.Join("Runtime", "Sub", "Bar.cs")}
	if len(copied) != len(want) {
		t.Fatalf("copied = %v, want %v", copied, want)
	}
	for i := range want {
		if copied[i] != want[i] {
			t.Errorf("copied[%d] = %q, want %q", i, copied[i], want[i])
		}
	}

	if _, err := os.Stat(filepath.Join(dst, "Runtime", "Foo.asmdef")); err == nil {
		t.Error("Foo.asmdef should not match *.cs")
	}
}

func TestCopyDirectoryExcludesIgnoredPaths(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src")
	dst := filepath.Join(tmpDir, "dst")

	writeFile(t, filepath.Join(src, "index.md"), "# Index")
	writeFile(t, filepath.Join(src, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(src, "Samples~", "sample.md"), "# Sample")
	writeFile(t, filepath.Join(src, ".hidden.md"), "# Hidden")

	m := New(nil)
	copied, err := m.CopyDirectory(src, dst, "*")
	if err != nil {
		t.Fatalf("CopyDirectory: %v", err)
	}
	if len(copied) != 1 || copied[0] != "index.md" {
		t.Errorf("copied = %v, want [index.md]", copied)
	}

	for _, rel := range []string{".git", "Samples~", ".hidden.md"} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err == nil {
			t.Errorf("%s should not be copied", rel)
		}
	}
}

func TestCopyDirectoryMissingSource(t *testing.T) {
	m := New(nil)
	copied, err := m.CopyDirectory(filepath.Join(t.TempDir(), "missing"), t.TempDir(), "*")
	if err != nil {
		t.Fatalf("CopyDirectory: %v", err)
	}
	if len(copied) != 0 {
		t.Errorf("copied = %v, want none", copied)
	}
}

func TestCopyAnyUsesFirstExisting(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "LICENSE.txt"), "txt license")
	writeFile(t, filepath.Join(tmpDir, "License"), "plain license")

	dst := filepath.Join(tmpDir, "out", "LICENSE.md")
	m := New(nil)
	ok, err := m.CopyAny(tmpDir, []string{"LICENSE.md", "LICENSE.txt", "License"}, dst)
	if err != nil {
		t.Fatalf("CopyAny: %v", err)
	}
	if !ok {
		t.Fatal("CopyAny reported no match")
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "txt license" {
		t.Errorf("content = %q, want %q", data, "txt license")
	}
}

func TestCopyAnyNoCandidate(t *testing.T) {
	m := New(nil)
	ok, err := m.CopyAny(t.TempDir(), []string{"CHANGELOG.md"}, filepath.Join(t.TempDir(), "x.md"))
	if err != nil {
		t.Fatalf("CopyAny: %v", err)
	}
	if ok {
		t.Error("CopyAny should report false when nothing exists")
	}
}

func TestMoveFileReplacesDestination(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "manual")
	writeFile(t, filepath.Join(src, "logo.svg"), "new")
	writeFile(t, filepath.Join(tmpDir, "logo.svg"), "old")

	m := New(nil)
	if err := m.MoveFile("logo.svg", src, tmpDir); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "logo.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
	if FileExists(filepath.Join(src, "logo.svg")) {
		t.Error("source should be gone after move")
	}

	// Missing source is a no-op.
	if err := m.MoveFile("favicon.ico", src, tmpDir); err != nil {
		t.Errorf("MoveFile missing source: %v", err)
	}
}

func TestWriteJSONIndentsAndCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	m := New(nil)

	if err := m.WriteJSON(path, map[string]string{"name": "com.example.foo"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "{\n  \"name\": \"com.example.foo\"\n}\n"; string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
}

func TestDeleteDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	writeFile(t, filepath.Join(dir, "a", "b.txt"), "x")

	m := New(nil)
	if err := m.DeleteDirectory(dir); err != nil {
		t.Fatalf("DeleteDirectory: %v", err)
	}
	if DirExists(dir) {
		t.Error("directory should be removed")
	}
	if err := m.DeleteDirectory(dir); err != nil {
		t.Errorf("deleting a missing directory: %v", err)
	}
}

func TestIsPathIgnored(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"Runtime", false},
		{"Runtime/Foo.cs", false},
		{".git", true},
		{"Runtime/.hidden/Foo.cs", true},
		{"Documentation~", true},
		{"Samples~/Demo/Demo.cs", true},
		{`Editor\Temp~\x.cs`, true},
		{"./Runtime", false},
		{"../pkg/Runtime", false},
	}

	for _, tt := range tests {
		if got := IsPathIgnored(tt.path); got != tt.expected {
			t.Errorf("IsPathIgnored(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestIsTestFolder(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"Tests", true},
		{"Runtime/Tests", true},
		{"Runtime/tests/Foo", true},
		{"Runtime/TestsHelpers", false},
		{"Runtime/MyTests", false},
		{"Runtime", false},
	}

	for _, tt := range tests {
		if got := IsTestFolder(tt.path); got != tt.expected {
			t.Errorf("IsTestFolder(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
