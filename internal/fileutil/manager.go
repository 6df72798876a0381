package fileutil

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/upt-tools/upt/internal/logging"
)

// Manager performs file-system operations and traces them through a logger.
type Manager struct {
	log *logging.Logger
}

// New returns a Manager logging to l. A nil logger discards.
func New(l *logging.Logger) *Manager {
	if l == nil {
		l = logging.Discard()
	}
	return &Manager{log: l}
}

// WriteJSON marshals v with two-space indentation and writes it to path,
// creating parent directories as needed.
func (m *Manager) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	return m.WriteBytes(path, data)
}

// WriteText writes text to path, creating parent directories as needed.
func (m *Manager) WriteText(path, text string) error {
	return m.WriteBytes(path, []byte(text))
}

// WriteBytes writes data to path, creating parent directories as needed.
func (m *Manager) WriteBytes(path string, data []byte) error {
	m.log.Debug("Writing file", "path", path)
	if err := m.CreateDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CreateDirectory creates path and its parents.
func (m *Manager) CreateDirectory(path string) error {
	if path == "" {
		return nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil
	}
	m.log.Debug("Creating directory", "path", path)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// DeleteDirectory removes path recursively. A missing directory is not an error.
func (m *Manager) DeleteDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	m.log.Debug("Removing directory", "path", path)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// MoveFile moves srcDir/name to dstDir/name, replacing any existing file.
// Nothing happens when the source does not exist.
func (m *Manager) MoveFile(name, srcDir, dstDir string) error {
	src := filepath.Join(srcDir, name)
	dst := filepath.Join(dstDir, name)
	if !fileExists(src) {
		return nil
	}
	if fileExists(dst) {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("removing %s: %w", dst, err)
		}
	}
	m.log.Debug("Moving file", "from", src, "to", dst)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", src, dst, err)
	}
	return nil
}

// TryCopyFile copies src to dst. It reports false when src does not exist.
func (m *Manager) TryCopyFile(src, dst string) (bool, error) {
	if !fileExists(src) {
		return false, nil
	}
	m.log.Debug("Copying file", "from", src, "to", dst)
	if err := m.CreateDirectory(filepath.Dir(dst)); err != nil {
		return false, err
	}
	if err := copyFile(src, dst); err != nil {
		return false, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return true, nil
}

// CopyAny copies the first existing dir/candidate to dst. Candidates are
// tried in order; it reports false when none exists.
func (m *Manager) CopyAny(dir string, candidates []string, dst string) (bool, error) {
	for _, name := range candidates {
		ok, err := m.TryCopyFile(filepath.Join(dir, name), dst)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// CopyDirectory recursively copies every file under src whose base name
// matches pattern (filepath.Match syntax) to the same relative location
// under dst. Paths ignored by Unity are skipped. It returns the relative
// paths of the copied files. A missing src copies nothing.
func (m *Manager) CopyDirectory(src, dst, pattern string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var copied []string
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if IsPathIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if !ok {
			return nil
		}
		if _, err := m.TryCopyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied = append(copied, rel)
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return copied, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	return fileExists(path)
}

// DirExists reports whether path names an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
