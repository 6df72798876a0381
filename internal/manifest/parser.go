package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidPackage is returned when no valid package.json could be read.
var ErrInvalidPackage = errors.New("missing or invalid package.json")

var (
	namePattern         = regexp.MustCompile(`^(?:[a-z0-9][a-z0-9\-_]*\.)+[a-z0-9][a-z0-9\-_]*$`)
	versionPattern      = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	unityVersionPattern = regexp.MustCompile(`^\d{4}\.\d+$`)
)

// ReadPackage reads the manifest at path. Read failures, parse failures,
// and a missing name or version all yield ErrInvalidPackage.
func ReadPackage(path string) (*Package, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}

	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidPackage, path, err)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %s lacks a name or version", ErrInvalidPackage, path)
	}
	return &p, nil
}

// ReadPackageDir reads dir/package.json.
func ReadPackageDir(dir string) (*Package, error) {
	return ReadPackage(filepath.Join(dir, PackageFileName))
}

// WritePackage writes p to path as indented JSON.
func WritePackage(path string, p *Package) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadAsmDef reads an assembly definition descriptor.
func ReadAsmDef(path string) (*AsmDef, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var a AsmDef
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing assembly definition %s: %w", path, err)
	}
	if a.Name == "" {
		return nil, fmt.Errorf("assembly definition %s has no name", path)
	}
	return &a, nil
}

// ReadDocsConfig reads a documentation config. A missing file yields the
// defaults; a config without sources gets DefaultSources.
func ReadDocsConfig(path string) (*DocsConfig, error) {
	data, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocsConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var c DocsConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing documentation config %s: %w", path, err)
	}
	if len(c.Sources) == 0 {
		c.Sources = append([]string(nil), DefaultSources...)
	}
	return &c, nil
}

// TrimmedVersion returns "major.minor" of the package version.
func (p *Package) TrimmedVersion() (string, error) {
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return "", fmt.Errorf("parsing package version %q: %w", p.Version, err)
	}
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor()), nil
}

// ValidateName checks a package name against the Unity naming rules.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid package name %q. See https://docs.unity3d.com/Manual/cus-naming.html for how to name your package", name)
	}
	return nil
}

// ValidateVersion checks a major.minor.patch package version.
func ValidateVersion(version string) error {
	if !versionPattern.MatchString(version) {
		return fmt.Errorf("invalid version %q. See https://docs.unity3d.com/Manual/upm-semver.html for how to version your package", version)
	}
	return nil
}

// ValidateUnityVersion checks a "YYYY.N" Unity version.
func ValidateUnityVersion(version string) error {
	if !unityVersionPattern.MatchString(version) {
		return fmt.Errorf("invalid Unity version %q: must look like 2022.3", version)
	}
	return nil
}

// utf8BOM is written by Visual Studio and most Windows editors.
var utf8BOM = []byte("\xef\xbb\xbf")

// readFile reads the contents of a file at the given path, without a
// leading byte order mark.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}
