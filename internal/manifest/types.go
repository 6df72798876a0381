package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Package is the content of a Unity package manifest (package.json).
type Package struct {
	Name             string       `json:"name"`
	Version          string       `json:"version"`
	Description      string       `json:"description,omitempty"`
	DisplayName      string       `json:"displayName,omitempty"`
	Unity            string       `json:"unity,omitempty"`
	UnityRelease     string       `json:"unityRelease,omitempty"`
	Author           *Author      `json:"author,omitempty"`
	ChangelogURL     string       `json:"changelogUrl,omitempty"`
	Dependencies     Dependencies `json:"dependencies,omitempty"`
	DocumentationURL string       `json:"documentationUrl,omitempty"`
	HideInEditor     *bool        `json:"hideInEditor,omitempty"`
	Keywords         []string     `json:"keywords,omitempty"`
	License          string       `json:"license,omitempty"`
	LicenseURL       string       `json:"licenseUrl,omitempty"`
	Samples          []Sample     `json:"samples,omitempty"`
}

// IsValid reports whether the required name and version fields are set.
func (p *Package) IsValid() bool {
	return p != nil && p.Name != "" && p.Version != ""
}

// Title returns the display name, falling back to the package name.
func (p *Package) Title() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

func (p *Package) String() string {
	return p.Title() + " " + p.Version
}

// Author identifies the package author.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Sample describes a sample shipped with the package.
type Sample struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// Dependency is one entry of the dependencies map.
type Dependency struct {
	Name    string
	Version string
}

func (d Dependency) String() string {
	return d.Name + "@" + d.Version
}

// Dependencies is the dependencies map of a manifest. It is kept as an
// ordered list so rewriting package.json preserves the author's ordering.
type Dependencies []Dependency

// Index returns the position of name, or -1.
func (d Dependencies) Index(name string) int {
	for i, dep := range d {
		if dep.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the dependency named name.
func (d Dependencies) Get(name string) (Dependency, bool) {
	if i := d.Index(name); i >= 0 {
		return d[i], true
	}
	return Dependency{}, false
}

// Add appends a dependency.
func (d *Dependencies) Add(name, version string) {
	*d = append(*d, Dependency{Name: name, Version: version})
}

// Set replaces the version of name in place, or appends it when absent.
func (d *Dependencies) Set(name, version string) {
	if i := d.Index(name); i >= 0 {
		(*d)[i].Version = version
		return
	}
	d.Add(name, version)
}

// Remove deletes the dependency named name and returns it.
func (d *Dependencies) Remove(name string) (Dependency, bool) {
	i := d.Index(name)
	if i < 0 {
		return Dependency{}, false
	}
	dep := (*d)[i]
	*d = append((*d)[:i], (*d)[i+1:]...)
	return dep, true
}

// MarshalJSON writes the list as a JSON object in list order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dep.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(dep.Version)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order. Entries whose
// value is not a string are dropped.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependencies must be an object, got %v", tok)
	}

	var result Dependencies
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected dependency key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding dependency %q: %w", name, err)
		}
		var version string
		if err := json.Unmarshal(raw, &version); err != nil {
			continue
		}
		result = append(result, Dependency{Name: name, Version: version})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = result
	return nil
}

// AsmDef is an assembly definition descriptor (*.asmdef).
type AsmDef struct {
	Name                  string   `json:"name"`
	RootNamespace         string   `json:"rootNamespace"`
	References            []string `json:"references,omitempty"`
	IncludePlatforms      []string `json:"includePlatforms"`
	ExcludePlatforms      []string `json:"excludePlatforms"`
	AllowUnsafeCode       bool     `json:"allowUnsafeCode"`
	OverrideReferences    bool     `json:"overrideReferences"`
	PrecompiledReferences []string `json:"precompiledReferences"`
	AutoReferenced        bool     `json:"autoReferenced"`
	DefineConstraints     []string `json:"defineConstraints"`
	NoEngineReferences    bool     `json:"noEngineReferences"`
}

// NewAsmDef returns a descriptor with every list initialized so the written
// file carries empty arrays instead of nulls.
func NewAsmDef(name, rootNamespace string) *AsmDef {
	return &AsmDef{
		Name:                  name,
		RootNamespace:         rootNamespace,
		IncludePlatforms:      []string{},
		ExcludePlatforms:      []string{},
		PrecompiledReferences: []string{},
		DefineConstraints:     []string{},
	}
}

// DocsConfig is the documentation configuration stored at
// Documentation~/config.json.
type DocsConfig struct {
	// Sources are directory globs, relative to the package root, whose C#
	// sources feed the API reference.
	Sources []string `json:"sources"`
	// DefineConstants are extra preprocessor symbols for the API projects.
	DefineConstants []string `json:"defineConstants"`
}

// DefaultSources are the source globs used when a config does not list any.
var DefaultSources = []string{"Runtime", "Editor"}

// NewDocsConfig returns the default documentation configuration.
func NewDocsConfig() *DocsConfig {
	return &DocsConfig{
		Sources:         append([]string(nil), DefaultSources...),
		DefineConstants: []string{},
	}
}

// Type constants for the files this package understands.
const (
	PackageFileName    = "package.json"
	AsmDefExtension    = ".asmdef"
	DocsConfigFileName = "config.json"
)
