package docs

import (
	"encoding/xml"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/upt-tools/upt/internal/fileutil"
)

const (
	// DocsDefine is always defined when compiling sources for documentation.
	DocsDefine = "PACKAGE_DOCS_GENERATION"
	// DefaultLangVersion is used when csc.rsp does not set -langVersion.
	DefaultLangVersion = "10"

	projectExtension = ".csproj"
)

// Target framework monikers by Unity version.
const (
	FrameworkNetStandard21 = "netstandard2.1"
	FrameworkNetStandard20 = "netstandard2.0"
	FrameworkLegacy        = "net48"
)

// Settings are shared by every project of a build.
type Settings struct {
	Defines         string
	TargetFramework string
}

// NewSettings derives the build-wide project settings from the package's
// Unity version and the extra defines of the documentation config.
func NewSettings(unity string, extraDefines []string) Settings {
	return Settings{
		Defines:         DefineConstants(extraDefines),
		TargetFramework: TargetFramework(unity),
	}
}

// DefineConstants joins DocsDefine and extra with semicolons, in order.
func DefineConstants(extra []string) string {
	return strings.Join(append([]string{DocsDefine}, extra...), ";")
}

// TargetFramework maps a Unity version ("2022.3") to a target framework.
// Unity 2021.2 and newer get .NET Standard 2.1, 2018 and newer get .NET
// Standard 2.0, anything older or unparsable the legacy profile.
func TargetFramework(unity string) string {
	v, err := semver.NewVersion(unity)
	if err != nil {
		return FrameworkLegacy
	}
	switch {
	case v.Major() > 2021 || (v.Major() == 2021 && v.Minor() >= 2):
		return FrameworkNetStandard21
	case v.Major() >= 2018:
		return FrameworkNetStandard20
	default:
		return FrameworkLegacy
	}
}

// Project is the compiler project synthesized for one assembly.
type Project struct {
	Name            string
	Files           []string
	AllowUnsafe     bool
	NoWarn          string
	LangVersion     string
	Nullable        bool
	Defines         string
	TargetFramework string
}

// NewProject builds the project for a.
func NewProject(a Assembly, s Settings) Project {
	lang := a.Options.LangVersion
	if lang == "" {
		lang = DefaultLangVersion
	}
	return Project{
		Name:            a.Def.Name,
		Files:           a.Files,
		AllowUnsafe:     a.Def.AllowUnsafeCode,
		NoWarn:          a.Options.NoWarn,
		LangVersion:     lang,
		Nullable:        a.Options.Nullable,
		Defines:         s.Defines,
		TargetFramework: s.TargetFramework,
	}
}

// FileName is the project's file name relative to the sources folder.
func (p Project) FileName() string {
	return p.Name + projectExtension
}

type csproj struct {
	XMLName    xml.Name        `xml:"Project"`
	SDK        string          `xml:"Sdk,attr"`
	Properties csprojPropGroup `xml:"PropertyGroup"`
	Items      csprojItemGroup `xml:"ItemGroup"`
}

type csprojPropGroup struct {
	DefineConstants           string `xml:"DefineConstants"`
	TargetFramework           string `xml:"TargetFramework"`
	AllowUnsafeBlocks         bool   `xml:"AllowUnsafeBlocks"`
	LangVersion               string `xml:"LangVersion"`
	EnableDefaultCompileItems bool   `xml:"EnableDefaultCompileItems"`
	Nullable                  string `xml:"Nullable,omitempty"`
	NoWarn                    string `xml:"NoWarn,omitempty"`
}

type csprojItemGroup struct {
	References []csprojItem `xml:"Reference"`
	Compile    []csprojItem `xml:"Compile"`
}

type csprojItem struct {
	Include string `xml:"Include,attr"`
}

// Render returns the SDK-style project document. Default compile items
// are always disabled so only Files are compiled.
func (p Project) Render() ([]byte, error) {
	doc := csproj{
		SDK: "Microsoft.NET.Sdk",
		Properties: csprojPropGroup{
			DefineConstants:   p.Defines,
			TargetFramework:   p.TargetFramework,
			AllowUnsafeBlocks: p.AllowUnsafe,
			LangVersion:       p.LangVersion,
			NoWarn:            p.NoWarn,
		},
		Items: csprojItemGroup{
			References: []csprojItem{{Include: "System"}},
		},
	}
	if p.Nullable {
		doc.Properties.Nullable = "enable"
	}
	for _, f := range p.Files {
		doc.Items.Compile = append(doc.Items.Compile, csprojItem{Include: f})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding project %s: %w", p.Name, err)
	}
	return append(out, '\n'), nil
}

// Synthesize writes one project per assembly with at least one source file
// into dir and yields each project's file name in discovery order. Writing
// happens as the sequence is consumed; iteration stops at the first error.
func Synthesize(assemblies []Assembly, s Settings, dir string, fm *fileutil.Manager) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, a := range assemblies {
			if len(a.Files) == 0 {
				continue
			}
			p := NewProject(a, s)
			data, err := p.Render()
			if err == nil {
				err = fm.WriteBytes(filepath.Join(dir, p.FileName()), data)
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(p.FileName(), nil) {
				return
			}
		}
	}
}
