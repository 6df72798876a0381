package docs

import (
	"strconv"
	"time"

	"github.com/upt-tools/upt/internal/manifest"
)

// SiteConfigFileName is the DocFx configuration written to the build root.
const SiteConfigFileName = "docfx.json"

// SiteConfig is the docfx.json document.
type SiteConfig struct {
	Metadata []MetadataConfig `json:"metadata"`
	Build    BuildConfig      `json:"build"`
}

// MetadataConfig configures API metadata extraction.
type MetadataConfig struct {
	Src                    []FileMapping `json:"src"`
	Dest                   string        `json:"dest"`
	Filter                 string        `json:"filter,omitempty"`
	Force                  bool          `json:"force"`
	AllowCompilationErrors bool          `json:"allowCompilationErrors"`
	DisableGitFeatures     bool          `json:"disableGitFeatures"`
	DisableDefaultFilter   bool          `json:"disableDefaultFilter"`
}

// FileMapping selects files relative to Src.
type FileMapping struct {
	Files   []string `json:"files"`
	Exclude []string `json:"exclude,omitempty"`
	Src     string   `json:"src,omitempty"`
	Dest    string   `json:"dest,omitempty"`
}

// BuildConfig configures site generation.
type BuildConfig struct {
	Content            []FileMapping             `json:"content"`
	Resource           []FileMapping             `json:"resource"`
	Overwrite          []FileMapping             `json:"overwrite"`
	Dest               string                    `json:"dest"`
	GlobalMetadata     map[string]any            `json:"globalMetadata"`
	FileMetadata       map[string]map[string]any `json:"fileMetadata"`
	Template           []string                  `json:"template"`
	PostProcessors     []string                  `json:"postProcessors"`
	MarkdownEngineName string                    `json:"markdownEngineName"`
	NoLangKeyword      bool                      `json:"noLangKeyword"`
	KeepFileLink       bool                      `json:"keepFileLink"`
	DisableGitFeatures bool                      `json:"disableGitFeatures"`
}

// NewSiteConfig returns the default site configuration for pkg. API
// projects are added later with AddProject.
func NewSiteConfig(pkg *manifest.Package, now time.Time) *SiteConfig {
	return &SiteConfig{
		Metadata: []MetadataConfig{{
			Src: []FileMapping{{
				Files:   []string{},
				Exclude: []string{"**/obj/**", "**/bin/**", "_site/**"},
				Src:     SourcesDirName,
			}},
			Dest:                   "api",
			Filter:                 FilterFileName,
			Force:                  true,
			AllowCompilationErrors: true,
		}},
		Build: BuildConfig{
			Content: []FileMapping{
				{Files: []string{"api/**.yml", "api/index.md"}},
				{Files: []string{"manual/**.md", "manual/**/toc.yml"}},
				{Files: []string{"changelog/**.md", "changelog/**/toc.yml"}},
				{Files: []string{"license/**.md", "license/**/toc.yml"}},
				{Files: []string{"*.md", "toc.yml"}, Exclude: []string{"obj/**", "_site/**"}},
			},
			Resource: []FileMapping{
				{Files: []string{"images/**", "manual/**/images/**", "logo.svg", "favicon.ico"}},
			},
			Overwrite: []FileMapping{
				{Files: []string{"apidoc/**.md"}, Exclude: []string{"obj/**", "_site/**"}},
			},
			Dest: "_site",
			GlobalMetadata: map[string]any{
				"_appTitle":              pkg.Title(),
				"_packageName":           pkg.Name,
				"_packageVersion":        pkg.Version,
				"_appLogoPath":           "logo.svg",
				"_appFaviconPath":        "favicon.ico",
				"_currentYear":           strconv.Itoa(now.Year()),
				"_customCopyrightNotice": "",
				"_disableToc":            false,
				"_enableNewTab":          true,
				"_enableSearch":          true,
				"_generatedOn":           now.Format("2006-01-02"),
				"_imageZoomThreshold":    1200,
				"_noIndex":               false,
				"_valueLabel":            "Value",
				"enableTocForManual":     false,
				"renameSamplesFolder":    true,
				"showScriptRef":          true,
			},
			FileMetadata: map[string]map[string]any{
				"_disableToc": {"changelog/*.md": false, "license/*.md": false},
				"_noindex":    {"changelog/*.md": false, "license/*.md": false},
			},
			Template:           []string{"default", "modern"},
			PostProcessors:     []string{},
			MarkdownEngineName: "markdig",
			DisableGitFeatures: true,
		},
	}
}

// AddProject registers a project file, relative to the sources folder, for
// API extraction.
func (c *SiteConfig) AddProject(file string) {
	src := &c.Metadata[0].Src[0]
	src.Files = append(src.Files, file)
}

// Projects returns the registered project files.
func (c *SiteConfig) Projects() []string {
	return c.Metadata[0].Src[0].Files
}
