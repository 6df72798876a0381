package docs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/upt-tools/upt/internal/fileutil"
)

//go:embed templates/*
var templateFS embed.FS

// Build folder layout.
const (
	SourcesDirName   = "sources"
	ManualDirName    = "manual"
	APIDirName       = "api"
	ChangelogDirName = "changelog"
	LicenseDirName   = "license"
	SiteDirName      = "_site"
	FilterFileName   = "filter.yml"
	IndexFileName    = "index.md"
)

var (
	licenseFiles = []string{
		"LICENSE.md", "LICENSE.txt", "LICENSE",
		"License.md", "License.txt", "License",
	}
	thirdPartyNoticeFiles = []string{
		"Third Party Notices.md", "ThirdPartyNotices.md",
		"Third Party Notices.txt", "ThirdPartyNotices.txt",
		"Third Party Notices", "ThirdPartyNotices",
	}
	changelogFiles = []string{
		"CHANGELOG.md", "CHANGELOG.txt", "CHANGELOG",
		"Changelog.md", "Changelog.txt", "Changelog",
		"ChangeLog.md", "ChangeLog.txt", "ChangeLog",
	}

	// files a manual may provide that belong at the site root.
	rootAssetFiles = []string{"favicon.ico", "logo.svg", FilterFileName, "projectMetadata.yml"}

	sourcePatterns = []string{"*.asmdef", "*.rsp", "*.cs"}
)

func (b *Builder) writeTemplate(name, dst string) error {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", name, err)
	}
	return b.fm.WriteBytes(dst, data)
}

// writeDefaults writes the files a manual may later override: the API
// landing page, the API filter and the site home page.
func (b *Builder) writeDefaults() error {
	if err := b.writeTemplate("api_index.md", filepath.Join(b.buildDir, APIDirName, IndexFileName)); err != nil {
		return err
	}
	if err := b.writeTemplate(FilterFileName, filepath.Join(b.buildDir, FilterFileName)); err != nil {
		return err
	}
	return b.writeTemplate(IndexFileName, filepath.Join(b.buildDir, IndexFileName))
}

// ResolveSourceDirs expands the documentation source globs against root and
// returns the matching folders relative to root, deduplicated and sorted.
// Folders ignored by Unity and test folders are dropped.
func ResolveSourceDirs(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("expanding source pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || fileutil.IsPathIgnored(m) || fileutil.IsTestFolder(m) {
				continue
			}
			if !fileutil.DirExists(filepath.Join(root, filepath.FromSlash(m))) {
				continue
			}
			seen[m] = true
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// copySources copies descriptors, response files and sources of every
// source folder into the build. It reports whether any source was copied.
func (b *Builder) copySources(patterns []string) (bool, error) {
	dirs, err := ResolveSourceDirs(b.opts.PackageDir, patterns)
	if err != nil {
		return false, err
	}

	sourceCount := 0
	for _, dir := range dirs {
		src := filepath.Join(b.opts.PackageDir, filepath.FromSlash(dir))
		dst := filepath.Join(b.sourcesDir, filepath.FromSlash(dir))
		b.log.Debug("Copying sources", "dir", dir)
		for _, pattern := range sourcePatterns {
			copied, err := b.fm.CopyDirectory(src, dst, pattern)
			if err != nil {
				return false, err
			}
			if pattern == "*.cs" {
				sourceCount += len(copied)
			}
		}
	}
	if sourceCount == 0 {
		b.log.Warn("No source files found.", "sources", patterns)
	}
	return sourceCount > 0, nil
}

// copyLicenses copies the package license and third party notices into the
// license section.
func (b *Builder) copyLicenses() (bool, error) {
	dir := filepath.Join(b.buildDir, LicenseDirName)
	toc := &TOC{}
	landing := ""

	ok, err := b.fm.CopyAny(b.opts.PackageDir, licenseFiles, filepath.Join(dir, "LICENSE.md"))
	if err != nil {
		return false, err
	}
	if ok {
		toc.Add("License", "LICENSE.md", "")
		landing = "LICENSE.html"
	}

	ok, err = b.fm.CopyAny(b.opts.PackageDir, thirdPartyNoticeFiles, filepath.Join(dir, "ThirdPartyNotices.md"))
	if err != nil {
		return false, err
	}
	if ok {
		toc.Add("Third Party Notices", "ThirdPartyNotices.md", "")
		if landing == "" {
			landing = "ThirdPartyNotices.html"
		}
	}

	if toc.Len() == 0 {
		b.log.Warn("No license found.")
		return false, nil
	}
	if err := b.fm.WriteText(filepath.Join(dir, IndexFileName), redirect(landing)); err != nil {
		return false, err
	}
	return true, toc.Write(b.fm, filepath.Join(dir, TOCFileName))
}

// copyChangelog copies the package changelog into the changelog section.
func (b *Builder) copyChangelog() (bool, error) {
	dir := filepath.Join(b.buildDir, ChangelogDirName)
	ok, err := b.fm.CopyAny(b.opts.PackageDir, changelogFiles, filepath.Join(dir, "CHANGELOG.md"))
	if err != nil {
		return false, err
	}
	if !ok {
		b.log.Warn("No changelog found.")
		return false, nil
	}
	if err := b.fm.WriteText(filepath.Join(dir, IndexFileName), redirect("CHANGELOG.html")); err != nil {
		return false, err
	}
	toc := &TOC{}
	toc.Add("Changelog", "CHANGELOG.md", "")
	return true, toc.Write(b.fm, filepath.Join(dir, TOCFileName))
}

// copyManual copies the authored documentation into the manual section and
// lifts site-level assets to the build root.
func (b *Builder) copyManual() error {
	if _, err := b.fm.CopyDirectory(b.opts.SourceDir, b.manualDir, "*"); err != nil {
		return err
	}
	for _, name := range rootAssetFiles {
		if err := b.fm.MoveFile(name, b.manualDir, b.buildDir); err != nil {
			return err
		}
	}
	return nil
}

func redirect(page string) string {
	return fmt.Sprintf("<script>window.location.replace('%s')</script>", page)
}
