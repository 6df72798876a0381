package docs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/logging"
)

func readTOC(t *testing.T, path string) []TOCEntry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []TOCEntry
	require.NoError(t, yaml.Unmarshal(data, &entries))
	return entries
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"heading", "# Hello World\n\nBody", "Hello World"},
		{"leading blank lines", "\n   \n# Hello World\n", "Hello World"},
		{"trailing whitespace", "#   Spaced Out  \r\n", "Spaced Out"},
		{"text before heading", "Intro\n# Hello", ""},
		{"second level heading", "## Section\n", ""},
		{"no space after hash", "#Title\n", ""},
		{"empty", "", ""},
		{"blank only", "\n\n\n", ""},
		{"byte order mark", "\ufeff# Hello World\n\nBody", "Hello World"},
		{"byte order mark before blank line", "\ufeff\n# Hello World\n", "Hello World"},
		{"long first line", strings.Repeat("x", 70000) + "\n# Late\n", ""},
		{"first line over limit", strings.Repeat("x", 2*1024*1024), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Title(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTOCEntriesOrder(t *testing.T) {
	toc := &TOC{}
	toc.AddIndexed(0, "B", "b.md", "")
	toc.AddIndexed(0, "A", "a.md", "")
	toc.AddIndexed(-1, "Z", "z.md", "")

	var names []string
	for _, e := range toc.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Z", "A", "B"}, names)
}

func TestTOCMarshal(t *testing.T) {
	toc := &TOC{}
	toc.Add("Intro", "intro.md", "")
	toc.AddTOC("Guide", "guide/toc.yml", "guide/index.md")

	out, err := toc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "- name: Intro\n"+
		"  href: intro.md\n"+
		"- name: Guide\n"+
		"  tocHref: guide/toc.yml\n"+
		"  topicHref: guide/index.md\n", string(out))
}

func TestIndexFromFileName(t *testing.T) {
	assert.Equal(t, 2, IndexFromFileName("02-setup.md"))
	assert.Equal(t, 10, IndexFromFileName("10-a-b.md"))
	assert.Equal(t, -1, IndexFromFileName("setup.md"))
	assert.Equal(t, -1, IndexFromFileName("how-to.md"))
}

func TestTOCBuilderBuildsNestedSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Manual\n")
	writeFile(t, filepath.Join(dir, "01-start.md"), "# Getting Started\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "no heading here\n")
	writeFile(t, filepath.Join(dir, "advanced", "overview.md"), "# Advanced\n")
	writeFile(t, filepath.Join(dir, "advanced", "deep.md"), "# Deep Dive\n")
	writeFile(t, filepath.Join(dir, "images", "logo.png"), "png")

	var buf bytes.Buffer
	logger := logging.New(&buf, log.DebugLevel)

	info, err := NewTOCBuilder(fileutil.New(nil), logger).Build(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Manual", info.Title)
	assert.Equal(t, filepath.Join(dir, "index.md"), info.TopicPath)
	assert.Equal(t, filepath.Join(dir, TOCFileName), info.TOCPath)

	assert.Equal(t, []TOCEntry{
		{Name: "Manual", Href: "index.md"},
		{Name: "Getting Started", Href: "01-start.md"},
		{Name: "Advanced", TOCHref: "advanced/toc.yml", TopicHref: "advanced/overview.md"},
	}, readTOC(t, info.TOCPath))

	assert.Equal(t, []TOCEntry{
		{Name: "Advanced", Href: "overview.md"},
		{Name: "Deep Dive", Href: "deep.md"},
	}, readTOC(t, filepath.Join(dir, "advanced", TOCFileName)))

	assert.NoFileExists(t, filepath.Join(dir, "images", TOCFileName))

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "Skipping page without a title")
	assert.Contains(t, out, "notes.md")
	assert.Equal(t, 0, logger.ErrorCount())
}

func TestTOCBuilderByteOrderMarkTopic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "\ufeff# Manual\n")
	writeFile(t, filepath.Join(dir, "page.md"), "\ufeff# Page\n")

	info, err := NewTOCBuilder(fileutil.New(nil), nil).Build(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Manual", info.Title)
	assert.Equal(t, []TOCEntry{
		{Name: "Manual", Href: "index.md"},
		{Name: "Page", Href: "page.md"},
	}, readTOC(t, info.TOCPath))
}

func TestTOCBuilderTopicPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Index\n")
	writeFile(t, filepath.Join(dir, "introduction.md"), "# Introduction\n")

	info, err := NewTOCBuilder(fileutil.New(nil), nil).Build(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Introduction", info.Title)
}

func TestTOCBuilderMissingTopic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.md"), "# Page\n")

	info, err := NewTOCBuilder(fileutil.New(nil), nil).Build(dir)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.NoFileExists(t, filepath.Join(dir, TOCFileName))
}

func TestTOCBuilderUntitledTopic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "Welcome\n")

	info, err := NewTOCBuilder(fileutil.New(nil), nil).Build(dir)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.NoFileExists(t, filepath.Join(dir, TOCFileName))
}

func TestTOCBuilderKeepsExistingTOC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.md"), "# Manual\n")
	writeFile(t, filepath.Join(dir, TOCFileName), "- name: Custom\n  href: custom.md\n")

	info, err := NewTOCBuilder(fileutil.New(nil), nil).Build(dir)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []TOCEntry{{Name: "Custom", Href: "custom.md"}}, readTOC(t, info.TOCPath))
}

func TestRootTOC(t *testing.T) {
	toc := RootTOC(Sections{API: true, Changelog: true, License: true})
	assert.Equal(t, []TOCEntry{
		{Name: "API Documentation", Href: "api/", TopicHref: "api/index.md"},
		{Name: "Changelog", Href: "changelog/", TopicHref: "changelog/CHANGELOG.md"},
		{Name: "License", Href: "license/", TopicHref: "license/LICENSE.md"},
	}, toc.Entries())

	toc = RootTOC(Sections{ManualTopic: "manual/index.md"})
	assert.Equal(t, []TOCEntry{
		{Name: "Manual", Href: "manual/", TopicHref: "manual/index.md"},
	}, toc.Entries())

	assert.Zero(t, RootTOC(Sections{}).Len())
}
