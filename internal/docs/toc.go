package docs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/logging"
)

// TOCFileName is the navigation file written into every documented folder.
const TOCFileName = "toc.yml"

// TopicFileNames are the landing page candidates of a folder, by priority.
var TopicFileNames = []string{"overview.md", "introduction.md", "index.md"}

// TOCEntry is one navigation entry. Href points at a page, TOCHref at a
// nested toc.yml; TopicHref is the landing page of a nested section.
type TOCEntry struct {
	Name      string `yaml:"name"`
	Href      string `yaml:"href,omitempty"`
	TOCHref   string `yaml:"tocHref,omitempty"`
	TopicHref string `yaml:"topicHref,omitempty"`
}

type tocItem struct {
	index int
	entry TOCEntry
}

// TOC is an ordered navigation list. Items sort by index, then by name.
type TOC struct {
	items []tocItem
}

// Add appends a page entry positioned after every item added so far.
func (t *TOC) Add(name, href, topicHref string) {
	t.AddIndexed(len(t.items), name, href, topicHref)
}

// AddIndexed adds a page entry at an explicit index.
func (t *TOC) AddIndexed(index int, name, href, topicHref string) {
	t.items = append(t.items, tocItem{
		index: index,
		entry: TOCEntry{Name: name, Href: href, TopicHref: topicHref},
	})
}

// AddTOC adds a nested section pointing at another toc.yml.
func (t *TOC) AddTOC(name, tocHref, topicHref string) {
	t.items = append(t.items, tocItem{
		index: len(t.items),
		entry: TOCEntry{Name: name, TOCHref: tocHref, TopicHref: topicHref},
	})
}

// Len returns the number of entries.
func (t *TOC) Len() int {
	return len(t.items)
}

// Entries returns the entries in navigation order.
func (t *TOC) Entries() []TOCEntry {
	sorted := make([]tocItem, len(t.items))
	copy(sorted, t.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].index != sorted[j].index {
			return sorted[i].index < sorted[j].index
		}
		return sorted[i].entry.Name < sorted[j].entry.Name
	})

	entries := make([]TOCEntry, len(sorted))
	for i, item := range sorted {
		entries[i] = item.entry
	}
	return entries
}

// Marshal renders the TOC as YAML.
func (t *TOC) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.Entries()); err != nil {
		return nil, fmt.Errorf("encoding toc: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the TOC to path.
func (t *TOC) Write(fm *fileutil.Manager, path string) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	return fm.WriteBytes(path, data)
}

// maxLineSize bounds a single line read from markdown or response files.
const maxLineSize = 1024 * 1024

// Title returns the text of the level-one heading that opens a markdown
// document. Leading blank lines and a byte order mark are skipped; any
// other first line, including one longer than maxLineSize, means the
// document has no title.
func Title(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimRightFunc(line, isSpace)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "# ") {
			return "", nil
		}
		return strings.TrimLeftFunc(strings.TrimLeft(line, "#"), isSpace), nil
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return "", err
	}
	return "", nil
}

// TitleFromFile is Title applied to the file at path.
func TitleFromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Title(f)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

// TopicInfo describes a documented folder.
type TopicInfo struct {
	Title     string
	TOCPath   string
	TopicPath string
}

// TOCBuilder walks a manual folder tree and writes a toc.yml into every
// folder that has a titled landing page.
type TOCBuilder struct {
	fm  *fileutil.Manager
	log *logging.Logger
}

// NewTOCBuilder creates a TOCBuilder.
func NewTOCBuilder(fm *fileutil.Manager, log *logging.Logger) *TOCBuilder {
	if log == nil {
		log = logging.Discard()
	}
	return &TOCBuilder{fm: fm, log: log}
}

// Build documents dir and its subfolders. It returns nil when dir has no
// landing page, when the landing page has no title, or when there is
// nothing to list. An existing toc.yml is left untouched.
func (b *TOCBuilder) Build(dir string) (*TopicInfo, error) {
	topic := findTopicFile(dir)
	if topic == "" {
		b.log.Warn("Cannot generate TOC: missing topic file",
			"dir", dir, "expected", strings.Join(TopicFileNames, ", "))
		return nil, nil
	}

	title, err := TitleFromFile(topic)
	if err != nil {
		return nil, fmt.Errorf("reading title of %s: %w", topic, err)
	}
	if title == "" {
		b.log.Warn("Cannot generate TOC: topic file has no title heading", "file", topic)
		return nil, nil
	}

	tocPath := filepath.Join(dir, TOCFileName)
	if !fileutil.FileExists(tocPath) {
		toc, err := b.collect(dir)
		if err != nil {
			return nil, err
		}
		if toc.Len() == 0 {
			return nil, nil
		}
		if err := toc.Write(b.fm, tocPath); err != nil {
			return nil, err
		}
	}

	return &TopicInfo{Title: title, TOCPath: tocPath, TopicPath: topic}, nil
}

func (b *TOCBuilder) collect(dir string) (*TOC, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	toc := &TOC{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		title, err := TitleFromFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading title of %s: %w", e.Name(), err)
		}
		if title == "" {
			b.log.Warn("Skipping page without a title. Please ensure the file starts with a '# ' heading.",
				"file", filepath.Join(dir, e.Name()))
			continue
		}
		toc.AddIndexed(IndexFromFileName(e.Name()), title, e.Name(), "")
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		info, err := b.Build(sub)
		if err != nil {
			return nil, err
		}
		if info == nil {
			continue
		}
		tocHref, err := relSlash(dir, info.TOCPath)
		if err != nil {
			return nil, err
		}
		topicHref, err := relSlash(dir, info.TopicPath)
		if err != nil {
			return nil, err
		}
		toc.AddTOC(info.Title, tocHref, topicHref)
	}
	return toc, nil
}

// IndexFromFileName returns the number before the first '-' of a file name
// ("02-setup.md" is 2), or -1 when there is none.
func IndexFromFileName(name string) int {
	prefix, _, ok := strings.Cut(filepath.Base(name), "-")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return -1
	}
	return n
}

func findTopicFile(dir string) string {
	for _, name := range TopicFileNames {
		p := filepath.Join(dir, name)
		if fileutil.FileExists(p) {
			return p
		}
	}
	return ""
}

func relSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Sections records which top-level parts a documentation build contains.
// ManualTopic is the manual landing page relative to the build root, empty
// when there is no manual.
type Sections struct {
	ManualTopic string
	API         bool
	Changelog   bool
	License     bool
}

// RootTOC builds the top-level navigation from the sections present.
func RootTOC(s Sections) *TOC {
	toc := &TOC{}
	if s.ManualTopic != "" {
		toc.Add("Manual", "manual/", s.ManualTopic)
	}
	if s.API {
		toc.Add("API Documentation", "api/", "api/index.md")
	}
	if s.Changelog {
		toc.Add("Changelog", "changelog/", "changelog/CHANGELOG.md")
	}
	if s.License {
		toc.Add("License", "license/", "license/LICENSE.md")
	}
	return toc
}
