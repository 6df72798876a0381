package docs

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/upt-tools/upt/internal/manifest"
)

const (
	sourceExtension  = ".cs"
	responseFileName = "csc.rsp"
)

// Assembly is one assembly definition found under a source root together
// with the source files it claimed.
type Assembly struct {
	Def *manifest.AsmDef
	// Dir is the descriptor's folder, relative to the discovery root, in
	// slash form ("." for the root itself).
	Dir string
	// Files are the claimed source files, relative to the discovery root,
	// in slash form and lexical order.
	Files   []string
	Options CompilerOptions
}

// CompilerOptions are the overrides read from a folder's csc.rsp.
type CompilerOptions struct {
	NoWarn      string
	LangVersion string
	Nullable    bool
}

// Discover finds every *.asmdef under root and assigns each source file to
// exactly one assembly. Descriptors are visited in CompareAsmDefPaths order
// so nested assemblies claim their files before an enclosing one does.
// A descriptor that cannot be parsed aborts discovery.
func Discover(root string) ([]Assembly, error) {
	descriptors, err := findFiles(root, root, manifest.AsmDefExtension)
	if err != nil {
		return nil, fmt.Errorf("scanning %s for assembly definitions: %w", root, err)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return CompareAsmDefPaths(descriptors[i], descriptors[j]) < 0
	})

	claimed := make(map[string]bool)
	assemblies := make([]Assembly, 0, len(descriptors))
	for _, rel := range descriptors {
		descPath := filepath.Join(root, filepath.FromSlash(rel))
		def, err := manifest.ReadAsmDef(descPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", descPath, err)
		}

		dir := path.Dir(rel)
		sources, err := findFiles(root, filepath.Join(root, filepath.FromSlash(dir)), sourceExtension)
		if err != nil {
			return nil, fmt.Errorf("scanning sources of %s: %w", def.Name, err)
		}

		var files []string
		for _, f := range sources {
			if claimed[f] {
				continue
			}
			claimed[f] = true
			files = append(files, f)
		}

		opts, err := readResponseFile(filepath.Join(root, filepath.FromSlash(dir), responseFileName))
		if err != nil {
			return nil, err
		}

		assemblies = append(assemblies, Assembly{
			Def:     def,
			Dir:     dir,
			Files:   files,
			Options: opts,
		})
	}
	return assemblies, nil
}

// findFiles returns the files under dir with the given extension, relative
// to root, in slash form and lexical order.
func findFiles(root, dir, ext string) ([]string, error) {
	var result []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ext) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		result = append(result, filepath.ToSlash(rel))
		return nil
	})
	return result, err
}

// CompareAsmDefPaths orders descriptor paths depth first: a path with more
// separators sorts before a shallower one. Paths of equal depth compare
// byte by byte; where they first differ, the path that reaches its
// extension dot sorts after the other, otherwise the smaller byte wins.
// When one path is a prefix of the other the shorter one sorts after.
func CompareAsmDefPaths(x, y string) int {
	dx, dy := pathDepth(x), pathDepth(y)
	if dx != dy {
		if dx > dy {
			return -1
		}
		return 1
	}

	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		cx, cy := x[i], y[i]
		if cx == cy {
			continue
		}
		if cx == '.' {
			return 1
		}
		if cy == '.' {
			return -1
		}
		if cx < cy {
			return -1
		}
		return 1
	}

	switch {
	case len(x) == len(y):
		return 0
	case len(x) < len(y):
		return 1
	default:
		return -1
	}
}

func pathDepth(p string) int {
	return strings.Count(p, "/") + strings.Count(p, `\`)
}

// readResponseFile loads csc.rsp overrides. A missing file yields no overrides.
func readResponseFile(p string) (CompilerOptions, error) {
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return CompilerOptions{}, nil
	}
	if err != nil {
		return CompilerOptions{}, fmt.Errorf("opening response file %s: %w", p, err)
	}
	defer f.Close()

	values, err := ParseResponseFile(f)
	if err != nil {
		return CompilerOptions{}, fmt.Errorf("reading response file %s: %w", p, err)
	}
	return CompilerOptionsFrom(values), nil
}

// ParseResponseFile reads "-key:value" lines into a map keyed by the
// lower-cased option name. Other lines are ignored.
func ParseResponseFile(r io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if !strings.HasPrefix(line, "-") {
			continue
		}
		key, value, ok := strings.Cut(line[1:], ":")
		if !ok || key == "" {
			continue
		}
		result[strings.ToLower(key)] = value
	}
	return result, scanner.Err()
}

// CompilerOptionsFrom extracts the recognized options from parsed
// response-file values.
func CompilerOptionsFrom(values map[string]string) CompilerOptions {
	var opts CompilerOptions
	if v, ok := values["nowarn"]; ok {
		opts.NoWarn = v
	}
	if v, ok := values["nullable"]; ok {
		opts.Nullable = v == "enable"
	}
	if v, ok := values["langversion"]; ok {
		opts.LangVersion = v
	}
	return opts
}
