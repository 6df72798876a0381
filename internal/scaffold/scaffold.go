package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/logging"
	"github.com/upt-tools/upt/internal/manifest"
)

//go:embed scaffolds/*.tmpl
var scaffoldFS embed.FS

// ErrExists is returned when a target directory exists and Force is off.
var ErrExists = errors.New("directory already exists")

// Folder and file names of a generated package.
const (
	RuntimeDir       = "Runtime"
	EditorDir        = "Editor"
	DocumentationDir = "Documentation~"
	testsSuffix      = ".tests"
)

// Mode selects the assemblies a new package gets.
type Mode int

const (
	ModeEditor Mode = 1 << iota
	ModeRuntime
	ModeDefault = ModeEditor | ModeRuntime
)

func (m Mode) has(flag Mode) bool { return m&flag != 0 }

// Options describe the package to create.
type Options struct {
	Name          string
	Version       string
	DisplayName   string
	Unity         string
	RootNamespace string
	// AssemblyName is the runtime assembly name; derived from Name when empty.
	AssemblyName string
	Author       *manifest.Author
	Mode         Mode
	Force        bool
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Dir      string
	Files    []string
	Warnings []string
}

// pageData holds the variables available to page templates.
type pageData struct {
	Title   string
	Version string
}

// Initializer writes new packages into a parent directory.
type Initializer struct {
	opts Options
	fm   *fileutil.Manager
	log  *logging.Logger
}

// New creates an Initializer. Zero Mode means ModeDefault.
func New(opts Options, fm *fileutil.Manager, log *logging.Logger) *Initializer {
	if log == nil {
		log = logging.Discard()
	}
	if fm == nil {
		fm = fileutil.New(log)
	}
	if opts.Mode == 0 {
		opts.Mode = ModeDefault
	}
	if opts.AssemblyName == "" {
		opts.AssemblyName = AssemblyNameFromPackage(opts.Name)
	}
	return &Initializer{opts: opts, fm: fm, log: log}
}

func (i *Initializer) runtimeAssembly() string { return i.opts.AssemblyName }
func (i *Initializer) editorAssembly() string  { return i.opts.AssemblyName + ".Editor" }

// AssemblyNameFromPackage derives an assembly name from a package name:
// the first segment is dropped, letters, digits and dots are kept, and every
// character following a non-alphanumeric one is capitalized.
// "com.example.my-package" becomes "Example.MyPackage".
func AssemblyNameFromPackage(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	capitalize := true
	for _, r := range name {
		alnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		if alnum || r == '.' {
			if capitalize {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
		}
		capitalize = !alnum
	}
	return b.String()
}

// InitPackage creates the package in parent/<Name>.
func (i *Initializer) InitPackage(parent string) (*Result, error) {
	o := i.opts
	i.log.Info("Initializing package", "name", o.Name, "version", o.Version)

	dir, err := i.prepare(filepath.Join(parent, o.Name))
	if err != nil {
		return nil, err
	}
	result := &Result{Dir: dir}

	pkg := &manifest.Package{
		Name:        o.Name,
		Version:     o.Version,
		DisplayName: o.DisplayName,
		Unity:       o.Unity,
		Author:      o.Author,
	}
	if err := i.writePackage(result, pkg); err != nil {
		return nil, err
	}

	if o.Mode.has(ModeRuntime) {
		def := manifest.NewAsmDef(i.runtimeAssembly(), o.RootNamespace)
		if err := i.writeAsmDef(result, RuntimeDir, def); err != nil {
			return nil, err
		}
	}

	if o.Mode.has(ModeEditor) {
		def := manifest.NewAsmDef(i.editorAssembly(), o.RootNamespace)
		def.IncludePlatforms = []string{"Editor"}
		if o.Mode.has(ModeRuntime) {
			def.References = []string{i.runtimeAssembly()}
		}
		if err := i.writeAsmDef(result, EditorDir, def); err != nil {
			return nil, err
		}
	}

	files, err := writeDocumentation(i.fm, dir, pkg)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, files...)
	return result, nil
}

// InitTestsPackage creates the companion package parent/<Name>.tests that
// depends on the main package and holds NUnit test assemblies.
func (i *Initializer) InitTestsPackage(parent string) (*Result, error) {
	o := i.opts
	name := o.Name + testsSuffix
	i.log.Info("Initializing package", "name", name, "version", o.Version)

	dir, err := i.prepare(filepath.Join(parent, name))
	if err != nil {
		return nil, err
	}
	result := &Result{Dir: dir}

	pkg := &manifest.Package{
		Name:         name,
		Version:      o.Version,
		Unity:        o.Unity,
		Author:       o.Author,
		Dependencies: manifest.Dependencies{{Name: o.Name, Version: o.Version}},
	}
	if o.DisplayName != "" {
		pkg.DisplayName = o.DisplayName + " - Tests"
	}
	if err := i.writePackage(result, pkg); err != nil {
		return nil, err
	}

	rootNamespace := "Tests"
	if o.RootNamespace != "" {
		rootNamespace = o.RootNamespace + ".Tests"
	}

	if o.Mode.has(ModeRuntime) {
		def := testAsmDef(i.runtimeAssembly()+".Tests", rootNamespace)
		def.References = []string{i.runtimeAssembly()}
		if err := i.writeAsmDef(result, RuntimeDir, def); err != nil {
			return nil, err
		}
	}

	def := testAsmDef(i.editorAssembly()+".Tests", rootNamespace)
	def.IncludePlatforms = []string{"Editor"}
	def.References = []string{}
	if o.Mode.has(ModeRuntime) {
		def.References = append(def.References, i.runtimeAssembly())
	}
	if o.Mode.has(ModeEditor) {
		def.References = append(def.References, i.editorAssembly())
	}
	if err := i.writeAsmDef(result, EditorDir, def); err != nil {
		return nil, err
	}
	return result, nil
}

func testAsmDef(name, rootNamespace string) *manifest.AsmDef {
	def := manifest.NewAsmDef(name, rootNamespace)
	def.OverrideReferences = true
	def.PrecompiledReferences = []string{"nunit.framework.dll"}
	def.DefineConstraints = []string{"UNITY_INCLUDE_TESTS"}
	return def
}

// prepare creates dir, replacing it when Force is set.
func (i *Initializer) prepare(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	if err := replaceDir(i.fm, abs, i.opts.Force); err != nil {
		return "", err
	}
	return abs, nil
}

func (i *Initializer) writePackage(result *Result, pkg *manifest.Package) error {
	path := filepath.Join(result.Dir, manifest.PackageFileName)
	if err := i.fm.WriteJSON(path, pkg); err != nil {
		return err
	}
	result.Files = append(result.Files, manifest.PackageFileName)

	valResult, err := manifest.ValidateFile(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not validate manifest: %v", err))
		return nil
	}
	for _, issue := range valResult.Issues {
		result.Warnings = append(result.Warnings, issue.String())
	}
	return nil
}

func (i *Initializer) writeAsmDef(result *Result, folder string, def *manifest.AsmDef) error {
	rel := filepath.Join(folder, def.Name+manifest.AsmDefExtension)
	if err := i.fm.WriteJSON(filepath.Join(result.Dir, rel), def); err != nil {
		return err
	}
	result.Files = append(result.Files, filepath.ToSlash(rel))
	return nil
}

// InitDocumentation creates Documentation~ with a default configuration and
// landing page for the package in dir.
func InitDocumentation(fm *fileutil.Manager, dir string, pkg *manifest.Package, force bool) (*Result, error) {
	if fm == nil {
		fm = fileutil.New(nil)
	}
	if err := replaceDir(fm, filepath.Join(dir, DocumentationDir), force); err != nil {
		return nil, err
	}
	files, err := writeDocumentation(fm, dir, pkg)
	if err != nil {
		return nil, err
	}
	return &Result{Dir: dir, Files: files}, nil
}

func writeDocumentation(fm *fileutil.Manager, dir string, pkg *manifest.Package) ([]string, error) {
	docs := filepath.Join(dir, DocumentationDir)
	if err := fm.WriteJSON(filepath.Join(docs, manifest.DocsConfigFileName), manifest.NewDocsConfig()); err != nil {
		return nil, err
	}

	page, err := render("index.md.tmpl", pageData{Title: pkg.Title(), Version: pkg.Version})
	if err != nil {
		return nil, err
	}
	if err := fm.WriteBytes(filepath.Join(docs, "index.md"), page); err != nil {
		return nil, err
	}
	return []string{
		DocumentationDir + "/" + manifest.DocsConfigFileName,
		DocumentationDir + "/index.md",
	}, nil
}

func replaceDir(fm *fileutil.Manager, dir string, force bool) error {
	if fileutil.DirExists(dir) {
		if !force {
			return fmt.Errorf("cannot create %s: %w (use --force to overwrite it)", dir, ErrExists)
		}
		if err := fm.DeleteDirectory(dir); err != nil {
			return err
		}
	}
	return fm.CreateDirectory(dir)
}

func render(name string, data any) ([]byte, error) {
	tmplBytes, err := scaffoldFS.ReadFile("scaffolds/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
