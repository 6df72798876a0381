package docs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/logging"
	"github.com/upt-tools/upt/internal/manifest"
)

// ErrOutputExists is returned when the output folder exists and Force is off.
var ErrOutputExists = errors.New("output directory already exists")

// Options configures a documentation build. All paths are absolute.
type Options struct {
	// PackageDir is the package root holding package.json.
	PackageDir string
	// SourceDir is the authored documentation folder (Documentation~).
	SourceDir string
	// BuildDir is the scratch folder. It is wiped before the build.
	BuildDir string
	// OutputDir receives the generated site.
	OutputDir       string
	Force           bool
	KeepBuildFolder bool
	// Now stamps the generated site; time.Now when nil.
	Now func() time.Time
}

// Builder assembles a DocFx project from a package and runs DocFx on it.
type Builder struct {
	pkg    *manifest.Package
	opts   Options
	runner Runner
	fm     *fileutil.Manager
	log    *logging.Logger

	buildDir   string
	sourcesDir string
	manualDir  string
}

// NewBuilder creates a Builder for pkg.
func NewBuilder(pkg *manifest.Package, opts Options, runner Runner, fm *fileutil.Manager, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.Discard()
	}
	if fm == nil {
		fm = fileutil.New(log)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{
		pkg:        pkg,
		opts:       opts,
		runner:     runner,
		fm:         fm,
		log:        log,
		buildDir:   opts.BuildDir,
		sourcesDir: filepath.Join(opts.BuildDir, SourcesDirName),
		manualDir:  filepath.Join(opts.BuildDir, ManualDirName),
	}
}

// Build runs the whole pipeline: prepare folders, assemble the project,
// run DocFx and publish the site to the output folder.
func (b *Builder) Build(ctx context.Context) error {
	if err := b.prepare(); err != nil {
		return err
	}
	if err := b.CreateProject(); err != nil {
		return err
	}

	b.log.Info("Building documentation", "package", b.pkg.Name, "version", b.pkg.Version)
	if err := b.runner.Run(ctx, b.buildDir, filepath.Join(b.buildDir, SiteConfigFileName)); err != nil {
		return err
	}

	if err := b.publish(); err != nil {
		return err
	}

	if b.opts.KeepBuildFolder {
		b.log.Info("Keeping build folder", "path", b.buildDir)
		return nil
	}
	return b.fm.DeleteDirectory(b.buildDir)
}

func (b *Builder) prepare() error {
	if err := b.fm.DeleteDirectory(b.buildDir); err != nil {
		return err
	}
	if err := b.fm.CreateDirectory(b.buildDir); err != nil {
		return err
	}

	if fileutil.DirExists(b.opts.OutputDir) {
		if !b.opts.Force {
			return fmt.Errorf("cannot create %s: %w (use --force to overwrite it)", b.opts.OutputDir, ErrOutputExists)
		}
		if err := b.fm.DeleteDirectory(b.opts.OutputDir); err != nil {
			return err
		}
	}
	return b.fm.CreateDirectory(b.opts.OutputDir)
}

// CreateProject lays out the DocFx project in the build folder: default
// pages, sources, license, changelog, manual, navigation, compiler
// projects and docfx.json.
func (b *Builder) CreateProject() error {
	if err := b.fm.CreateDirectory(b.sourcesDir); err != nil {
		return err
	}

	cfg, err := manifest.ReadDocsConfig(filepath.Join(b.opts.SourceDir, manifest.DocsConfigFileName))
	if err != nil {
		return err
	}

	if err := b.writeDefaults(); err != nil {
		return err
	}

	var sections Sections
	if sections.API, err = b.copySources(cfg.Sources); err != nil {
		return err
	}
	if sections.License, err = b.copyLicenses(); err != nil {
		return err
	}
	if sections.Changelog, err = b.copyChangelog(); err != nil {
		return err
	}
	if err := b.copyManual(); err != nil {
		return err
	}

	manual, err := NewTOCBuilder(b.fm, b.log).Build(b.manualDir)
	if err != nil {
		return err
	}
	if manual != nil {
		if sections.ManualTopic, err = relSlash(b.buildDir, manual.TopicPath); err != nil {
			return err
		}
	}
	root := RootTOC(sections)
	if root.Len() > 0 {
		if err := root.Write(b.fm, filepath.Join(b.buildDir, TOCFileName)); err != nil {
			return err
		}
	}

	site := NewSiteConfig(b.pkg, b.opts.Now())
	assemblies, err := Discover(b.sourcesDir)
	if err != nil {
		return err
	}
	settings := NewSettings(b.pkg.Unity, cfg.DefineConstants)
	for project, err := range Synthesize(assemblies, settings, b.sourcesDir, b.fm) {
		if err != nil {
			return err
		}
		b.log.Debug("Created project", "file", project)
		site.AddProject(project)
	}

	return b.fm.WriteJSON(filepath.Join(b.buildDir, SiteConfigFileName), site)
}

func (b *Builder) publish() error {
	site := filepath.Join(b.buildDir, SiteDirName)
	if _, err := b.fm.CopyDirectory(site, b.opts.OutputDir, "*"); err != nil {
		return err
	}
	src := filepath.Join(b.opts.PackageDir, manifest.PackageFileName)
	if _, err := b.fm.TryCopyFile(src, filepath.Join(b.opts.OutputDir, manifest.PackageFileName)); err != nil {
		return err
	}
	b.log.Info("Documentation written", "path", b.opts.OutputDir)
	return nil
}
