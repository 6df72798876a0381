package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/upt-tools/upt/internal/config"
	"github.com/upt-tools/upt/internal/docs"
	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/scaffold"
)

var (
	docsInitForce bool

	docsOutput          string
	docsDocFxPath       string
	docsKeepBuildFolder bool
	docsBuildDir        string
	docsForce           bool
)

func init() {
	docsInitCmd.Flags().BoolVarP(&docsInitForce, "force", "f", false, "Replace an existing documentation folder")

	f := docsBuildCmd.Flags()
	f.StringVarP(&docsOutput, "output", "o", "docs~", "Folder receiving the generated site, in a subfolder named after the package version")
	f.StringVar(&docsDocFxPath, "with-docfx", "", "Folder containing the DocFx executable (default: searched on PATH)")
	f.BoolVar(&docsKeepBuildFolder, "keep-build-folder", false, "Keep the intermediate build folder")
	f.StringVar(&docsBuildDir, "build", "", "Intermediate build folder (default: a new temporary folder)")
	f.BoolVarP(&docsForce, "force", "f", false, "Overwrite the output folder if it exists")

	docsCmd.AddCommand(docsInitCmd)
	docsCmd.AddCommand(docsBuildCmd)
	rootCmd.AddCommand(docsCmd)
}

var docsCmd = &cobra.Command{
	Use:     "documentation",
	Aliases: []string{"docs", "doc"},
	Short:   "Create and build the package documentation",
}

var docsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the " + scaffold.DocumentationDir + " folder of the package",
	Args:  cobra.NoArgs,
	RunE:  runDocsInit,
}

var docsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the HTML documentation of the package with DocFx",
	Example: `  upt documentation build
  upt documentation build -o site --force --keep-build-folder`,
	Args: cobra.NoArgs,
	RunE: runDocsBuild,
}

func runDocsInit(cmd *cobra.Command, args []string) error {
	pkg, dir, err := readPackage()
	if err != nil {
		return err
	}
	result, err := scaffold.InitDocumentation(fileutil.New(logger), dir, pkg, docsInitForce)
	if err != nil {
		return scaffoldError(err)
	}
	for _, f := range result.Files {
		logger.Debug("Created file", "file", f)
	}
	logger.Info("Documentation folder created", "path", filepath.Join(dir, scaffold.DocumentationDir))
	return nil
}

func runDocsBuild(cmd *cobra.Command, args []string) error {
	pkg, dir, err := readPackage()
	if err != nil {
		return err
	}
	sourceDir := filepath.Join(dir, scaffold.DocumentationDir)
	if !fileutil.DirExists(sourceDir) {
		return validationErrorf("Missing documentation folder '%s'. Run `%s documentation init` to create it.", sourceDir, cmd.Root().Name())
	}

	docfxDir := docsDocFxPath
	if !cmd.Flags().Changed("with-docfx") {
		docfxDir = config.Get(config.KeyDocFxPath)
	}
	docfxPath, err := docs.FindDocFx(docfxDir)
	if err != nil {
		return commandErrorf("%v. Install it with `dotnet tool install -g docfx` or pass --with-docfx.", err)
	}
	docfx := docs.NewDocFx(docfxPath, logger)
	version, err := docfx.CheckVersion(cmd.Context())
	if err != nil {
		return commandErrorf("%v", err)
	}
	logger.Info(fmt.Sprintf("Using DocFx version %s at %s", version, docfxPath))

	trimmed, err := pkg.TrimmedVersion()
	if err != nil {
		return validationErrorf("%v", err)
	}
	output, err := filepath.Abs(filepath.Join(docsOutput, trimmed))
	if err != nil {
		return fmt.Errorf("resolving output folder: %w", err)
	}

	buildDir := docsBuildDir
	if buildDir == "" {
		if buildDir, err = os.MkdirTemp("", "upt-docs-"); err != nil {
			return fmt.Errorf("creating build folder: %w", err)
		}
	}
	if buildDir, err = filepath.Abs(buildDir); err != nil {
		return fmt.Errorf("resolving build folder: %w", err)
	}

	keep := docsKeepBuildFolder
	if !cmd.Flags().Changed("keep-build-folder") {
		keep = config.GetBool(config.KeyKeepBuildFolder)
	}

	builder := docs.NewBuilder(pkg, docs.Options{
		PackageDir:      dir,
		SourceDir:       sourceDir,
		BuildDir:        buildDir,
		OutputDir:       output,
		Force:           docsForce,
		KeepBuildFolder: keep,
	}, docfx, fileutil.New(logger), logger)

	if err := builder.Build(cmd.Context()); err != nil {
		if errors.Is(err, docs.ErrOutputExists) {
			return commandErrorf("%v", err)
		}
		return err
	}
	return nil
}
