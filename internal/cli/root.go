package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/upt-tools/upt/internal/branding"
	"github.com/upt-tools/upt/internal/config"
	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/logging"
	"github.com/upt-tools/upt/internal/manifest"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	workDir  string
	logLevel string
	logFile  string

	// logger is set up by the root PersistentPreRunE for every command.
	logger = logging.Discard()
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&workDir, "directory", "C", "", "Run as if started in `dir`")
	pf.StringVar(&logLevel, "log-level", "", "Set the log verbosity (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "Also write the log to `file`")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates Unity packages, manages their dependencies on the Unity
package registry, and builds their HTML documentation with DocFx.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, args []string) error {
	config.Load()

	if workDir != "" {
		if !fileutil.DirExists(workDir) {
			return validationErrorf("The directory '%s' does not exist.", workDir)
		}
		if err := os.Chdir(workDir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", workDir, err)
		}
	}

	name := logLevel
	if !cmd.Flags().Changed("log-level") {
		name = config.Get(config.KeyLogLevel)
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return validationErrorf("%v", err)
	}

	logger = logging.New(cmd.ErrOrStderr(), level)
	if logFile != "" {
		if err := logger.AttachFile(logFile); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags.
// It returns ErrErrorsLogged when the command succeeded but logged errors.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, rootCmd)
}

func execute(ctx context.Context, cmd *cobra.Command) error {
	// setup replaces logger, so close whichever is current on return.
	defer func() { _ = logger.Close() }()
	if err := cmd.ExecuteContext(ctx); err != nil {
		return err
	}
	if logger.ErrorCount() > 0 {
		return ErrErrorsLogged
	}
	return nil
}

// resetFlags restores every flag of cmd and its children to its default.
// Flag values live in package variables and survive between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// readPackage loads package.json from the working directory.
func readPackage() (*manifest.Package, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("resolving working directory: %w", err)
	}
	pkg, err := manifest.ReadPackageDir(dir)
	if err != nil {
		logger.Debug("Reading package manifest failed", "err", err)
		return nil, "", validationErrorf("Invalid package folder: %s. Missing or invalid '%s' file.", dir, manifest.PackageFileName)
	}
	if result, err := manifest.ValidateFile(filepath.Join(dir, manifest.PackageFileName)); err == nil {
		for _, issue := range result.Issues {
			logger.Warn("package.json: " + issue.String())
		}
	}
	return pkg, dir, nil
}
