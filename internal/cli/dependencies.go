package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/upt-tools/upt/internal/config"
	"github.com/upt-tools/upt/internal/manifest"
	"github.com/upt-tools/upt/internal/registry"
)

var (
	removeAll bool
	updateAll bool
)

func init() {
	depsRemoveCmd.Flags().BoolVarP(&removeAll, "all", "a", false, "Remove all dependencies")
	depsUpdateCmd.Flags().BoolVarP(&updateAll, "all", "a", false, "Update all dependencies")

	depsCmd.AddCommand(depsListCmd)
	depsCmd.AddCommand(depsAddCmd)
	depsCmd.AddCommand(depsRemoveCmd)
	depsCmd.AddCommand(depsUpdateCmd)
	rootCmd.AddCommand(depsCmd)
}

var depsCmd = &cobra.Command{
	Use:     "dependencies",
	Aliases: []string{"deps"},
	Short:   "Manage package dependencies",
	Long: `Manage the dependencies listed in the package.json of the package in the
working directory. Versions are resolved against the Unity package registry
configured with the "registry" setting.`,
}

var depsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all dependencies in package.json",
	Args:    cobra.NoArgs,
	RunE:    runDepsList,
}

var depsAddCmd = &cobra.Command{
	Use:     "add <package-name> [package-version]",
	Aliases: []string{"a"},
	Short:   "Add a new dependency to package.json",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runDepsAdd,
}

var depsRemoveCmd = &cobra.Command{
	Use:     "remove <package-name> | --all",
	Aliases: []string{"rm", "r"},
	Short:   "Remove a dependency from package.json",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDepsRemove,
}

var depsUpdateCmd = &cobra.Command{
	Use:     "update <package-name> [package-version] | --all",
	Aliases: []string{"up", "u"},
	Short:   "Update the version of an existing dependency",
	Args:    cobra.MaximumNArgs(2),
	RunE:    runDepsUpdate,
}

func runDepsList(cmd *cobra.Command, args []string) error {
	pkg, _, err := readPackage()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Dependencies for package: "+pkg.Name))
	fmt.Fprintln(out)
	if len(pkg.Dependencies) == 0 {
		fmt.Fprintln(out, "No dependencies found.")
		return nil
	}
	for _, d := range pkg.Dependencies {
		fmt.Fprintf(out, "- %s\n", d)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, MutedStyle.Render(fmt.Sprintf("Total dependencies: %d", len(pkg.Dependencies))))
	return nil
}

func runDepsAdd(cmd *cobra.Command, args []string) error {
	name, requested, err := dependencyArgs(args)
	if err != nil {
		return err
	}
	pkg, dir, err := readPackage()
	if err != nil {
		return err
	}
	if pkg.Dependencies.Index(name) >= 0 {
		return commandErrorf("The dependency '%s' has been already added. Use `update` to update it.", name)
	}

	version, ok, err := resolveVersion(cmd.Context(), pkg, name, requested)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	pkg.Dependencies.Add(name, version)
	if err := writePackage(dir, pkg); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Added dependency '%s@%s' to package '%s'.", name, version, pkg.Name))
	return nil
}

func runDepsRemove(cmd *cobra.Command, args []string) error {
	if err := allOrName(removeAll, args); err != nil {
		return err
	}
	pkg, dir, err := readPackage()
	if err != nil {
		return err
	}

	if removeAll {
		pkg.Dependencies = nil
		if err := writePackage(dir, pkg); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Removed all dependencies from package '%s'.", pkg.Name))
		return nil
	}

	name := args[0]
	if err := manifest.ValidateName(name); err != nil {
		return validationErrorf("%v", err)
	}
	removed, ok := pkg.Dependencies.Remove(name)
	if !ok {
		logger.Info(fmt.Sprintf("No dependency named '%s' found in package '%s'.", name, pkg.Name))
		return nil
	}
	if err := writePackage(dir, pkg); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Removed dependency '%s' from package '%s'.", removed, pkg.Name))
	return nil
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	if err := allOrName(updateAll, args); err != nil {
		return err
	}
	var names []string
	var requested string
	if !updateAll {
		name, version, err := dependencyArgs(args)
		if err != nil {
			return err
		}
		names, requested = []string{name}, version
	}

	pkg, dir, err := readPackage()
	if err != nil {
		return err
	}
	if len(pkg.Dependencies) == 0 {
		logger.Info("Nothing to do.")
		return nil
	}
	if updateAll {
		for _, d := range pkg.Dependencies {
			names = append(names, d.Name)
		}
	}

	changed := false
	for _, name := range names {
		current, found := pkg.Dependencies.Get(name)
		if !found {
			logger.Error(fmt.Sprintf("Package '%s' is not a dependency of %s.", name, pkg.Name))
			continue
		}
		version, ok, err := resolveVersion(cmd.Context(), pkg, name, requested)
		if err != nil {
			logger.Error(err.Error())
			continue
		}
		if !ok {
			continue
		}
		if current.Version == version {
			logger.Info(fmt.Sprintf("Dependency '%s' is already at the requested version (%s). No update needed.", name, version))
			continue
		}
		pkg.Dependencies.Set(name, version)
		changed = true
		logger.Info(fmt.Sprintf("Updated dependency '%s' from version %s to version %s.", name, current.Version, version))
	}

	if !changed {
		return nil
	}
	return writePackage(dir, pkg)
}

// dependencyArgs validates "<package-name> [package-version]".
func dependencyArgs(args []string) (name, version string, err error) {
	name = args[0]
	if err := manifest.ValidateName(name); err != nil {
		return "", "", validationErrorf("%v", err)
	}
	if len(args) > 1 {
		version = args[1]
		if err := manifest.ValidateVersion(version); err != nil {
			return "", "", validationErrorf("%v", err)
		}
	}
	return name, version, nil
}

func allOrName(all bool, args []string) error {
	switch {
	case all && len(args) > 0:
		return validationErrorf("The --all option cannot be used together with a specific package name. Please remove the package name or omit --all.")
	case !all && len(args) == 0:
		return validationErrorf("You must specify a package name or use the --all option.")
	}
	return nil
}

// resolveVersion picks the version of name to depend on. It warns and
// reports false when no compatible version exists.
func resolveVersion(ctx context.Context, pkg *manifest.Package, name, requested string) (string, bool, error) {
	client := registry.New(config.Registry(), registry.WithLogger(logger))
	versions, err := client.Versions(ctx, name)
	if err != nil {
		return "", false, commandErrorf("Failed to retrieve the versions of '%s': %v", name, err)
	}

	version, ok := registry.Resolve(versions, pkg.Unity, requested)
	if ok {
		return version, true, nil
	}
	if requested == "" {
		logger.Warn(fmt.Sprintf("No available versions found for the package '%s' compatible with Unity %s.", name, pkg.Unity))
	} else {
		logger.Warn(fmt.Sprintf("Package '%s@%s' does not exist or is not compatible with Unity %s.", name, requested, pkg.Unity))
	}
	return "", false, nil
}

func writePackage(dir string, pkg *manifest.Package) error {
	return manifest.WritePackage(filepath.Join(dir, manifest.PackageFileName), pkg)
}
