package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/upt-tools/upt/internal/fileutil"
	"github.com/upt-tools/upt/internal/manifest"
	"github.com/upt-tools/upt/internal/scaffold"
)

var (
	newVersion       string
	newDisplayName   string
	newAssembly      string
	newAuthor        string
	newAuthorEmail   string
	newAuthorURL     string
	newUnity         string
	newRootNamespace string
	newEditorOnly    bool
	newRuntimeOnly   bool
	newWithTests     bool
	newForce         bool
)

func init() {
	f := newCmd.Flags()
	f.StringVarP(&newVersion, "version", "v", "0.0.1", "Set the initial semantic version of the package")
	f.StringVarP(&newDisplayName, "display-name", "n", "", "Set the human-readable name shown in the Unity Package Manager")
	f.StringVarP(&newAssembly, "assembly", "a", "", "Set the name of the runtime assembly")
	f.StringVarP(&newAuthor, "author", "u", "", "Set the name of the package author")
	f.StringVarP(&newAuthorEmail, "author-email", "m", "", "Set the package author's email address")
	f.StringVarP(&newAuthorURL, "author-url", "w", "", "Set the URL of the package author's website")
	f.StringVarP(&newUnity, "unity", "y", "", "Set the Unity version supported by the package (e.g. 2022.3)")
	f.StringVarP(&newRootNamespace, "name-space", "N", "", "Set the root namespace of the assemblies")
	f.BoolVarP(&newEditorOnly, "editor-only", "e", false, "Initialize an editor-only package")
	f.BoolVarP(&newRuntimeOnly, "runtime-only", "r", false, "Initialize a runtime-only package")
	f.BoolVarP(&newWithTests, "tests", "t", false, "Also initialize a companion package containing tests")
	f.BoolVarP(&newForce, "force", "f", false, "Overwrite existing package folders")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <package-name>",
	Short: "Create a new Unity package in a folder named after it",
	Example: `  upt new com.example.widgets --display-name "Widgets" --unity 2022.3
  upt new com.example.tools --editor-only --tests`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := manifest.ValidateName(name); err != nil {
		return validationErrorf("%v", err)
	}
	if err := manifest.ValidateVersion(newVersion); err != nil {
		return validationErrorf("%v", err)
	}
	if newUnity != "" {
		if err := manifest.ValidateUnityVersion(newUnity); err != nil {
			return validationErrorf("%v", err)
		}
	}
	if newEditorOnly && newRuntimeOnly {
		return validationErrorf("The options --editor-only and --runtime-only cannot be used at the same time.")
	}

	mode := scaffold.ModeDefault
	switch {
	case newEditorOnly:
		mode = scaffold.ModeEditor
	case newRuntimeOnly:
		mode = scaffold.ModeRuntime
	}

	var author *manifest.Author
	if newAuthor != "" {
		author = &manifest.Author{Name: newAuthor, Email: newAuthorEmail, URL: newAuthorURL}
	}

	initializer := scaffold.New(scaffold.Options{
		Name:          name,
		Version:       newVersion,
		DisplayName:   newDisplayName,
		Unity:         newUnity,
		RootNamespace: newRootNamespace,
		AssemblyName:  newAssembly,
		Author:        author,
		Mode:          mode,
		Force:         newForce,
	}, fileutil.New(logger), logger)

	result, err := initializer.InitPackage(".")
	if err != nil {
		return scaffoldError(err)
	}
	reportScaffold(result)

	if newWithTests {
		result, err := initializer.InitTestsPackage(".")
		if err != nil {
			return scaffoldError(err)
		}
		reportScaffold(result)
	}
	return nil
}

func scaffoldError(err error) error {
	if errors.Is(err, scaffold.ErrExists) {
		return commandErrorf("%v", err)
	}
	return err
}

func reportScaffold(result *scaffold.Result) {
	for _, f := range result.Files {
		logger.Debug("Created file", "file", f)
	}
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	logger.Info("Package created", "path", result.Dir)
}
