// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	RegistryURL string `yaml:"registry_url"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "upt",
			DisplayName: "Unity Package Tool",
			Description: "Scaffold and maintain Unity packages",
			HomeDir:     ".upt",
			EnvPrefix:   "UPT",
			GoModule:    "github.com/upt-tools/upt",
			RegistryURL: "https://packages.unity.com",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "upt").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".upt").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "UPT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// RegistryURL returns the default Unity package registry endpoint.
func RegistryURL() string { load(); return defaults.RegistryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("registry") → "UPT_REGISTRY".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
