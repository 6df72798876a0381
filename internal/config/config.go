package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/upt-tools/upt/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyRegistry        = "registry"
	KeyDocFxPath       = "docfx_path"
	KeyLogLevel        = "log_level"
	KeyKeepBuildFolder = "keep_build_folder"
)

// Keys lists the settings accepted by `config set`.
var Keys = []string{KeyRegistry, KeyDocFxPath, KeyLogLevel, KeyKeepBuildFolder}

// Dir returns the path to the upt config directory (~/.upt/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.upt/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyRegistry, branding.RegistryURL())
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyKeepBuildFolder, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns a boolean config value by key.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Registry returns the configured package registry URL.
func Registry() string {
	if r := Get(KeyRegistry); r != "" {
		return r
	}
	return branding.RegistryURL()
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
