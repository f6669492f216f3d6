// Package config provides the global configuration directory and the
// optional YAML configuration file for lodestone.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultMetadataFile is the metadata document name used when neither the
// command line nor the configuration file names one.
const DefaultMetadataFile = "lodestone.metadata"

// FileName is the configuration file looked up in the working directory
// and in Dir().
const FileName = "lodestone.yaml"

// Config holds tool defaults loadable from a YAML file.
type Config struct {
	// MetadataFile overrides the default metadata document name.
	MetadataFile string `yaml:"metadata_file"`
	// TrackObsoleteFiles sets the default for tracking files a previous
	// run generated that the current run did not.
	TrackObsoleteFiles bool `yaml:"track_obsolete_files"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{MetadataFile: DefaultMetadataFile}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; malformed YAML is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = DefaultMetadataFile
	}
	return cfg, nil
}

// Resolve loads configuration with the usual precedence: the file in the
// current directory wins over the one in the global config directory,
// which wins over the defaults.
func Resolve() (Config, error) {
	if _, err := os.Stat(FileName); err == nil {
		return Load(FileName)
	}
	if dir := Dir(); dir != "" {
		return Load(filepath.Join(dir, FileName))
	}
	return Default(), nil
}

// Dir returns the lodestone configuration directory.
//
// Resolution:
//   - $LODESTONE_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/lodestone if set (respects XDG on any platform)
//   - %AppData%/lodestone on Windows
//   - ~/.config/lodestone on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("LODESTONE_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lodestone")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "lodestone")
		}
	}

	// macOS and Linux: ~/.config/lodestone
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lodestone")
}
