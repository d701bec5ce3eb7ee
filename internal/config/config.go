// Package config handles global configuration and library file locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/plib/config.yml.
// Every field is optional; zero values fall back to defaults.
type Config struct {
	LibraryDir       string `yaml:"library_dir,omitempty"`       // directory holding the database
	PDFDir           string `yaml:"pdf_dir,omitempty"`           // where downloaded PDFs are saved
	JournalOverrides string `yaml:"journal_overrides,omitempty"` // extra journal abbreviations (YAML)
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "plib"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DBFile is the library database file name.
	DBFile = "library.db"
	// EnvLibraryDir overrides the library directory.
	EnvLibraryDir = "PLIB_LIBRARY_DIR"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/plib/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration. A missing file yields an empty
// config, not an error.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.LibraryDir = ExpandTilde(cfg.LibraryDir)
	cfg.PDFDir = ExpandTilde(cfg.PDFDir)
	cfg.JournalOverrides = ExpandTilde(cfg.JournalOverrides)

	configCache = &cfg
	return &cfg, nil
}

// Reset clears the cached config. Useful for testing.
func Reset() {
	configCache = nil
}

// Save writes the configuration file, creating the directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LibraryPath returns the resolved library directory: the PLIB_LIBRARY_DIR
// environment variable, then the configured directory, then ~/.plib.
func (c *Config) LibraryPath() string {
	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		return ExpandTilde(dir)
	}
	if c.LibraryDir != "" {
		return c.LibraryDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".plib"
	}
	return filepath.Join(home, ".plib")
}

// DBPath returns the library database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.LibraryPath(), DBFile)
}

// PDFPath returns the directory where PDFs are saved.
func (c *Config) PDFPath() string {
	if c.PDFDir != "" {
		return c.PDFDir
	}
	return filepath.Join(c.LibraryPath(), "pdfs")
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
