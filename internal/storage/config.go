package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG directory paths.
const AppName = "dm"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Quick   QuickConfig   `yaml:"quick"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where bookmarks live.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"` // empty = XDG default for the backend
}

// QuickConfig controls the quick path flag.
type QuickConfig struct {
	// Exclusive clears the flag on every other bookmark when one is set.
	Exclusive bool `yaml:"exclusive"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendJSON},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// LoadConfig reads config from the YAML file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: defaults are usable even if they can't be written
			_ = SaveConfig(fs, path, &config)
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Apply defaults for fields set to empty values
	defaults := DefaultConfig()
	if config.Storage.Backend == "" {
		config.Storage.Backend = defaults.Storage.Backend
	}
	if config.Logging.Level == "" {
		config.Logging.Level = defaults.Logging.Level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that can't be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)",
			c.Storage.Backend, BackendJSON, BackendSQLite)
	}
}

// SaveConfig writes config to the YAML file.
// Creates the directory if it doesn't exist.
func SaveConfig(fs afero.Fs, path string, config *Config) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, 0o644)
}

// StorePath returns the configured store location, falling back to the XDG
// default for the backend.
func (c *Config) StorePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendSQLite {
		return DefaultSQLitePath()
	}
	return DefaultStorePath()
}

// LogPath returns the configured log file, falling back to the XDG default.
func (c *Config) LogPath() string {
	if c.Logging.Path != "" {
		return c.Logging.Path
	}
	return filepath.Join(xdg.StateHome, AppName, "dm.log")
}

// DefaultConfigFilePath returns $XDG_CONFIG_HOME/dm/config.yml.
func DefaultConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yml")
}

// DefaultStorePath returns $XDG_DATA_HOME/dm/bookmarks.json.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, AppName, "bookmarks.json")
}

// DefaultSQLitePath returns $XDG_DATA_HOME/dm/bookmarks.db.
func DefaultSQLitePath() string {
	return filepath.Join(xdg.DataHome, AppName, "bookmarks.db")
}

// Open opens the backend selected by config.
// The returned close function is a no-op for the JSON backend.
func Open(fs afero.Fs, config *Config) (Storage, func() error, error) {
	switch config.Storage.Backend {
	case BackendSQLite:
		s := NewSQLiteStorage(config.StorePath())
		return s, s.Close, nil
	case BackendJSON, "":
		return NewJSONStorage(fs, config.StorePath()), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}
