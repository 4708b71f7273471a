package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/sparkle-appcast/internal/appcast"
	"github.com/oshokin/sparkle-appcast/internal/logger"
)

// Config holds the file-level settings of the updater.
type Config struct {
	// AppcastPath is the appcast XML file rewritten by the updater.
	AppcastPath string `yaml:"appcast_path"`
	// MaxItems is the number of releases kept in the feed.
	MaxItems int `yaml:"max_items"`
	// AtomicWrite writes through a temporary file renamed over AppcastPath.
	AtomicWrite bool `yaml:"atomic_write"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for updater settings.
	DefaultConfigFilename = "appcast-settings.yaml"

	// DefaultAppcastPath is the appcast location relative to the repository root.
	DefaultAppcastPath = "public/appcast.xml"

	// DefaultMaxItems is the default retention cap.
	DefaultMaxItems = appcast.DefaultMaxItems

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errMaxItemsInvalid is returned when the retention cap is negative.
	errMaxItemsInvalid = errors.New("max items must be positive")
	// errUnknownLogLevel is returned for log levels zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every field at its default value.
func Default() *Config {
	return &Config{
		AppcastPath: DefaultAppcastPath,
		MaxItems:    DefaultMaxItems,
		LogLevel:    DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppcastPath == "" {
		cfg.AppcastPath = DefaultAppcastPath
	}

	switch {
	case cfg.MaxItems < 0:
		return fmt.Errorf("%w: %d", errMaxItemsInvalid, cfg.MaxItems)
	case cfg.MaxItems == 0:
		cfg.MaxItems = DefaultMaxItems
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}
