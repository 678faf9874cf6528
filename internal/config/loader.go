package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// ConfigPath returns the YAML file to read and whether it was named explicitly
// through TODO_CONFIG.
func ConfigPath() (string, bool) {
	if path := os.Getenv("TODO_CONFIG"); path != "" {
		return path, true
	}
	return filepath.Join(DefaultDir(), "config.yaml"), false
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	path, explicit := ConfigPath()
	if err := l.config.LoadFromFile(path); err != nil {
		// A missing default file is fine, a missing named one is not.
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides == nil {
		return config, nil
	}
	l.applyOverrides(config, overrides)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir      *string
	DBFilename *string

	// Validation overrides
	TextMaxLength *int

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
	Debug   *bool
}

// applyOverrides copies every flag that was set onto config
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	override(&config.Database.Dir, overrides.DBDir)
	override(&config.Database.Filename, overrides.DBFilename)
	override(&config.Validation.TextMaxLength, overrides.TextMaxLength)
	override(&config.Application.Timeout, overrides.Timeout)
	override(&config.Application.Verbose, overrides.Verbose)
	override(&config.Application.Debug, overrides.Debug)
}

func override[T any](dst *T, flag *T) {
	if flag != nil {
		*dst = *flag
	}
}
