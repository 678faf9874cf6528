package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"todo/internal/logging"
)

const (
	// MemoryDatabase as the filename keeps the store in memory.
	MemoryDatabase = ":memory:"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration options for the todo application
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"TODO_DB_DIR"`
	Filename       string        `yaml:"filename" env:"TODO_DB_FILENAME"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TODO_DB_DIR_PERMISSIONS"`
	BusyTimeout    time.Duration `yaml:"busy_timeout" env:"TODO_DB_BUSY_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TextMaxLength int `yaml:"text_max_length" env:"TODO_VALIDATION_TEXT_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"TODO_APP_TIMEOUT"`
	Verbose   bool          `yaml:"verbose" env:"TODO_APP_VERBOSE"`
	Debug     bool          `yaml:"debug" env:"TODO_DEBUG"`
	LogFormat string        `yaml:"log_format" env:"TODO_LOG_FORMAT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:            DefaultDir(),
			Filename:       "todo.db",
			DirPermissions: 0755,
			BusyTimeout:    5 * time.Second,
		},
		Validation: ValidationConfig{
			TextMaxLength: 1024,
		},
		Application: ApplicationConfig{
			Timeout:   30 * time.Second,
			LogFormat: LogFormatText,
		},
	}
}

// DefaultDir returns ~/.todo, or .todo when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(homeDir, ".todo")
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == MemoryDatabase {
		return MemoryDatabase
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromFile overlays the YAML document at path onto the configuration.
// Keys absent from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables.
// Malformed values are reported rather than ignored.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("TODO_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TODO_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if perms := os.Getenv("TODO_DB_DIR_PERMISSIONS"); perms != "" {
		p, err := strconv.ParseUint(perms, 8, 32)
		if err != nil {
			return envError("TODO_DB_DIR_PERMISSIONS", perms)
		}
		c.Database.DirPermissions = uint32(p)
	}
	if timeout := os.Getenv("TODO_DB_BUSY_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return envError("TODO_DB_BUSY_TIMEOUT", timeout)
		}
		c.Database.BusyTimeout = d
	}

	// Validation configuration
	if maxLen := os.Getenv("TODO_VALIDATION_TEXT_MAX"); maxLen != "" {
		n, err := strconv.Atoi(maxLen)
		if err != nil {
			return envError("TODO_VALIDATION_TEXT_MAX", maxLen)
		}
		c.Validation.TextMaxLength = n
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return envError("TODO_APP_TIMEOUT", timeout)
		}
		c.Application.Timeout = d
	}
	if verbose := os.Getenv("TODO_APP_VERBOSE"); verbose != "" {
		b, err := strconv.ParseBool(verbose)
		if err != nil {
			return envError("TODO_APP_VERBOSE", verbose)
		}
		c.Application.Verbose = b
	}
	if logging.DebugEnabled() {
		c.Application.Debug = true
	}
	if format := os.Getenv("TODO_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.Filename != MemoryDatabase && c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.DirPermissions == 0 || c.Database.DirPermissions > 0777 {
		return &ConfigError{Field: "database.dir_permissions", Message: "directory permissions must be between 0001 and 0777"}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	// Validate validation configuration
	if c.Validation.TextMaxLength < 1 {
		return &ConfigError{Field: "validation.text_max_length", Message: "text maximum length must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func envError(name, value string) error {
	return &ConfigError{Field: name, Message: fmt.Sprintf("invalid value %q", value)}
}
