package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoader_Load_Cascade(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todo.yaml")
	content := "database:\n  filename: file.db\nvalidation:\n  text_max_length: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("TODO_CONFIG", path)
	t.Setenv("TODO_VALIDATION_TEXT_MAX", "60")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "file.db", cfg.Database.Filename, "file overrides defaults")
	assert.Equal(t, 60, cfg.Validation.TextMaxLength, "environment overrides file")
}

func TestLoader_Load_DefaultFileUnderHome(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(os.Getenv("HOME"), ".todo")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("application:\n  verbose: true\n"), 0600))

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.True(t, cfg.Application.Verbose)
}

func TestLoader_Load_MissingExplicitFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TODO_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := NewLoader().Load()
	assert.Error(t, err)
}

func TestLoader_Load_InvalidEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TODO_LOG_FORMAT", "xml")

	_, err := NewLoader().Load()

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "application.log_format", configErr.Field)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	filename := "flags.db"
	maxLen := 12
	timeout := 5 * time.Second
	verbose := true
	debug := true

	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{
		DBDir:         &dir,
		DBFilename:    &filename,
		TextMaxLength: &maxLen,
		Timeout:       &timeout,
		Verbose:       &verbose,
		Debug:         &debug,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, filename), cfg.GetDatabasePath())
	assert.Equal(t, 12, cfg.Validation.TextMaxLength)
	assert.Equal(t, timeout, cfg.Application.Timeout)
	assert.True(t, cfg.Application.Verbose)
	assert.True(t, cfg.Application.Debug)
}

func TestLoader_LoadWithOverrides_Revalidates(t *testing.T) {
	isolateEnv(t)
	empty := ""

	_, err := NewLoader().LoadWithOverrides(&ConfigOverrides{DBFilename: &empty})

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "database.filename", configErr.Field)
}

func TestLoader_LoadWithOverrides_Nil(t *testing.T) {
	isolateEnv(t)

	cfg, err := NewLoader().LoadWithOverrides(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
