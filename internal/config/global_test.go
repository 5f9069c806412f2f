package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadGlobalConfigDefaults tests that defaults are returned when no file exists
func TestLoadGlobalConfigDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "localhost", config.Registry.Host)
	assert.Equal(t, 5000, config.Registry.Port)
	assert.Equal(t, "admin", config.Registry.Username)
	assert.False(t, config.Deploy.Swarm)

	// Loading never creates the directory
	_, err = os.Stat(filepath.Join(tmpDir, "rapydo"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadGlobalConfigPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	content := `
[registry]
host = "registry.example.com"
password = "secret"

[deploy]
swarm = true
`
	writeFile(t, filepath.Join(tmpDir, "rapydo"), "config.toml", content)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)

	assert.Equal(t, "registry.example.com", config.Registry.Host)
	assert.Equal(t, 5000, config.Registry.Port)
	assert.Equal(t, "secret", config.Registry.Password)
	assert.Equal(t, "registry.example.com:5000", config.Registry.Address())
	assert.True(t, config.Deploy.Swarm)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadGlobalConfigInvalidToml(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[registry\nhost = 1")

	_, err := LoadGlobalConfigFrom(path)
	assert.Error(t, err)
}

func TestGlobalConfigSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	config := DefaultGlobalConfig()
	config.Log.Level = "debug"
	config.Registry.Port = 5443
	require.NoError(t, config.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadGlobalConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Equal(t, 5443, loaded.Registry.Port)
}

func TestValidateGlobalConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*GlobalConfig)
		wantErr bool
	}{
		{"defaults", func(*GlobalConfig) {}, false},
		{"bad port", func(c *GlobalConfig) { c.Registry.Port = 70000 }, true},
		{"empty host", func(c *GlobalConfig) { c.Registry.Host = "" }, true},
		{"bad level", func(c *GlobalConfig) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGlobalConfig()
			tt.modify(config)
			err := ValidateGlobalConfig(config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, ValidateGlobalConfig(nil))
}
