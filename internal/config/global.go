package config

import (
	"fmt"
	"os"
	"path/filepath"

	"rapydo/internal/constants"
	"rapydo/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// GlobalConfig represents the user-level rapydo configuration
type GlobalConfig struct {
	Log      LogConfig      `toml:"log"`
	Registry RegistryConfig `toml:"registry"`
	Deploy   DeployConfig   `toml:"deploy"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// RegistryConfig locates the private registry used in swarm mode
type RegistryConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type DeployConfig struct {
	Swarm bool `toml:"swarm"` // Check images against the registry instead of the local daemon
}

// Address returns host:port of the registry
func (r RegistryConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DefaultGlobalConfig returns the default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Log: LogConfig{
			Level: constants.DefaultLogLevel,
		},
		Registry: RegistryConfig{
			Host:     constants.DefaultRegistryHost,
			Port:     constants.DefaultRegistryPort,
			Username: constants.DefaultRegistryUsername,
		},
	}
}

// GetConfigDir returns the XDG config directory for rapydo
func GetConfigDir() (string, error) {
	return xdg.ConfigDir()
}

// LoadGlobalConfig loads config.toml from the XDG config directory
func LoadGlobalConfig() (*GlobalConfig, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadGlobalConfigFrom(filepath.Join(configDir, "config.toml"))
}

// LoadGlobalConfigFrom loads a global configuration file, falling back
// to defaults when the file does not exist
func LoadGlobalConfigFrom(configPath string) (*GlobalConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultGlobalConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GlobalConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	// Apply defaults for any missing values
	defaults := DefaultGlobalConfig()
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}
	if config.Registry.Host == "" {
		config.Registry.Host = defaults.Registry.Host
	}
	if config.Registry.Port == 0 {
		config.Registry.Port = defaults.Registry.Port
	}
	if config.Registry.Username == "" {
		config.Registry.Username = defaults.Registry.Username
	}

	return &config, nil
}

// Save saves the global configuration to the specified path
func (g *GlobalConfig) Save(path string) error {
	data, err := toml.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, constants.SecureFilePermissions)
}

// ValidateGlobalConfig validates the global configuration
func ValidateGlobalConfig(config *GlobalConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if config.Registry.Port < 0 || config.Registry.Port > 65535 {
		return fmt.Errorf("invalid registry port: %d", config.Registry.Port)
	}
	if config.Registry.Host == "" {
		return fmt.Errorf("registry host cannot be empty")
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	return nil
}
