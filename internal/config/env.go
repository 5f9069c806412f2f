package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// ProjectEnv holds the variables of the project .env file
type ProjectEnv map[string]string

// LoadProjectEnv reads the .env file stored in dir. A missing file is
// not an error.
func LoadProjectEnv(dir string) (ProjectEnv, error) {
	path := filepath.Join(dir, constants.EnvFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.WithField("file", path).Debug("No environment file found")
		return ProjectEnv{}, nil
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.ConfigParseError(path, err)
	}
	return ProjectEnv(env), nil
}

// ApplyRegistry overrides registry settings with REGISTRY_* variables
func (e ProjectEnv) ApplyRegistry(registry *RegistryConfig) {
	if v := e["REGISTRY_HOST"]; v != "" {
		registry.Host = v
	}
	if v := e["REGISTRY_PORT"]; v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			logger.WithField("value", v).Warn("Invalid REGISTRY_PORT, ignoring")
		} else {
			registry.Port = port
		}
	}
	if v := e["REGISTRY_USERNAME"]; v != "" {
		registry.Username = v
	}
	if v := e["REGISTRY_PASSWORD"]; v != "" {
		registry.Password = v
	}
}
