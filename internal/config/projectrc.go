package config

import (
	"os"
	"path/filepath"

	"rapydo/internal/constants"
	"rapydo/internal/logger"
)

// HostConfig is the content of the host-level .projectrc file
type HostConfig struct {
	Path string
	tree *Tree
}

// LoadHostConfig reads .projectrc from dir, falling back to .project.yml.
// A missing file yields an empty HostConfig.
func LoadHostConfig(dir string) (*HostConfig, error) {
	for _, name := range []string{constants.ProjectRCFile, constants.ProjectRCFallback} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		tree, err := Load(path, Optional)
		if err != nil {
			return nil, err
		}
		logger.WithField("file", path).Debug("Loaded host configuration")
		return &HostConfig{Path: path, tree: tree}, nil
	}
	return &HostConfig{tree: NewTree()}, nil
}

// ProjectOverrides returns the project_configuration subtree, merged on
// top of the resolved configuration
func (h *HostConfig) ProjectOverrides() *Tree {
	if sub := h.tree.Subtree("project_configuration"); sub != nil {
		return sub
	}
	return NewTree()
}

// String returns a top level option such as "project" or "stack"
func (h *HostConfig) String(key string) string {
	return h.tree.String(key)
}

// Bool returns a top level boolean option such as "production"
func (h *HostConfig) Bool(key string) bool {
	return h.tree.Bool(key)
}

// Has reports whether a top level option is set
func (h *HostConfig) Has(key string) bool {
	return h.tree.Has(key)
}
