package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

// Mode tells LoadFile how to react to a missing file
type Mode int

const (
	// Mandatory files must exist and must not be empty
	Mandatory Mode = iota
	// Optional files may be absent; an empty tree is returned instead
	Optional
)

// LoadFile loads the first YAML document of dir/file as a Tree
func LoadFile(dir, file string, mode Mode) (*Tree, error) {
	path := file
	if dir != "" {
		path = filepath.Join(dir, file)
	}
	return Load(path, mode)
}

// Load loads the first YAML document stored at path as a Tree
func Load(path string, mode Mode) (*Tree, error) {
	log := logger.WithField("file", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.ConfigParseError(path, err)
		}
		if mode == Optional {
			log.Debug("Optional YAML file does not exist")
			return NewTree(), nil
		}
		return nil, errors.MissingConfig(path)
	}
	log.Debug("Reading YAML file")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if mode == Optional {
			log.WithError(err).Warn("Failed to read YAML file")
			return NewTree(), nil
		}
		return nil, errors.ConfigParseError(path, err)
	}

	value, err := decodeNode(&doc)
	if err != nil {
		return nil, errors.ConfigParseError(path, err)
	}
	if value == nil {
		if mode == Optional {
			log.Warn("YAML file is empty")
			return NewTree(), nil
		}
		return nil, errors.EmptyConfig(path)
	}

	tree, ok := value.(*Tree)
	if !ok {
		return nil, errors.ConfigInvalid(path + ": top level element must be a mapping")
	}
	return tree, nil
}
