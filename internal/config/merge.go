package config

import (
	"rapydo/internal/logger"
)

// Merge folds custom into base and returns base.
//
// Nested trees are merged recursively, sequences from custom are appended
// to the base sequence and any other value from custom overwrites the base
// value. A nil custom value never replaces a base tree. base is modified
// in place and must be treated as consumed by the caller; subtrees of
// custom that are missing from base are adopted without copying.
func Merge(base, custom *Tree) *Tree {
	if base == nil {
		base = NewTree()
	}
	if custom == nil {
		return base
	}

	for _, key := range custom.keys {
		elements := custom.values[key]

		current, exists := base.values[key]
		if !exists {
			base.Set(key, elements)
			continue
		}

		if elements == nil {
			if _, isTree := current.(*Tree); isTree {
				logger.WithField("key", key).Warnf("Cannot replace %s with empty list", key)
				continue
			}
		}

		switch value := elements.(type) {
		case *Tree:
			if sub, ok := current.(*Tree); ok {
				Merge(sub, value)
				continue
			}
			base.values[key] = value
		case []interface{}:
			list, _ := current.([]interface{})
			base.values[key] = append(list, value...)
		default:
			base.values[key] = value
		}
	}

	return base
}
