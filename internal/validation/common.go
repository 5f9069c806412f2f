// Package validation checks user supplied names before they reach the
// docker CLI, the registry API or the filesystem
package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"rapydo/internal/errors"
)

var (
	// serviceNameRegex follows the compose service naming rules
	serviceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	// projectNameRegex allows lowercase names usable as compose project names
	projectNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

	// repositoryRegex matches [host[:port]/]path components of an image
	repositoryRegex = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9-]+)+(:[0-9]+)?/|[a-zA-Z0-9][a-zA-Z0-9.-]*:[0-9]+/|localhost/)?` +
		`[a-z0-9]+([._-][a-z0-9]+)*(/[a-z0-9]+([._-][a-z0-9]+)*)*$`)

	// tagRegex matches an image tag
	tagRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{0,127}$`)
)

// ServiceName validates a service name given on the command line
func ServiceName(name string) error {
	if name == "" {
		return errors.ValidationFailed("service", name, "cannot be empty")
	}
	if len(name) > 255 {
		return errors.ValidationFailed("service", name, "too long (max 255 characters)")
	}
	if !serviceNameRegex.MatchString(name) {
		return errors.ValidationFailed("service", name, "must contain only letters, numbers, '.', '_' and '-'")
	}
	return nil
}

// ProjectName validates a project name, which is also a directory name
// under projects/
func ProjectName(name string) error {
	if !projectNameRegex.MatchString(name) {
		return errors.ValidationFailed("project", name,
			"must start with a lowercase letter and contain only lowercase letters, numbers, '_' and '-'")
	}
	return nil
}

// ImageReference validates repository[:tag] before it is passed to the
// docker CLI or interpolated into a registry URL
func ImageReference(image string) error {
	if image == "" {
		return errors.ValidationFailed("image", image, "cannot be empty")
	}

	repository, tag := image, ""
	if i := strings.LastIndex(image, ":"); i > strings.LastIndex(image, "/") {
		repository, tag = image[:i], image[i+1:]
		if !tagRegex.MatchString(tag) {
			return errors.ValidationFailed("image", image, "invalid tag")
		}
	}

	if !repositoryRegex.MatchString(repository) {
		return errors.ValidationFailed("image", image, "invalid repository name")
	}
	return nil
}

// PortNumber validates a single port number
func PortNumber(port int) error {
	if port <= 0 || port > 65535 {
		return errors.ValidationFailed("port", port, "must be between 1 and 65535")
	}
	return nil
}

// Path validates and cleans a relative path such as a compose fragment
// name, rejecting traversal outside its base directory
func Path(path string) (string, error) {
	if path == "" {
		return "", errors.ValidationFailed("path", path, "cannot be empty")
	}

	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(path, "../") {
		return "", errors.ValidationFailed("path", path, "path traversal detected")
	}
	return cleaned, nil
}
