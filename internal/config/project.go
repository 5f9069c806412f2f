package config

import (
	"os"
	"path/filepath"
	"strings"

	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
)

const (
	// ProjectConfigFile is the per-project configuration file name
	ProjectConfigFile = "project_configuration.yaml"
	// DefaultsFile holds the built-in defaults shared by every project
	DefaultsFile = "projects_defaults.yaml"
	// ProdDefaultsFile holds defaults applied only in production mode
	ProdDefaultsFile = "projects_prod_defaults.yaml"
)

// requiredProjectKeys must be set in the project's own configuration
var requiredProjectKeys = []string{"title", "description", "version", "rapydo"}

// ResolveOptions drives the configuration cascade
type ResolveOptions struct {
	// ProjectPath is the directory holding the project's own configuration
	ProjectPath string
	// DefaultsPath is the directory holding the defaults files; empty skips them
	DefaultsPath string
	// ProjectsDir is where sibling projects live (e.g. "projects")
	ProjectsDir string
	// SubmodulesDir is where submodule repositories are checked out; an
	// extended project from a submodule lives in <SubmodulesDir>/<name>/projects
	SubmodulesDir string
	// Production enables the production defaults layer
	Production bool
	// AllowExtension enables the "project.extends" layer
	AllowExtension bool
	// HostOverrides is merged last, on top of everything else
	HostOverrides *Tree
}

// ResolvedConfiguration is the effective configuration of one project
type ResolvedConfiguration struct {
	Tree *Tree
	// ExtendedProject and ExtendedPath are empty when no extension occurred
	ExtendedProject string
	ExtendedPath    string
}

// Resolve applies the cascade defaults, production defaults, extended
// project, project configuration and host overrides, in increasing
// order of precedence.
func Resolve(opts ResolveOptions) (*ResolvedConfiguration, error) {
	custom, err := LoadFile(opts.ProjectPath, ProjectConfigFile, Mandatory)
	if err != nil {
		return nil, err
	}

	projectFile := filepath.Join(opts.ProjectPath, ProjectConfigFile)
	project := custom.Subtree("project")
	if project == nil {
		return nil, errors.MissingConfigKey("project", projectFile)
	}
	for _, key := range requiredProjectKeys {
		if v, ok := project.Get(key); !ok || v == nil {
			return nil, errors.MissingConfigKey("project."+key, projectFile)
		}
	}

	base, err := loadDefaults(opts)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfiguration{}

	extends := ""
	if opts.AllowExtension {
		extends = project.String("extends")
	}

	if extends == "" {
		resolved.Tree = Merge(base, custom)
	} else {
		extendPath, err := extendedProjectPath(opts, project, extends)
		if err != nil {
			return nil, err
		}
		extended, err := LoadFile(extendPath, ProjectConfigFile, Mandatory)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logger.Fields{
			"project": extends,
			"path":    extendPath,
		}).Debug("Extending project configuration")

		resolved.Tree = Merge(Merge(base, extended), custom)
		resolved.ExtendedProject = extends
		resolved.ExtendedPath = extendPath
	}

	if opts.HostOverrides != nil && opts.HostOverrides.Len() > 0 {
		resolved.Tree = Merge(resolved.Tree, opts.HostOverrides)
	}

	return resolved, nil
}

func loadDefaults(opts ResolveOptions) (*Tree, error) {
	if opts.DefaultsPath == "" {
		return NewTree(), nil
	}

	base, err := LoadFile(opts.DefaultsPath, DefaultsFile, Mandatory)
	if err != nil {
		return nil, err
	}

	if opts.Production {
		prod, err := LoadFile(opts.DefaultsPath, ProdDefaultsFile, Mandatory)
		if err != nil {
			return nil, err
		}
		base = Merge(base, prod)
	}
	return base, nil
}

// extendedProjectPath locates the project named by "project.extends"
// according to "project.extends-from"
func extendedProjectPath(opts ResolveOptions, project *Tree, extends string) (string, error) {
	extendsFrom := project.String("extends-from")
	if extendsFrom == "" {
		extendsFrom = "projects"
	}

	var root string
	switch {
	case extendsFrom == "projects":
		root = opts.ProjectsDir
	case strings.HasPrefix(extendsFrom, "submodules/"):
		name := strings.TrimSpace(strings.SplitN(extendsFrom, "/", 3)[1])
		if name == "" {
			return "", errors.ConfigInvalid("Invalid repository name in extends-from, name is empty")
		}
		root = filepath.Join(opts.SubmodulesDir, name, constants.ProjectsDir)
	default:
		return "", errors.ConfigInvalid("Invalid extends-from parameter: " + extendsFrom +
			". Expected values: 'projects' or 'submodules/${REPOSITORY_NAME}'")
	}

	path := filepath.Join(root, extends)
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewWithDetails(errors.ErrMissingConfig, "From project not found", path)
	}
	return path, nil
}
