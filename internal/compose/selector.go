package compose

import (
	"path/filepath"
	"strings"

	"rapydo/internal/config"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
	"rapydo/internal/validation"
)

// Variables are substituted into composer entries whose string values
// start with "$$"
type Variables map[string]interface{}

// Frontend variants accepted by --frontend
const (
	FrontendAngular = "angular"
	FrontendReact   = "react"
	FrontendNone    = "no"
)

// VariableOptions are the run flags that drive fragment selection
type VariableOptions struct {
	Backend  bool
	Frontend string
	Commons  bool
	Stack    string
	// BaseConfDir holds the core fragments
	BaseConfDir string
	// CustomConfDir holds the project fragments
	CustomConfDir string
	// ExtendedConfDir holds the fragments of the extended project, if any
	ExtendedConfDir string
}

// NewVariables builds the substitution table for composer entries
func NewVariables(opts VariableOptions) Variables {
	extended := opts.ExtendedConfDir != ""
	vars := Variables{
		"backend":          opts.Backend,
		FrontendAngular:    opts.Frontend == FrontendAngular,
		FrontendReact:      opts.Frontend == FrontendReact,
		"commons":          opts.Commons,
		"extended-commons": extended && opts.Commons,
		"mode":             opts.Stack + ".yml",
		"extended-mode":    extended,
		"baseconf":         opts.BaseConfDir,
		"customconf":       opts.CustomConfDir,
		"extendedproject":  nil,
	}
	if extended {
		vars["extendedproject"] = opts.ExtendedConfDir
	}
	return vars
}

// Composer is one candidate compose fragment after substitution
type Composer struct {
	Name      string
	File      string
	Path      string
	If        bool
	Mandatory bool
	Base      bool
}

// Location returns the fragment path on disk
func (c Composer) Location() string {
	return filepath.Join(c.Path, c.File)
}

// Selection is the outcome of SelectFiles
type Selection struct {
	// AllFiles feeds the full compose configuration
	AllFiles []string
	// BaseFiles feeds the core-only compose configuration
	BaseFiles []string
}

// ApplyVariables replaces every "$$name" string value of entry with the
// matching variable. Unknown names become nil.
func ApplyVariables(entry *config.Tree, vars Variables) *config.Tree {
	out := config.NewTree()
	for _, key := range entry.Keys() {
		value, _ := entry.Get(key)
		if s, ok := value.(string); ok && strings.HasPrefix(s, "$$") {
			value = vars[strings.TrimLeft(s, "$")]
		}
		out.Set(key, value)
	}
	return out
}

// ParseComposers converts the "composers" configuration section into
// Composer values, in configuration order
func ParseComposers(composers *config.Tree, vars Variables) ([]Composer, error) {
	var out []Composer
	for _, name := range composers.Keys() {
		entry := composers.Subtree(name)
		if entry == nil {
			return nil, errors.ConfigInvalid("composer " + name + " must be a mapping")
		}
		entry = ApplyVariables(entry, vars)

		c := Composer{
			Name:      name,
			If:        truthy(entry, "if"),
			Mandatory: truthy(entry, "mandatory"),
			Base:      truthy(entry, "base"),
		}
		c.File = entry.String("file")
		c.Path = entry.String("path")
		out = append(out, c)
	}
	return out, nil
}

// SelectFiles chooses the compose fragments to render. Fragments whose
// "if" is false are ignored, missing optional fragments are skipped and
// fragments without services are skipped.
func SelectFiles(composers *config.Tree, vars Variables) (*Selection, error) {
	entries, err := ParseComposers(composers, vars)
	if err != nil {
		return nil, err
	}

	selection := &Selection{}
	for _, c := range entries {
		if !c.If {
			continue
		}
		log := logger.WithField("composer", c.Name)
		log.Debug("Composing")

		if c.File == "" || c.Path == "" {
			return nil, errors.ConfigInvalid("composer " + c.Name + " requires both file and path")
		}
		// fragments are named relative to their conf directory
		file, err := validation.Path(c.File)
		if err != nil {
			return nil, err
		}
		c.File = file

		mode := config.Optional
		if c.Mandatory {
			mode = config.Mandatory
		}

		path := c.Location()
		tree, err := config.Load(path, mode)
		if err != nil {
			return nil, err
		}

		services := tree.Subtree("services")
		if services.Len() == 0 {
			log.WithField("file", path).Debug("No services defined, skipping")
			continue
		}

		selection.AllFiles = append(selection.AllFiles, path)
		if c.Base {
			selection.BaseFiles = append(selection.BaseFiles, path)
		}
	}

	return selection, nil
}

func truthy(entry *config.Tree, key string) bool {
	v, _ := entry.Get(key)
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	case *config.Tree:
		return val.Len() > 0
	case []interface{}:
		return len(val) > 0
	}
	return true
}
