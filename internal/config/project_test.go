package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapydo/internal/errors"
)

const minimalProject = `
project:
  title: Demo
  description: demo project
  version: "1.0"
  rapydo: "2.4"
`

type projectLayout struct {
	root      string
	defaults  string
	projects  string
	submodule string
}

const baseDefaults = `
variables:
  source: defaults
  env:
    DEBUG: 0
`

func newLayout(t *testing.T) projectLayout {
	root := t.TempDir()
	l := projectLayout{
		root:      root,
		defaults:  filepath.Join(root, "confs"),
		projects:  filepath.Join(root, "projects"),
		submodule: filepath.Join(root, "submodules"),
	}
	writeFile(t, l.defaults, DefaultsFile, baseDefaults)
	return l
}

func (l projectLayout) options(project string) ResolveOptions {
	return ResolveOptions{
		ProjectPath:    filepath.Join(l.projects, project),
		DefaultsPath:   l.defaults,
		ProjectsDir:    l.projects,
		SubmodulesDir:  l.submodule,
		AllowExtension: true,
	}
}

func TestResolveProductionCascade(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.defaults, DefaultsFile, "variables:\n  workers: 1\n")
	writeFile(t, l.defaults, ProdDefaultsFile, "variables:\n  workers: 4\n")
	writeFile(t, l.projects, "demo/"+ProjectConfigFile, minimalProject+"variables:\n  workers: 2\n")

	opts := l.options("demo")
	opts.Production = true

	resolved, err := Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "2", resolved.Tree.String("variables.workers"))
	assert.Empty(t, resolved.ExtendedProject)
	assert.Empty(t, resolved.ExtendedPath)
}

func TestResolveProductionDefaultsOverrideDefaults(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.defaults, DefaultsFile, "variables:\n  workers: 1\n  log: info\n")
	writeFile(t, l.defaults, ProdDefaultsFile, "variables:\n  workers: 4\n")
	writeFile(t, l.projects, "demo/"+ProjectConfigFile, minimalProject)

	opts := l.options("demo")

	resolved, err := Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "1", resolved.Tree.String("variables.workers"))

	opts.Production = true
	resolved, err = Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "4", resolved.Tree.String("variables.workers"))
	assert.Equal(t, "info", resolved.Tree.String("variables.log"))
}

func TestResolveWithoutDefaults(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.projects, "demo/"+ProjectConfigFile, minimalProject)

	opts := l.options("demo")
	opts.DefaultsPath = ""

	resolved, err := Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "Demo", resolved.Tree.String("project.title"))
}

func TestResolveMissingDefaults(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.projects, "demo/"+ProjectConfigFile, minimalProject)

	opts := l.options("demo")
	opts.DefaultsPath = filepath.Join(l.root, "elsewhere")
	_, err := Resolve(opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
	assert.Contains(t, err.Error(), DefaultsFile)

	opts = l.options("demo")
	opts.Production = true
	_, err = Resolve(opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
	assert.Contains(t, err.Error(), ProdDefaultsFile)
}

func TestResolveRequiredKeys(t *testing.T) {
	for _, key := range []string{"title", "description", "version", "rapydo"} {
		t.Run(key, func(t *testing.T) {
			l := newLayout(t)
			tree := parseTree(t, minimalProject)
			tree.Subtree("project").Delete(key)
			writeFile(t, l.projects, "demo/"+ProjectConfigFile, marshalTree(t, tree))

			_, err := Resolve(l.options("demo"))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
			assert.Contains(t, err.Error(), "project."+key)
		})
	}

	t.Run("no project section", func(t *testing.T) {
		l := newLayout(t)
		writeFile(t, l.projects, "demo/"+ProjectConfigFile, "variables: {}\n")

		_, err := Resolve(l.options("demo"))
		assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
	})

	t.Run("missing project file", func(t *testing.T) {
		l := newLayout(t)
		_, err := Resolve(l.options("demo"))
		assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
	})
}

func TestResolveExtendsFromProjects(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.defaults, DefaultsFile, "variables:\n  a: default\n  b: default\n  c: default\n")
	writeFile(t, l.projects, "parent/"+ProjectConfigFile, minimalProject+"variables:\n  b: parent\n  c: parent\n")
	writeFile(t, l.projects, "child/"+ProjectConfigFile,
		minimalProject+"  extends: parent\n  extends-from: projects\nvariables:\n  c: child\n")

	resolved, err := Resolve(l.options("child"))
	require.NoError(t, err)

	assert.Equal(t, "default", resolved.Tree.String("variables.a"))
	assert.Equal(t, "parent", resolved.Tree.String("variables.b"))
	assert.Equal(t, "child", resolved.Tree.String("variables.c"))
	assert.Equal(t, "parent", resolved.ExtendedProject)
	assert.Equal(t, filepath.Join(l.projects, "parent"), resolved.ExtendedPath)
}

func TestResolveExtendsDisabled(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.projects, "child/"+ProjectConfigFile, minimalProject+"  extends: parent\n")

	opts := l.options("child")
	opts.AllowExtension = false

	resolved, err := Resolve(opts)
	require.NoError(t, err)
	assert.Empty(t, resolved.ExtendedProject)
	assert.Equal(t, "defaults", resolved.Tree.String("variables.source"))
}

func TestResolveExtendsFromSubmodule(t *testing.T) {
	l := newLayout(t)
	parentDir := filepath.Join(l.submodule, "shared", "projects")
	writeFile(t, parentDir, "parent/"+ProjectConfigFile, minimalProject+"variables:\n  from: submodule\n")
	writeFile(t, l.projects, "child/"+ProjectConfigFile,
		minimalProject+"  extends: parent\n  extends-from: submodules/shared\n")

	resolved, err := Resolve(l.options("child"))
	require.NoError(t, err)
	assert.Equal(t, "submodule", resolved.Tree.String("variables.from"))
	assert.Equal(t, "defaults", resolved.Tree.String("variables.source"))
	assert.Equal(t, filepath.Join(parentDir, "parent"), resolved.ExtendedPath)
}

func TestResolveExtendsErrors(t *testing.T) {
	tests := []struct {
		name        string
		extendsFrom string
		code        errors.ErrorCode
		message     string
	}{
		{"empty submodule name", "submodules/", errors.ErrInvalidConfig, "name is empty"},
		{"unknown source", "elsewhere", errors.ErrInvalidConfig, "Invalid extends-from parameter"},
		{"missing project", "projects", errors.ErrMissingConfig, "From project not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout(t)
			writeFile(t, l.projects, "child/"+ProjectConfigFile,
				minimalProject+"  extends: parent\n  extends-from: "+tt.extendsFrom+"\n")

			_, err := Resolve(l.options("child"))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestResolveHostOverridesWin(t *testing.T) {
	l := newLayout(t)
	writeFile(t, l.projects, "demo/"+ProjectConfigFile, minimalProject+"variables:\n  env:\n    DEBUG: 0\n")

	opts := l.options("demo")
	opts.HostOverrides = parseTree(t, "variables:\n  env:\n    DEBUG: 1\n")

	resolved, err := Resolve(opts)
	require.NoError(t, err)
	assert.Equal(t, "1", resolved.Tree.String("variables.env.DEBUG"))
	assert.Equal(t, "defaults", resolved.Tree.String("variables.source"))
}
