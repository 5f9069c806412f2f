package operations

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rapydo/internal/builds"
	"rapydo/internal/compose"
	"rapydo/internal/config"
	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
	"rapydo/internal/validation"
)

// ProjectOptions are the invocation flags that shape a project load
type ProjectOptions struct {
	// Root is the rapydo repository holding projects/ and submodules/
	Root string
	// Project is the requested project name; empty picks one
	Project string
	// DefaultsPath holds projects_defaults.yaml; empty skips the defaults
	DefaultsPath string
	Production   bool
	Stack        string
	NoBackend    bool
	NoFrontend   bool
	NoCommons    bool
	// Host carries the .projectrc settings and overrides
	Host *config.HostConfig
}

// Project is a fully loaded project: configuration, compose services
// and the active set
type Project struct {
	Name      string
	Path      string
	Stack     string
	Frontend  string
	Config    *config.ResolvedConfiguration
	Selection *compose.Selection
	// Services is the rendered full configuration
	Services compose.Services
	// BaseServices is the rendered core-only configuration
	BaseServices compose.Services
	Active       []string
}

// ProjectOperations provides the project level functions shared by the
// commands
type ProjectOperations struct {
	renderer  ComposeRenderer
	inspector ImageInspector
	images    ImageChecker
	vcs       VersionControl
}

// NewProjectOperations creates a new ProjectOperations instance. images
// is the local daemon or the registry, depending on the deploy mode.
func NewProjectOperations(renderer ComposeRenderer, inspector ImageInspector, images ImageChecker, vcs VersionControl) *ProjectOperations {
	return &ProjectOperations{
		renderer:  renderer,
		inspector: inspector,
		images:    images,
		vcs:       vcs,
	}
}

// SelectProject returns the project to load: the requested one, the one
// named in .projectrc, or the only project in the repository
func SelectProject(root, requested string, host *config.HostConfig) (string, error) {
	if requested != "" {
		return requested, validation.ProjectName(requested)
	}
	if host != nil {
		if name := host.String("project"); name != "" {
			return name, validation.ProjectName(name)
		}
	}

	entries, err := os.ReadDir(filepath.Join(root, constants.ProjectsDir))
	if err != nil {
		return "", errors.NewWithDetails(errors.ErrMissingConfig, "Projects directory not found", filepath.Join(root, constants.ProjectsDir))
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			projects = append(projects, entry.Name())
		}
	}

	switch len(projects) {
	case 0:
		return "", errors.NewWithDetails(errors.ErrMissingConfig, "No project found", filepath.Join(root, constants.ProjectsDir))
	case 1:
		return projects[0], nil
	}
	sort.Strings(projects)
	return "", errors.ConfigInvalid("Multiple projects found, please use --project to specify one of the following: " +
		strings.Join(projects, ", "))
}

// Load resolves the project configuration, selects and renders the
// compose fragments and computes the active services
func (po *ProjectOperations) Load(ctx context.Context, opts ProjectOptions) (*Project, error) {
	host := opts.Host
	if host == nil {
		host = &config.HostConfig{}
	}

	name, err := SelectProject(opts.Root, opts.Project, host)
	if err != nil {
		return nil, err
	}
	log := logger.WithContext(ctx).WithField("project", name)

	projectsDir := filepath.Join(opts.Root, constants.ProjectsDir)
	resolved, err := config.Resolve(config.ResolveOptions{
		ProjectPath:    filepath.Join(projectsDir, name),
		DefaultsPath:   opts.DefaultsPath,
		ProjectsDir:    projectsDir,
		SubmodulesDir:  filepath.Join(opts.Root, constants.SubmodulesDir),
		Production:     opts.Production,
		AllowExtension: true,
		HostOverrides:  host.ProjectOverrides(),
	})
	if err != nil {
		return nil, err
	}
	config.CheckVersion(resolved.Tree, constants.Version)

	p := &Project{
		Name:     name,
		Path:     filepath.Join(projectsDir, name),
		Stack:    stackFor(opts, host),
		Frontend: frontendFor(resolved.Tree, opts.NoFrontend),
		Config:   resolved,
	}
	log.WithFields(logger.Fields{
		"stack":    p.Stack,
		"frontend": p.Frontend,
	}).Debug("Configuration loaded")

	vars := compose.NewVariables(compose.VariableOptions{
		Backend:         !opts.NoBackend,
		Frontend:        p.Frontend,
		Commons:         !opts.NoCommons,
		Stack:           p.Stack,
		BaseConfDir:     filepath.Join(opts.Root, constants.SubmodulesDir, constants.ComposeDir, constants.ConfsDirName),
		CustomConfDir:   filepath.Join(p.Path, constants.ConfsDirName),
		ExtendedConfDir: extendedConfDir(resolved),
	})

	composers, _ := resolved.Tree.Lookup("variables.composers")
	composerTree, _ := composers.(*config.Tree)
	if composerTree == nil {
		composerTree = config.NewTree()
	}

	p.Selection, err = compose.SelectFiles(composerTree, vars)
	if err != nil {
		return nil, err
	}
	if len(p.Selection.AllFiles) == 0 {
		return nil, errors.ConfigInvalid("No compose file selected, check variables.composers")
	}
	log.WithField("files", p.Selection.AllFiles).Debug("Configuration order")

	if len(p.Selection.BaseFiles) > 0 {
		p.BaseServices, err = po.renderer.RenderComposeConfig(ctx, p.Selection.BaseFiles)
		if err != nil {
			return nil, err
		}
	}
	p.Services, err = po.renderer.RenderComposeConfig(ctx, p.Selection.AllFiles)
	if err != nil {
		return nil, err
	}

	p.Active = compose.ResolveActive(p.Services)
	if len(p.Active) == 0 {
		log.Warn("You have no active service, add ACTIVATE: 1 to the environment of a top-level service")
	}

	return p, nil
}

// Builds returns the build graph of the full configuration
func (po *ProjectOperations) Builds(p *Project, includeImages bool) (*builds.Graph, error) {
	return builds.FindTemplates(p.Services, includeImages)
}

// CoreBuilds returns the template builds of the core-only configuration
func (po *ProjectOperations) CoreBuilds(p *Project) (*builds.Graph, error) {
	return builds.FindTemplates(p.BaseServices, false)
}

// Check reports missing and obsolete images used by active services
func (po *ProjectOperations) Check(ctx context.Context, p *Project) (*builds.Report, error) {
	return builds.NewChecker(po.inspector, po.vcs).Check(ctx, p.Services, p.BaseServices, p.Active)
}

// Verify makes sure every image needed by services is available. An
// empty list verifies the active services.
func (po *ProjectOperations) Verify(ctx context.Context, p *Project, services []string) error {
	if len(services) == 0 {
		services = p.Active
	}
	for _, name := range services {
		if err := validation.ServiceName(name); err != nil {
			return err
		}
		if p.Services.Get(name) == nil {
			return errors.ConfigInvalid("No such service: " + name)
		}
	}

	if pinger, ok := po.images.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			return err
		}
	}

	return builds.NewVerifier(po.images).Verify(ctx, services, p.Services, p.BaseServices)
}

func stackFor(opts ProjectOptions, host *config.HostConfig) string {
	if opts.Stack != "" {
		return opts.Stack
	}
	if stack := host.String("stack"); stack != "" {
		return stack
	}
	if opts.Production {
		return "production"
	}
	return "development"
}

func frontendFor(tree *config.Tree, disabled bool) string {
	if disabled {
		return ""
	}
	framework := tree.String("variables.env.FRONTEND_FRAMEWORK")
	if framework == "None" || framework == compose.FrontendNone {
		return ""
	}
	return framework
}

func extendedConfDir(resolved *config.ResolvedConfiguration) string {
	if resolved.ExtendedPath == "" {
		return ""
	}
	return filepath.Join(resolved.ExtendedPath, constants.ConfsDirName)
}
