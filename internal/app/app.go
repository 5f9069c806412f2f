package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"rapydo/internal/cli"
	"rapydo/internal/config"
	"rapydo/internal/constants"
	"rapydo/internal/container"
	"rapydo/internal/git"
	"rapydo/internal/logger"
	"rapydo/internal/operations"
	"rapydo/internal/xdg"
)

// App represents the main application
type App struct {
	Global   *config.GlobalConfig
	Provider *container.DockerProvider
	Repos    *git.Set
	CLI      *cli.Manager

	// workdir overrides the current directory, mostly useful in tests
	workdir string
	// provider overrides the docker backed provider, mostly useful in tests
	provider container.Provider
}

// New creates a new application instance
func New() *App {
	return &App{}
}

// Run starts the application
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext starts the application with a context for cancellation
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load global config: %w", err)
	}
	if err := config.ValidateGlobalConfig(global); err != nil {
		return fmt.Errorf("invalid global config: %w", err)
	}
	a.Global = global
	logger.SetLevel(global.Log.Level)

	ctx, log := logger.ForInvocation(ctx)
	log.WithField("args", args).Debug("Starting rapydo")

	a.CLI = cli.New(global, a.wire)

	// Show help if no arguments provided
	if len(args) == 0 {
		return a.CLI.ExecuteWithContext(ctx, []string{"--help"})
	}
	return a.CLI.ExecuteWithContext(ctx, args)
}

// wire creates the collaborators of one invocation: host settings from
// .projectrc and .env, the docker provider, the git repositories and
// the image checker of the deploy mode
func (a *App) wire(ctx context.Context, flags *cli.Flags) (*operations.ProjectOperations, operations.ProjectOptions, error) {
	root := a.workdir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, operations.ProjectOptions{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}

	host, err := config.LoadHostConfig(root)
	if err != nil {
		return nil, operations.ProjectOptions{}, err
	}
	env, err := config.LoadProjectEnv(root)
	if err != nil {
		return nil, operations.ProjectOptions{}, err
	}

	defaults, err := defaultsPath(flags.Defaults)
	if err != nil {
		return nil, operations.ProjectOptions{}, err
	}

	var provider container.Provider
	if a.provider != nil {
		provider = a.provider
	} else {
		a.Provider = container.NewDockerProvider(nil)
		if !a.Provider.IsAvailable(ctx) {
			return nil, operations.ProjectOptions{}, container.NewContainerError(
				container.ErrorTypeRuntimeNotFound, "docker --version", "Docker is not available", nil)
		}
		provider = a.Provider
	}

	// Build templates are checked out inside the main repository, so
	// they must be looked up first
	a.Repos = git.NewSet()
	a.Repos.Add(constants.BuildTemplatesRepo, filepath.Join(root, constants.SubmodulesDir, constants.BuildTemplatesRepo))
	a.Repos.Add(constants.MainRepo, root)

	var images operations.ImageChecker = provider
	if flags.Swarm || a.Global.Deploy.Swarm || host.Bool("swarm") {
		registry := a.Global.Registry
		env.ApplyRegistry(&registry)
		images = container.NewRegistry(registry.Host, registry.Port, registry.Username, registry.Password)
		logger.WithContext(ctx).WithField("registry", registry.Address()).Debug("Swarm mode, using the registry")
	}

	opts := operations.ProjectOptions{
		Root:         root,
		Project:      flags.Project,
		DefaultsPath: defaults,
		Production:   flags.Production || host.Bool("production"),
		Stack:        flags.Stack,
		NoBackend:    flags.NoBackend || host.Bool("no-backend"),
		NoFrontend:   flags.NoFrontend || host.Bool("no-frontend"),
		NoCommons:    flags.NoCommons || host.Bool("no-commons"),
		Host:         host,
	}

	return operations.NewProjectOperations(provider, provider, images, a.Repos), opts, nil
}

// defaultsPath returns the directory of the shipped defaults. Without an
// explicit directory the XDG data directory is used when it holds them.
func defaultsPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	dir, err := xdg.ConfsDir()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(dir, config.DefaultsFile)); err != nil {
		logger.WithField("path", dir).Debug("No shipped defaults found")
		return "", nil
	}
	return dir, nil
}
