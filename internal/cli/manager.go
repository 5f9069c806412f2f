package cli

import (
	"context"

	"github.com/spf13/cobra"

	"rapydo/internal/cli/commands"
	"rapydo/internal/config"
	"rapydo/internal/lazy"
	"rapydo/internal/logger"
	"rapydo/internal/operations"
)

// Flags are the global flags shared by every command
type Flags struct {
	Project    string
	Production bool
	Stack      string
	NoBackend  bool
	NoFrontend bool
	NoCommons  bool
	LogLevel   string
	Swarm      bool
	Defaults   string
}

// Wiring creates the operations and project options of one invocation
// once the flags are parsed
type Wiring func(ctx context.Context, flags *Flags) (*operations.ProjectOperations, operations.ProjectOptions, error)

// Manager handles CLI operations
type Manager struct {
	global  *config.GlobalConfig
	flags   *Flags
	wiring  Wiring
	rootCmd *cobra.Command

	project *lazy.Lazy[*loadedProject]
}

type loadedProject struct {
	ops     *operations.ProjectOperations
	project *operations.Project
}

// New creates a new CLI manager
func New(global *config.GlobalConfig, wiring Wiring) *Manager {
	if global == nil {
		global = config.DefaultGlobalConfig()
	}
	m := &Manager{
		global: global,
		flags:  &Flags{},
		wiring: wiring,
	}

	m.project = lazy.New[*loadedProject](m.load)
	m.rootCmd = createRootCommand(m.flags)
	m.rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := m.flags.LogLevel
		if level == "" {
			level = m.global.Log.Level
		}
		logger.SetLevel(level)
	}
	m.setupCommands()

	return m
}

// Flags returns the global flags bound to the root command
func (m *Manager) Flags() *Flags {
	return m.flags
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// loadProject returns the project of this invocation, loading it on
// first use
func (m *Manager) loadProject(ctx context.Context) (*operations.ProjectOperations, *operations.Project, error) {
	loaded, err := m.project.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return loaded.ops, loaded.project, nil
}

func (m *Manager) load(ctx context.Context) (*loadedProject, error) {
	ops, opts, err := m.wiring(ctx, m.flags)
	if err != nil {
		return nil, err
	}
	project, err := ops.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &loadedProject{ops: ops, project: project}, nil
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Configuration inspection commands",
		Aliases: []string{"cfg"},
	}
	for _, cmd := range commands.ConfigCommands(m.loadProject, m.global) {
		configCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(configCmd)

	m.rootCmd.AddCommand(commands.ServicesCommand(m.loadProject))

	for _, cmd := range commands.BuildCommands(m.loadProject) {
		m.rootCmd.AddCommand(cmd)
	}
}
