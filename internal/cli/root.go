package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rapydo",
		Short: "Configuration resolution and build lineage for rapydo projects",
		Long: `rapydo manages multi-service Docker project stacks. It merges the layered
project configuration, selects the compose fragments of the current stack,
resolves the active services and tracks which images must be pulled, built
or rebuilt because their sources changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to showing help if no subcommand
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.Project, "project", "p", "", "Project to load, defaults to .projectrc or the only project")
	pf.BoolVar(&flags.Production, "production", false, "Enable the production defaults")
	pf.StringVarP(&flags.Stack, "stack", "s", "", "Compose stack, defaults to development or production")
	pf.BoolVar(&flags.NoBackend, "no-backend", false, "Skip the backend compose fragments")
	pf.BoolVar(&flags.NoFrontend, "no-frontend", false, "Skip the frontend compose fragments")
	pf.BoolVar(&flags.NoCommons, "no-commons", false, "Skip the commons compose fragments")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.Swarm, "swarm", false, "Look up images in the registry instead of the local daemon")
	pf.StringVar(&flags.Defaults, "defaults", "", "Directory holding projects_defaults.yaml")

	return rootCmd
}
