package commands

import (
	"fmt"
	"io"

	"rapydo/internal/config"
	"rapydo/internal/errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigCommands creates configuration inspection commands
func ConfigCommands(load ProjectLoader, global *config.GlobalConfig) []*cobra.Command {
	commands := []*cobra.Command{}

	// rapydo config show
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective project configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			showGlobal, _ := cmd.Flags().GetBool("global")
			if showGlobal {
				return showGlobalConfig(cmd.OutOrStdout(), global)
			}

			_, p, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return showTree(cmd.OutOrStdout(), p.Config.Tree)
		},
	}
	showCmd.Flags().BoolP("global", "g", false, "Show global configuration")
	commands = append(commands, showCmd)

	// rapydo config get <key>
	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value by dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := load(cmd.Context())
			if err != nil {
				return err
			}
			return getConfigValue(cmd.OutOrStdout(), p.Config.Tree, args[0])
		},
	}
	commands = append(commands, getCmd)

	return commands
}

func showTree(out io.Writer, tree *config.Tree) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return errors.InternalError("encoding configuration", err)
	}
	return enc.Close()
}

func showGlobalConfig(out io.Writer, global *config.GlobalConfig) error {
	masked := *global
	if masked.Registry.Password != "" {
		masked.Registry.Password = "********"
	}

	data, err := toml.Marshal(&masked)
	if err != nil {
		return errors.InternalError("encoding global configuration", err)
	}
	_, err = out.Write(data)
	return err
}

func getConfigValue(out io.Writer, tree *config.Tree, key string) error {
	value, ok := tree.Lookup(key)
	if !ok {
		return errors.NewWithDetails(errors.ErrMissingConfig, "Unknown configuration key", key)
	}

	switch v := value.(type) {
	case *config.Tree, []interface{}:
		return showTree(out, wrap(key, v))
	case nil:
		fmt.Fprintln(out, "")
	default:
		fmt.Fprintln(out, v)
	}
	return nil
}

func wrap(key string, value interface{}) *config.Tree {
	tree := config.NewTree()
	tree.Set(key, value)
	return tree
}
