package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rapydo/internal/operations"

	"github.com/spf13/cobra"
)

// ServicesCommand lists the services of the project and their state
func ServicesCommand(load ProjectLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Short:   "List the project services",
		Aliases: []string{"svcs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := load(cmd.Context())
			if err != nil {
				return err
			}
			activeOnly, _ := cmd.Flags().GetBool("active")
			return listServices(cmd.OutOrStdout(), p, activeOnly)
		},
	}
	cmd.Flags().BoolP("active", "a", false, "Only show active services")
	return cmd
}

func listServices(out io.Writer, p *operations.Project, activeOnly bool) error {
	active := make(map[string]struct{}, len(p.Active))
	for _, name := range p.Active {
		active[name] = struct{}{}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tIMAGE\tACTIVE\tDEPENDS ON")
	for _, service := range p.Services {
		_, isActive := active[service.Name]
		if activeOnly && !isActive {
			continue
		}
		state := "no"
		if isActive {
			state = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			service.Name, service.Image, state, strings.Join(service.DependsOn, ","))
	}
	return w.Flush()
}
