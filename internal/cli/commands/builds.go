package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"rapydo/internal/builds"
	"rapydo/internal/logger"

	"github.com/spf13/cobra"
)

// BuildCommands creates the image inspection commands
func BuildCommands(load ProjectLoader) []*cobra.Command {
	commands := []*cobra.Command{}

	// rapydo builds
	buildsCmd := &cobra.Command{
		Use:   "builds",
		Short: "Show the images built by the project and the templates they extend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, p, err := load(cmd.Context())
			if err != nil {
				return err
			}

			core, err := ops.CoreBuilds(p)
			if err != nil {
				return err
			}
			all, err := ops.Builds(p, false)
			if err != nil {
				return err
			}
			overrides, err := builds.FindOverrides(p.Services, core)
			if err != nil {
				return err
			}
			return printBuilds(cmd.OutOrStdout(), all, core, overrides)
		},
	}
	commands = append(commands, buildsCmd)

	// rapydo check
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report missing and obsolete images of the active services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, p, err := load(cmd.Context())
			if err != nil {
				return err
			}

			report, err := ops.Check(cmd.Context(), p)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	commands = append(commands, checkCmd)

	// rapydo verify [service...]
	verifyCmd := &cobra.Command{
		Use:   "verify [service...]",
		Short: "Make sure the images needed by services are available",
		Long: `Verify checks core template images first, then every image of the
project. Without arguments the active services are verified. In swarm mode
images are looked up in the registry instead of the local daemon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, p, err := load(cmd.Context())
			if err != nil {
				return err
			}
			if err := ops.Verify(cmd.Context(), p, args); err != nil {
				return err
			}
			logger.WithContext(cmd.Context()).Info("All images are available")
			return nil
		},
	}
	commands = append(commands, verifyCmd)

	return commands
}

func printBuilds(out io.Writer, all, core *builds.Graph, overrides builds.Overrides) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IMAGE\tSERVICE\tSERVICES\tFROM\tPATH")
	for _, build := range all.Builds() {
		from := overrides[build.Image]
		if core.Has(build.Image) {
			from = "template"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			build.Image, build.Service, strings.Join(build.Services, ","), from, build.Path)
	}
	return w.Flush()
}

func printReport(out io.Writer, report *builds.Report) {
	if len(report.Missing) == 0 && len(report.Obsolete) == 0 {
		fmt.Fprintln(out, "All images are up to date")
		return
	}

	for _, missing := range report.Missing {
		fmt.Fprintf(out, "Missing %s, execute rapydo %s\n", missing.Image, missing.Action)
	}
	for _, obsolete := range report.Obsolete {
		if obsolete.From != "" && obsolete.From != obsolete.Image {
			fmt.Fprintf(out, "Obsolete %s: built on %s FROM %s that changed on %s, execute rapydo %s %s\n",
				obsolete.Image, obsolete.Built, obsolete.From, obsolete.Changed, obsolete.Action(), obsolete.Service)
			continue
		}
		fmt.Fprintf(out, "Obsolete %s: built on %s but changed on %s, execute rapydo %s %s\n",
			obsolete.Image, obsolete.Built, obsolete.Changed, obsolete.Action(), obsolete.Service)
	}
}
