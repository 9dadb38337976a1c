package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the project registry with its aliases",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = withApp(func(ctx context.Context, a *app) error {
		projects, err := a.projects.List(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCODE\tALIASES")

		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Code, strings.Join(p.Aliases, ", "))
		}

		return tw.Flush()
	})

	return cmd
}
