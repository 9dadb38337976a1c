package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
)

func newDiagnoseCmd() *cobra.Command {
	var opts diagnostics.Options

	cmd := &cobra.Command{
		Use:   "diagnose <file>",
		Short: "Classify every row of a cost report by match confidence, without writing",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&opts.SheetName, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().StringSliceVar(&opts.Hints.Job, "job-hints", nil, "Override job column hint words")
	cmd.Flags().StringSliceVar(&opts.Hints.Name, "name-hints", nil, "Override name column hint words")
	cmd.Flags().StringSliceVar(&opts.Hints.Financial, "financial-hints", nil, "Override financial column hint words")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		return withApp(func(ctx context.Context, a *app) error {
			report, err := a.diagnostics.Diagnose(ctx, buf, opts)
			if err != nil {
				return err
			}

			return report.WriteText(cmd.OutOrStdout())
		})(cmd, args)
	}

	return cmd
}
