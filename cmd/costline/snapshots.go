package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/costline/internal/export"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

func newSnapshotsCmd() *cobra.Command {
	var (
		period string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "snapshots <project-id>",
		Short: "Show a project's snapshot history, newest first",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&period, "period", "", "Only the week containing this date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write the history to this .xlsx file instead of printing it")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return usageError{fmt.Errorf("invalid project id: %w", err)}
		}

		filter := snapshot.ListFilter{ProjectID: id}

		if period != "" {
			t, err := time.Parse(time.DateOnly, period)
			if err != nil {
				return usageError{fmt.Errorf("invalid --period: %w", err)}
			}

			filter.PeriodStart = new(t)
		}

		return withApp(func(ctx context.Context, a *app) error {
			if out == "" {
				snaps, err := a.snapshots.List(ctx, filter)
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), export.Digest(snaps))

				return nil
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()

			n, err := a.export.Export(ctx, filter, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d snapshots to %s\n", n, out)

			return nil
		})(cmd, args)
	}

	return cmd
}
