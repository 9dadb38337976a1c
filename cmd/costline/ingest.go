package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
)

type ingestOptions struct {
	period     string
	sourceDate string
	sheet      string
	dryRun     bool
	asJSON     bool
	hints      ingest.Hints
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Match a cost report against the registry and write the period's snapshots",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&opts.period, "period", "", "Any date in the reporting week, YYYY-MM-DD (required unless --dry-run)")
	cmd.Flags().StringVar(&opts.sourceDate, "source-date", "", "When the report was produced, RFC 3339 (default: now)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Compute everything but write nothing")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().StringSliceVar(&opts.hints.Job, "job-hints", nil, "Override job column hint words")
	cmd.Flags().StringSliceVar(&opts.hints.Name, "name-hints", nil, "Override name column hint words")
	cmd.Flags().StringSliceVar(&opts.hints.Financial, "financial-hints", nil, "Override financial column hint words")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		in := ingest.Options{
			DryRun:         opts.dryRun,
			SourceFileName: filepath.Base(args[0]),
			SheetName:      opts.sheet,
			Hints:          opts.hints,
		}

		if opts.period != "" {
			t, err := time.Parse(time.DateOnly, opts.period)
			if err != nil {
				return usageError{fmt.Errorf("invalid --period: %w", err)}
			}

			in.PeriodStart = new(t)
		}

		if opts.sourceDate != "" {
			t, err := time.Parse(time.RFC3339, opts.sourceDate)
			if err != nil {
				return usageError{fmt.Errorf("invalid --source-date: %w", err)}
			}

			in.SourceDate = new(t)
		}

		buf, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		return withApp(func(ctx context.Context, a *app) error {
			res, err := a.ingest.Ingest(ctx, buf, in)
			if err != nil {
				return err
			}

			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(res)
			}

			return printIngest(cmd.OutOrStdout(), res)
		})(cmd, args)
	}

	return cmd
}

func printIngest(w io.Writer, res *ingest.Result) error {
	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if s.PeriodStart != nil {
		fmt.Fprintf(tw, "Period:\t%s\n", s.PeriodStart.Format(time.DateOnly))
	}

	fmt.Fprintf(tw, "Dry run:\t%t\n", s.DryRun)
	fmt.Fprintf(tw, "Spreadsheet rows:\t%d (%d skipped)\n", s.TotalExcelRows, s.SkippedRows)
	fmt.Fprintf(tw, "Data rows:\t%d\n", s.TotalRows)
	fmt.Fprintf(tw, "Financial columns:\t%v\n", s.FinancialColumns)
	fmt.Fprintf(tw, "Registry projects:\t%d\n", s.TotalProjectsInRegistry)
	fmt.Fprintf(tw, "Matched projects:\t%d (%d rows via project number)\n", s.MatchedProjects, s.MatchedByIdentifier)
	fmt.Fprintf(tw, "Ambiguous rows:\t%d\n", s.AmbiguousRows)
	fmt.Fprintf(tw, "Unmatched rows:\t%d\n", s.Unmatched)
	fmt.Fprintf(tw, "Snapshots written:\t%d\n", s.ProjectsUpdated)

	for _, warn := range s.Warnings {
		fmt.Fprintf(tw, "Warning:\t%s\n", warn)
	}

	if len(res.UnmatchedRows) > 0 {
		fmt.Fprintln(tw, "\nUnmatched:")

		for _, r := range res.UnmatchedRows {
			fmt.Fprintf(tw, "  row %d\t%s\t%s\t%s\n", r.Number, r.JobNumber, r.ProjectIdentifier, r.ProjectName)
		}
	}

	return tw.Flush()
}
