package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/costline/internal/config"
	"github.com/MrJamesThe3rd/costline/internal/database"
	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
	"github.com/MrJamesThe3rd/costline/internal/export"
	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/project"
	projectStore "github.com/MrJamesThe3rd/costline/internal/project/store"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
	snapshotStore "github.com/MrJamesThe3rd/costline/internal/snapshot/store"
)

// app holds the services every subcommand works against.
type app struct {
	cfg *config.Config
	db  *sql.DB

	projects    *project.Service
	snapshots   *snapshot.Service
	ingest      *ingest.Service
	diagnostics *diagnostics.Service
	export      *export.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	hints := ingest.Hints{
		Job:       cfg.Ingest.JobHints,
		Name:      cfg.Ingest.NameHints,
		Financial: cfg.Ingest.FinancialHints,
	}

	a := &app{
		cfg:       cfg,
		db:        db,
		projects:  project.NewService(projectStore.New(db)),
		snapshots: snapshot.NewService(snapshotStore.New(db)),
	}

	a.ingest = ingest.NewService(a.projects, a.snapshots, hints)
	a.diagnostics = diagnostics.NewService(a.projects, hints)
	a.export = export.NewService(a.snapshots)

	return a, nil
}

func (a *app) Close() error { return a.db.Close() }

// withApp opens the application for the duration of run.
func withApp(run func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return run(cmd.Context(), a)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "costline",
		Short:         "Ingest weekly project cost reports into period snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newIngestCmd(),
		newDiagnoseCmd(),
		newSnapshotsCmd(),
		newProjectsCmd(),
		newMigrateCmd(),
	)

	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)

		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, "run 'costline --help' for usage")
			os.Exit(2)
		}

		os.Exit(1)
	}
}

// usageError marks errors caused by bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
