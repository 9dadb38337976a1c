package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/costline/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app) error {
			if err := database.Migrate(ctx, a.db); err != nil {
				return err
			}

			slog.InfoContext(ctx, "schema applied", "database", a.cfg.DB.Name)

			return nil
		}),
	}
}
