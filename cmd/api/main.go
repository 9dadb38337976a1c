package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/costline/internal/config"
	"github.com/MrJamesThe3rd/costline/internal/database"
	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
	"github.com/MrJamesThe3rd/costline/internal/export"
	costlineHttp "github.com/MrJamesThe3rd/costline/internal/http"
	diagnosticsHandler "github.com/MrJamesThe3rd/costline/internal/http/diagnostics"
	ingestHandler "github.com/MrJamesThe3rd/costline/internal/http/ingest"
	snapshotHandler "github.com/MrJamesThe3rd/costline/internal/http/snapshot"
	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/project"
	projectStore "github.com/MrJamesThe3rd/costline/internal/project/store"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
	snapshotStore "github.com/MrJamesThe3rd/costline/internal/snapshot/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	hints := ingest.Hints{
		Job:       cfg.Ingest.JobHints,
		Name:      cfg.Ingest.NameHints,
		Financial: cfg.Ingest.FinancialHints,
	}

	var (
		projectService     = project.NewService(projectStore.New(db))
		snapshotService    = snapshot.NewService(snapshotStore.New(db))
		ingestService      = ingest.NewService(projectService, snapshotService, hints)
		diagnosticsService = diagnostics.NewService(projectService, hints)
		exportService      = export.NewService(snapshotService)
	)

	var (
		ingestH      = ingestHandler.NewHandler(ingestService, cfg.Ingest.MaxUpload)
		diagnosticsH = diagnosticsHandler.NewHandler(diagnosticsService, cfg.Ingest.MaxUpload)
		snapshotH    = snapshotHandler.NewHandler(snapshotService, exportService)
	)

	router := costlineHttp.New(costlineHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, ingestH, diagnosticsH, snapshotH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
