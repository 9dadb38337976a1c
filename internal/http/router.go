package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/costline/internal/http/diagnostics"
	"github.com/MrJamesThe3rd/costline/internal/http/ingest"
	"github.com/MrJamesThe3rd/costline/internal/http/snapshot"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

func New(
	opts Options,
	ingestV1 *ingest.Handler,
	diagnosticsV1 *diagnostics.Handler,
	snapshotsV1 *snapshot.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/ingest", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			ingestV1.Routes(r)
		})

		r.Route("/diagnostics", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			diagnosticsV1.Routes(r)
		})

		r.Route("/projects/{id}/snapshots", snapshotsV1.Routes)
	})

	return router
}
