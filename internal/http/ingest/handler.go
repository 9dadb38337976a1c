package ingest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/costline/internal/http/respond"
	"github.com/MrJamesThe3rd/costline/internal/ingest"
)

type Handler struct {
	svc       *ingest.Service
	maxUpload int64
}

func NewHandler(svc *ingest.Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.ingest)
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	upload, err := respond.ReadUpload(r, h.maxUpload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := ingest.Options{
		SourceFileName: upload.Name,
		SheetName:      r.FormValue("sheet"),
		Hints: ingest.Hints{
			Job:       respond.List(r.FormValue("job_hints")),
			Name:      respond.List(r.FormValue("name_hints")),
			Financial: respond.List(r.FormValue("financial_hints")),
		},
	}

	if s := r.FormValue("dry_run"); s != "" {
		opts.DryRun, err = strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "dry_run must be a boolean", http.StatusBadRequest)
			return
		}
	}

	if s := r.FormValue("period_start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "period_start must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		opts.PeriodStart = new(t)
	}

	if s := r.FormValue("source_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "source_date must be RFC 3339", http.StatusBadRequest)
			return
		}

		opts.SourceDate = new(t)
	}

	if s := r.FormValue("source_file_name"); s != "" {
		opts.SourceFileName = s
	}

	res, err := h.svc.Ingest(r.Context(), upload.Data, opts)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if opts.DryRun {
		status = http.StatusOK
	}

	respond.JSON(w, status, toResponse(res))
}
