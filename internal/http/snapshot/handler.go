package snapshot

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/costline/internal/export"
	"github.com/MrJamesThe3rd/costline/internal/http/respond"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

type Handler struct {
	svc    *snapshot.Service
	export *export.Service
}

func NewHandler(svc *snapshot.Service, exportSvc *export.Service) *Handler {
	return &Handler{svc: svc, export: exportSvc}
}

// Routes is mounted under /projects/{id}/snapshots.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/export", h.download)
}

type snapshotResponse struct {
	ID          uuid.UUID                      `json:"id"`
	ProjectID   uuid.UUID                      `json:"project_id"`
	PeriodStart string                         `json:"period_start"`
	PeriodEnd   string                         `json:"period_end"`
	Budget      decimal.NullDecimal            `json:"budget"`
	Forecast    decimal.NullDecimal            `json:"forecast"`
	Actual      decimal.NullDecimal            `json:"actual"`
	Committed   decimal.NullDecimal            `json:"committed"`
	Spent       decimal.NullDecimal            `json:"spent"`
	Variance    decimal.NullDecimal            `json:"variance"`
	RawValues   map[string]decimal.NullDecimal `json:"raw_values"`
	JobNumbers  []string                       `json:"job_numbers"`
	Identifiers []string                       `json:"identifiers"`
	SourceFile  string                         `json:"source_file"`
	SourceDate  time.Time                      `json:"source_date"`
	MatchType   string                         `json:"match_type"`
	Ambiguous   bool                           `json:"ambiguous"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

func toResponse(s *snapshot.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:          s.ID,
		ProjectID:   s.ProjectID,
		PeriodStart: s.PeriodStart.Format(time.DateOnly),
		PeriodEnd:   s.PeriodEnd.Format(time.DateOnly),
		Budget:      s.Budget,
		Forecast:    s.Forecast,
		Actual:      s.Actual,
		Committed:   s.Committed,
		Spent:       s.Spent,
		Variance:    s.Variance,
		RawValues:   s.RawValues,
		JobNumbers:  s.JobNumbers,
		Identifiers: s.Identifiers,
		SourceFile:  s.SourceFile,
		SourceDate:  s.SourceDate,
		MatchType:   s.MatchType,
		Ambiguous:   s.Ambiguous,
		UpdatedAt:   s.UpdatedAt,
	}
}

func parseFilter(r *http.Request) (snapshot.ListFilter, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return snapshot.ListFilter{}, fmt.Errorf("invalid project id")
	}

	filter := snapshot.ListFilter{ProjectID: id}

	if s := r.URL.Query().Get("period_start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return snapshot.ListFilter{}, fmt.Errorf("period_start must be YYYY-MM-DD")
		}

		filter.PeriodStart = new(t)
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snaps, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]snapshotResponse, len(snaps))
	for i, s := range snaps {
		resp[i] = toResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	n, err := h.export.Export(r.Context(), filter, &buf)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filter.ProjectID.String()+"_snapshots.xlsx"))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write export", "error", err)
		return
	}

	slog.InfoContext(r.Context(), "snapshots exported", "project_id", filter.ProjectID, "count", n)
}
