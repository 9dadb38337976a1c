package diagnostics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/costline/internal/diagnostics"
	"github.com/MrJamesThe3rd/costline/internal/http/respond"
	"github.com/MrJamesThe3rd/costline/internal/ingest"
)

type Handler struct {
	svc       *diagnostics.Service
	maxUpload int64
}

func NewHandler(svc *diagnostics.Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.diagnose)
}

type candidateResponse struct {
	ProjectID   uuid.UUID              `json:"project_id"`
	ProjectName string                 `json:"project_name"`
	Reason      string                 `json:"match_reason"`
	Confidence  diagnostics.Confidence `json:"confidence"`
}

type matchResponse struct {
	ExcelRow          int                 `json:"excel_row"`
	JobNumber         string              `json:"job_number,omitempty"`
	ProjectIdentifier string              `json:"project_identifier,omitempty"`
	ProjectName       string              `json:"project_name,omitempty"`
	PotentialMatches  []candidateResponse `json:"potential_matches"`
	BestMatch         *candidateResponse  `json:"best_match"`
	IngestMatches     int                 `json:"ingest_matches"`
}

type summaryResponse struct {
	High   int `json:"high_confidence_matches"`
	Medium int `json:"medium_confidence_matches"`
	Low    int `json:"low_confidence_matches"`
	None   int `json:"no_matches"`
}

type reportResponse struct {
	TotalExcelRows        int             `json:"total_excel_rows"`
	TotalRegistryProjects int             `json:"total_registry_projects"`
	Diagnostics           []matchResponse `json:"diagnostics"`
	Summary               summaryResponse `json:"summary"`
	Report                string          `json:"report"`
}

func (h *Handler) diagnose(w http.ResponseWriter, r *http.Request) {
	upload, err := respond.ReadUpload(r, h.maxUpload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.svc.Diagnose(r.Context(), upload.Data, diagnostics.Options{
		SheetName: r.FormValue("sheet"),
		Hints: ingest.Hints{
			Job:       respond.List(r.FormValue("job_hints")),
			Name:      respond.List(r.FormValue("name_hints")),
			Financial: respond.List(r.FormValue("financial_hints")),
		},
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(report))
}

func toCandidate(c diagnostics.Candidate) candidateResponse {
	return candidateResponse{
		ProjectID:   c.Project.ID,
		ProjectName: c.Project.Name,
		Reason:      c.Reason,
		Confidence:  c.Confidence,
	}
}

func toResponse(report *diagnostics.Report) reportResponse {
	resp := reportResponse{
		TotalExcelRows:        report.TotalExcelRows,
		TotalRegistryProjects: report.TotalRegistryProjects,
		Diagnostics:           make([]matchResponse, 0, len(report.Matches)),
		Summary: summaryResponse{
			High:   report.Summary.High,
			Medium: report.Summary.Medium,
			Low:    report.Summary.Low,
			None:   report.Summary.None,
		},
		Report: report.Text(),
	}

	for _, m := range report.Matches {
		mr := matchResponse{
			ExcelRow:          m.Row.Number,
			JobNumber:         m.Row.JobNumber,
			ProjectIdentifier: m.Row.ProjectIdentifier,
			ProjectName:       m.Row.ProjectName,
			PotentialMatches:  make([]candidateResponse, 0, len(m.Candidates)),
			IngestMatches:     len(m.Ingest.Projects),
		}

		for _, c := range m.Candidates {
			mr.PotentialMatches = append(mr.PotentialMatches, toCandidate(c))
		}

		if m.Best != nil {
			mr.BestMatch = new(toCandidate(*m.Best))
		}

		resp.Diagnostics = append(resp.Diagnostics, mr)
	}

	return resp
}
