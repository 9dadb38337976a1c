package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/costline/internal/ingest"
	"github.com/MrJamesThe3rd/costline/internal/sheet"
	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	http.Error(w, err.Error(), status)
}

func Status(err error) int {
	switch {
	case errors.Is(err, sheet.ErrUnreadable),
		errors.Is(err, ingest.ErrNoHeader),
		errors.Is(err, ingest.ErrNoIdentifyingColumn),
		errors.Is(err, ingest.ErrPeriodRequired):
		return http.StatusBadRequest
	case errors.Is(err, snapshot.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
