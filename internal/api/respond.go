package api

import (
	"encoding/json"
	"net/http"

	"github.com/MikeSquared-Agency/Ranker/internal/analysis"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a report's outcome onto an HTTP status. The report body is
// written either way.
func statusFor(rep analysis.Report) int {
	if rep.Success {
		return http.StatusOK
	}
	switch rep.Kind {
	case analysis.KindEmptyInput:
		return http.StatusUnprocessableEntity
	case analysis.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
