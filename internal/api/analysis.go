package api

import (
	"fmt"
	"net/http"
	"strconv"
)

type AnalysisHandler struct {
	analyzer Analyzer
}

func NewAnalysisHandler(a Analyzer) *AnalysisHandler {
	return &AnalysisHandler{analyzer: a}
}

func (h *AnalysisHandler) FindBestSupplier(w http.ResponseWriter, r *http.Request) {
	threshold := h.analyzer.DefaultThreshold()
	if v := r.URL.Query().Get("fitness_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			writeError(w, http.StatusBadRequest, "fitness_threshold must be a number within [0, 1]")
			return
		}
		threshold = f
	}
	historyID, err := parseHistoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := h.analyzer.FindBestSupplier(r.Context(), threshold, historyID)
	writeJSON(w, statusFor(report.Report), report)
}

func (h *AnalysisHandler) FindBestArticleBrands(w http.ResponseWriter, r *http.Request) {
	historyID, err := parseHistoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := h.analyzer.FindBestArticleBrands(r.Context(), historyID)
	writeJSON(w, statusFor(report.Report), report)
}

func parseHistoryID(r *http.Request) (*int64, error) {
	v := r.URL.Query().Get("history_id")
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid history_id %q", v)
	}
	return &id, nil
}
