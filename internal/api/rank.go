package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/MikeSquared-Agency/Ranker/internal/analysis"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

const (
	maxRankBody       = 8 << 20
	maxRankCandidates = 10000
)

// RankHandler ranks ad-hoc candidate sets without touching the store.
type RankHandler struct {
	params  evolution.Params
	weights scoring.WeightSet
	logger  *slog.Logger
}

func NewRankHandler(params evolution.Params, weights scoring.WeightSet, logger *slog.Logger) *RankHandler {
	return &RankHandler{params: params, weights: weights, logger: logger}
}

type RankRequest struct {
	Mode    string `json:"mode"`
	Seed    uint64 `json:"seed,omitempty"`
	Explain bool   `json:"explain,omitempty"`
	// Weights replaces the configured forward-mode weights for this call.
	Weights    *scoring.WeightSet  `json:"weights,omitempty"`
	Candidates []ranking.Candidate `json:"candidates"`
}

type RankResponse struct {
	Success       bool    `json:"success"`
	ExecutionTime float64 `json:"execution_time"`
	*ranking.Result
}

func (h *RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRankBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Mode == "" {
		req.Mode = string(evolution.ModeForward)
	}
	mode, err := evolution.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Candidates) > maxRankCandidates {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d candidates per request", maxRankCandidates))
		return
	}

	weights := h.weights
	if req.Weights != nil {
		weights = *req.Weights
	}
	params := h.params
	if req.Seed != 0 {
		params.Seed = req.Seed
	}
	ranker := ranking.NewRanker(evolution.NewEngine(params, weights, h.logger), h.logger)

	res, err := ranker.Rank(mode, req.Candidates, ranking.Options{Explain: req.Explain, Pareto: true})
	if errors.Is(err, scoring.ErrEmptyInput) {
		writeJSON(w, http.StatusUnprocessableEntity, analysis.Report{
			Kind:  analysis.KindEmptyInput,
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		h.logger.Error("ad-hoc ranking failed", "mode", mode, "error", err)
		writeError(w, http.StatusInternalServerError, "ranking failed")
		return
	}

	writeJSON(w, http.StatusOK, RankResponse{
		Success:       true,
		ExecutionTime: math.Round(res.Elapsed.Seconds()*100) / 100,
		Result:        res,
	})
}
