package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Ranker/internal/analysis"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/metrics"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// Analyzer runs the persisted forward and reverse analyses.
type Analyzer interface {
	FindBestSupplier(ctx context.Context, threshold float64, historyID *int64) *analysis.SupplierReport
	FindBestArticleBrands(ctx context.Context, historyID *int64) *analysis.ArticleBrandReport
	DefaultThreshold() float64
}

// RunReader reads stored run headers.
type RunReader interface {
	GetRunSummary(ctx context.Context, id uuid.UUID) (*store.RunSummary, error)
}

// Options configure the API router.
type Options struct {
	Params    evolution.Params
	Weights   scoring.WeightSet
	RateLimit int
	Metrics   *metrics.Metrics
}

func NewRouter(a Analyzer, runs RunReader, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger, opts.Metrics))
	r.Use(RateLimitMiddleware(opts.RateLimit))

	analyses := NewAnalysisHandler(a)
	rank := NewRankHandler(opts.Params, opts.Weights, logger)
	runsH := NewRunsHandler(runs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/find-best-supplier", analyses.FindBestSupplier)
		r.Get("/find-best-article-brands", analyses.FindBestArticleBrands)
		r.Post("/rank", rank.Rank)
		r.Get("/runs/{id}", runsH.Get)
	})

	return r
}

func NewMetricsRouter(db Pinger, redis Pinger, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", NewHealthHandler(db, redis, logger).Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
