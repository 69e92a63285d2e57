package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

// SupplierRow is one supplier's aggregated order history. Distributors
// sharing a remote service are merged into a single supplier.
type SupplierRow struct {
	ID          int64           `json:"supplier_id"`
	ServiceName string          `json:"service_name"`
	Name        string          `json:"name"`
	Metrics     scoring.Metrics `json:"metrics"`
}

// ArticleBrandRow is one article/brand pair's aggregated order history.
type ArticleBrandRow struct {
	Article string          `json:"article"`
	Brand   string          `json:"brand"`
	Metrics scoring.Metrics `json:"metrics"`
}

type RunKind string

const (
	RunKindSupplier     RunKind = "supplier"
	RunKindArticleBrand RunKind = "article_brand"
)

// SupplierRun is a forward-mode run: every supplier ranked, with the
// article/brand sub-rankings of those above the fitness threshold.
type SupplierRun struct {
	ID                     uuid.UUID         `json:"run_id"`
	HistoryID              *int64            `json:"history_id,omitempty"`
	Method                 string            `json:"method"`
	FitnessThreshold       float64           `json:"fitness_threshold"`
	ExecutionTime          float64           `json:"execution_time"`
	SuppliersCount         int               `json:"suppliers_count"`
	FilteredSuppliersCount int               `json:"filtered_suppliers_count"`
	Weights                scoring.WeightSet `json:"weights"`
	CreatedAt              time.Time         `json:"created_at"`
	Rankings               []SupplierRanking `json:"rankings"`
}

// ArticleBrandRun is a reverse-mode run: qualifying article/brand pairs
// ranked under the evolved weights, each with its supplier sub-ranking.
type ArticleBrandRun struct {
	ID                uuid.UUID             `json:"run_id"`
	HistoryID         *int64                `json:"history_id,omitempty"`
	Method            string                `json:"method"`
	ExecutionTime     float64               `json:"execution_time"`
	CombinationsCount int                   `json:"combinations_count"`
	Weights           scoring.WeightSet     `json:"weights"`
	CreatedAt         time.Time             `json:"created_at"`
	Rankings          []ArticleBrandRanking `json:"rankings"`
}

// SupplierRanking is a ranked supplier. Combinations is only set in forward
// runs, for suppliers that passed the threshold.
type SupplierRanking struct {
	SupplierID      int64                 `json:"supplier_id"`
	ServiceName     string                `json:"service_name"`
	Name            string                `json:"name"`
	FitnessScore    float64               `json:"fitness_score"`
	Rank            int                   `json:"rank"`
	HasCombinations bool                  `json:"has_combinations"`
	Metrics         scoring.Metrics       `json:"metrics"`
	Combinations    []ArticleBrandRanking `json:"article_brand_combinations,omitempty"`
}

// ArticleBrandRanking is a ranked article/brand pair. Suppliers is only set
// in reverse runs.
type ArticleBrandRanking struct {
	Article      string            `json:"article"`
	Brand        string            `json:"brand"`
	FitnessScore float64           `json:"fitness_score"`
	Rank         int               `json:"rank"`
	Metrics      scoring.Metrics   `json:"metrics"`
	Suppliers    []SupplierRanking `json:"suppliers_ranking,omitempty"`
}

// RunSummary is a stored run header.
type RunSummary struct {
	ID              uuid.UUID `json:"run_id"`
	Kind            RunKind   `json:"kind"`
	HistoryID       *int64    `json:"history_id,omitempty"`
	Method          string    `json:"method"`
	ExecutionTime   float64   `json:"execution_time"`
	CandidatesCount int       `json:"candidates_count"`
	RankingsCount   int       `json:"rankings_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Source supplies pre-aggregated candidate rows. Groups without orders are
// never returned.
type Source interface {
	ListSuppliers(ctx context.Context) ([]*SupplierRow, error)
	ListArticleBrandsForSupplier(ctx context.Context, serviceName string, limit int) ([]*ArticleBrandRow, error)
	ListArticleBrands(ctx context.Context, minOrders int) ([]*ArticleBrandRow, error)
	ListSuppliersForArticleBrand(ctx context.Context, article, brand string) ([]*SupplierRow, error)
}

// Sink records finished runs. Each call is atomic: on error nothing of the
// run is stored.
type Sink interface {
	SaveSupplierRun(ctx context.Context, run *SupplierRun) error
	SaveArticleBrandRun(ctx context.Context, run *ArticleBrandRun) error
}

// Store is the full persistence surface used by the service.
type Store interface {
	Source
	Sink
	GetRunSummary(ctx context.Context, id uuid.UUID) (*RunSummary, error)
	Ping(ctx context.Context) error
	Close() error
}
