package analysis

import (
	"encoding/json"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// FailureKind classifies why a run produced no result.
type FailureKind string

const (
	KindEmptyInput         FailureKind = "empty_input"
	KindSourceFailure      FailureKind = "source_failure"
	KindPersistenceFailure FailureKind = "persistence_failure"
	KindCanceled           FailureKind = "canceled"
	KindInternal           FailureKind = "internal"
)

// Report is the envelope shared by both analysis flows. Failed runs carry
// Success=false, a message and a Kind; no error crosses the request boundary.
type Report struct {
	Success       bool               `json:"success"`
	Error         string             `json:"error,omitempty"`
	Kind          FailureKind        `json:"kind,omitempty"`
	RunID         string             `json:"run_id,omitempty"`
	Method        string             `json:"method,omitempty"`
	Weights       *scoring.WeightSet `json:"weights,omitempty"`
	ExecutionTime float64            `json:"execution_time"`
	Timestamp     string             `json:"timestamp,omitempty"`
}

// BestSupplier is the winning supplier with its best-effort rating. Rating
// encodes as null when the rating service could not answer.
type BestSupplier struct {
	store.SupplierRanking
	Rating json.RawMessage `json:"rating"`
}

// GlobalArticleBrand is one entry of the cross-supplier article/brand ranking.
type GlobalArticleBrand struct {
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Article      string          `json:"article"`
	Brand        string          `json:"brand"`
	FitnessScore float64         `json:"fitness_score"`
	Metrics      scoring.Metrics `json:"metrics"`
}

// SupplierReport is the result of a forward analysis.
type SupplierReport struct {
	Report
	FitnessThreshold          float64                 `json:"fitness_threshold"`
	SuppliersCount            int                     `json:"suppliers_count"`
	FilteredSuppliersCount    int                     `json:"filtered_suppliers_count"`
	BestSupplier              *BestSupplier           `json:"best_supplier,omitempty"`
	AllSuppliers              []store.SupplierRanking `json:"all_suppliers_ranking,omitempty"`
	SuppliersWithCombinations []store.SupplierRanking `json:"suppliers_with_combinations,omitempty"`
	GlobalArticleBrands       []GlobalArticleBrand    `json:"global_article_brand_ranking,omitempty"`
}

// ArticleBrandReport is the result of a reverse analysis.
type ArticleBrandReport struct {
	Report
	CombinationsCount          int                         `json:"combinations_count"`
	BestArticleBrand           *store.ArticleBrandRanking  `json:"best_article_brand,omitempty"`
	AllArticleBrands           []store.ArticleBrandRanking `json:"all_article_brands_ranking,omitempty"`
	ArticleBrandsWithSuppliers []store.ArticleBrandRanking `json:"article_brands_with_suppliers,omitempty"`
}

func failure(kind FailureKind, err error) Report {
	return Report{Success: false, Kind: kind, Error: err.Error()}
}
