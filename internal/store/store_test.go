package store

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

func TestRunKindValues(t *testing.T) {
	if RunKindSupplier != "supplier" || RunKindArticleBrand != "article_brand" {
		t.Errorf("unexpected run kinds: %s, %s", RunKindSupplier, RunKindArticleBrand)
	}
}

func TestSubRankingsOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(SupplierRanking{SupplierID: 1, Rank: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["article_brand_combinations"]; ok {
		t.Error("expected article_brand_combinations to be omitted")
	}
	if _, ok := fields["has_combinations"]; !ok {
		t.Error("expected has_combinations to be present")
	}
}

func TestSaveRunRejectsUnencodableWeights(t *testing.T) {
	// The weights are encoded before a transaction is opened, so no pool is needed.
	s := &PostgresStore{}
	bad := scoring.WeightSet{Price: math.NaN()}

	err := s.SaveSupplierRun(context.Background(), &SupplierRun{Weights: bad})
	if err == nil || !strings.Contains(err.Error(), "marshal weights") {
		t.Errorf("expected marshal weights error, got %v", err)
	}
	err = s.SaveArticleBrandRun(context.Background(), &ArticleBrandRun{Weights: bad})
	if err == nil || !strings.Contains(err.Error(), "marshal weights") {
		t.Errorf("expected marshal weights error, got %v", err)
	}
}
