package analysis

import (
	"strconv"

	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

func supplierCandidates(rows []*store.SupplierRow) []ranking.Candidate {
	out := make([]ranking.Candidate, len(rows))
	for i, r := range rows {
		out[i] = ranking.Candidate{
			ID:      strconv.FormatInt(r.ID, 10),
			Name:    r.ServiceName,
			Metrics: r.Metrics,
		}
	}
	return out
}

func articleBrandCandidates(rows []*store.ArticleBrandRow) []ranking.Candidate {
	out := make([]ranking.Candidate, len(rows))
	for i, r := range rows {
		out[i] = ranking.Candidate{
			ID:      r.Article + "/" + r.Brand,
			Name:    r.Brand + " " + r.Article,
			Metrics: r.Metrics,
		}
	}
	return out
}

// supplierRankings maps ranked entries back onto their source rows, keeping
// the ranking order.
func supplierRankings(entries []ranking.Entry, rows []*store.SupplierRow) []store.SupplierRanking {
	out := make([]store.SupplierRanking, len(entries))
	for i, e := range entries {
		r := rows[e.Index]
		out[i] = store.SupplierRanking{
			SupplierID:   r.ID,
			ServiceName:  r.ServiceName,
			Name:         r.Name,
			FitnessScore: e.Score,
			Rank:         e.Rank,
			Metrics:      r.Metrics,
		}
	}
	return out
}

func articleBrandRankings(entries []ranking.Entry, rows []*store.ArticleBrandRow) []store.ArticleBrandRanking {
	out := make([]store.ArticleBrandRanking, len(entries))
	for i, e := range entries {
		r := rows[e.Index]
		out[i] = store.ArticleBrandRanking{
			Article:      r.Article,
			Brand:        r.Brand,
			FitnessScore: e.Score,
			Rank:         e.Rank,
			Metrics:      r.Metrics,
		}
	}
	return out
}

// withoutCombinations returns copies of rs with the nested sub-rankings
// stripped, for the flat report listings.
func withoutCombinations(rs []store.SupplierRanking) []store.SupplierRanking {
	out := make([]store.SupplierRanking, len(rs))
	for i, r := range rs {
		r.Combinations = nil
		out[i] = r
	}
	return out
}

func withoutSuppliers(rs []store.ArticleBrandRanking) []store.ArticleBrandRanking {
	out := make([]store.ArticleBrandRanking, len(rs))
	for i, r := range rs {
		r.Suppliers = nil
		out[i] = r
	}
	return out
}
