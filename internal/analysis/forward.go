package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/Ranker/internal/cache"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
	"github.com/MikeSquared-Agency/Ranker/internal/rating"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// FindBestSupplier ranks every supplier under the fixed weights. Suppliers
// scoring at or above threshold get their article/brand combinations ranked
// as well, and those sub-rankings are merged into one global ranking. The
// run is persisted before the report is returned.
func (s *Service) FindBestSupplier(ctx context.Context, threshold float64, historyID *int64) *SupplierReport {
	start := s.now()
	report := &SupplierReport{FitnessThreshold: threshold}
	fail := func(err error) *SupplierReport {
		report.Report = s.fail(store.RunKindSupplier, evolution.ModeForward, historyID, classify(err), err)
		report.ExecutionTime = seconds(s.now().Sub(start))
		return report
	}

	rows, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: list suppliers: %w", errSource, err))
	}
	report.SuppliersCount = len(rows)
	if len(rows) == 0 {
		return fail(fmt.Errorf("no suppliers to analyze: %w", scoring.ErrEmptyInput))
	}

	res, err := s.rank(evolution.ModeForward, supplierCandidates(rows))
	if err != nil {
		return fail(fmt.Errorf("rank suppliers: %w", err))
	}
	rankings := supplierRankings(res.Entries, rows)
	bestPos := res.Best.Rank - 1

	var filtered []int
	for i := range rankings {
		if rankings[i].FitnessScore < threshold {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		combos, err := s.supplierCombinations(ctx, rows[res.Entries[i].Index])
		if err != nil {
			return fail(err)
		}
		rankings[i].Combinations = combos
		rankings[i].HasCombinations = true
		filtered = append(filtered, i)
	}

	best := BestSupplier{SupplierRanking: rankings[bestPos]}
	if !best.HasCombinations {
		combos, err := s.supplierCombinations(ctx, rows[res.Best.Index])
		if err != nil {
			return fail(err)
		}
		best.Combinations = combos
	}
	best.Rating = s.lookupRating(ctx, best.SupplierID)

	withCombos := make([]store.SupplierRanking, 0, len(filtered))
	var global []GlobalArticleBrand
	for _, i := range filtered {
		r := rankings[i]
		withCombos = append(withCombos, r)
		for _, c := range r.Combinations {
			global = append(global, GlobalArticleBrand{
				SupplierID:   r.SupplierID,
				SupplierName: r.ServiceName,
				Article:      c.Article,
				Brand:        c.Brand,
				FitnessScore: c.FitnessScore,
				Metrics:      c.Metrics,
			})
		}
	}
	sort.SliceStable(global, func(a, b int) bool {
		return global[a].FitnessScore > global[b].FitnessScore
	})

	elapsed := s.now().Sub(start)
	run := &store.SupplierRun{
		HistoryID:              historyID,
		Method:                 string(res.Method),
		FitnessThreshold:       threshold,
		ExecutionTime:          seconds(elapsed),
		SuppliersCount:         len(rows),
		FilteredSuppliersCount: len(filtered),
		Weights:                res.Weights,
		Rankings:               rankings,
	}
	if err := s.repo.SaveSupplierRun(ctx, run); err != nil {
		return fail(fmt.Errorf("%w: save supplier run: %w", errSink, err))
	}

	finished := s.now()
	s.publish(hermes.SubjectRunCompleted(run.ID.String()), hermes.RunCompletedEvent{
		RunID:           run.ID.String(),
		Kind:            string(store.RunKindSupplier),
		Mode:            string(evolution.ModeForward),
		Method:          run.Method,
		HistoryID:       historyID,
		CandidatesCount: len(rows),
		BestID:          res.Best.Candidate.ID,
		BestName:        best.ServiceName,
		BestScore:       best.FitnessScore,
		ExecutionTime:   run.ExecutionTime,
		Timestamp:       finished.UTC(),
	})
	s.metrics.ObserveRun(string(store.RunKindSupplier), "success", elapsed)
	s.logger.Info("supplier analysis complete",
		"run_id", run.ID,
		"method", run.Method,
		"suppliers", len(rows),
		"filtered", len(filtered),
		"best_supplier", best.SupplierID,
		"execution_time", run.ExecutionTime,
	)

	weights := res.Weights
	report.Report = Report{
		Success:       true,
		RunID:         run.ID.String(),
		Method:        run.Method,
		Weights:       &weights,
		ExecutionTime: run.ExecutionTime,
		Timestamp:     timestamp(finished),
	}
	report.FilteredSuppliersCount = len(filtered)
	report.BestSupplier = &best
	report.AllSuppliers = withoutCombinations(rankings)
	report.SuppliersWithCombinations = withCombos
	report.GlobalArticleBrands = global
	return report
}

// supplierCombinations ranks one supplier's article/brand combinations under
// the fixed weights. Results are cached per service name.
func (s *Service) supplierCombinations(ctx context.Context, row *store.SupplierRow) ([]store.ArticleBrandRanking, error) {
	key := cache.Key("combinations", row.ServiceName)
	var combos []store.ArticleBrandRanking
	if s.cached(ctx, key, &combos) {
		return combos, nil
	}

	rows, err := s.repo.ListArticleBrandsForSupplier(ctx, row.ServiceName, s.cfg.ArticleBrandLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: list combinations for %s: %w", errSource, row.ServiceName, err)
	}
	s.logger.Debug("analyzing supplier combinations",
		"supplier_id", row.ID,
		"service_name", row.ServiceName,
		"combinations", len(rows),
	)

	combos = []store.ArticleBrandRanking{}
	if len(rows) > 0 {
		res, err := s.rank(evolution.ModeForward, articleBrandCandidates(rows))
		if err != nil {
			return nil, fmt.Errorf("rank combinations for %s: %w", row.ServiceName, err)
		}
		combos = articleBrandRankings(res.Entries, rows)
	}
	s.remember(ctx, key, combos)
	return combos, nil
}

func (s *Service) lookupRating(ctx context.Context, supplierID int64) []byte {
	if s.rating == nil {
		s.metrics.RatingResult("disabled")
		return nil
	}
	res := rating.Lookup(ctx, s.rating, supplierID, s.logger)
	if !res.Available() {
		s.metrics.RatingResult("error")
		return nil
	}
	s.metrics.RatingResult("ok")
	return res.Rating
}
