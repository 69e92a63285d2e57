package analysis

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/Ranker/internal/cache"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// FindBestArticleBrands searches for the weighting that best separates the
// top article/brand combination, ranks every qualifying combination under
// it, and ranks the suppliers of each combination the same way.
func (s *Service) FindBestArticleBrands(ctx context.Context, historyID *int64) *ArticleBrandReport {
	start := s.now()
	report := &ArticleBrandReport{}
	fail := func(err error) *ArticleBrandReport {
		report.Report = s.fail(store.RunKindArticleBrand, evolution.ModeReverse, historyID, classify(err), err)
		report.ExecutionTime = seconds(s.now().Sub(start))
		return report
	}

	rows, err := s.repo.ListArticleBrands(ctx, s.cfg.MinArticleBrandOrders)
	if err != nil {
		return fail(fmt.Errorf("%w: list article brands: %w", errSource, err))
	}
	report.CombinationsCount = len(rows)
	if len(rows) == 0 {
		return fail(fmt.Errorf("no article/brand combinations to analyze: %w", scoring.ErrEmptyInput))
	}

	res, err := s.rank(evolution.ModeReverse, articleBrandCandidates(rows))
	if err != nil {
		return fail(fmt.Errorf("rank article brands: %w", err))
	}
	rankings := articleBrandRankings(res.Entries, rows)

	total := len(rankings)
	every := max(1, s.cfg.ProgressEvery)
	progress := hermes.SubjectRunProgress(string(store.RunKindArticleBrand))
	s.logger.Info("processing article/brand combinations", "count", total)
	for i := range rankings {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if n := i + 1; n == 1 || n%every == 0 {
			s.logger.Info("processing combination", "processed", n, "total", total)
			s.publish(progress, hermes.RunProgressEvent{
				Kind:      string(store.RunKindArticleBrand),
				Processed: n,
				Total:     total,
				Timestamp: s.now().UTC(),
			})
		}
		suppliers, err := s.articleBrandSuppliers(ctx, rankings[i].Article, rankings[i].Brand)
		if err != nil {
			return fail(err)
		}
		rankings[i].Suppliers = suppliers
	}
	best := rankings[res.Best.Rank-1]

	elapsed := s.now().Sub(start)
	run := &store.ArticleBrandRun{
		HistoryID:         historyID,
		Method:            string(res.Method),
		ExecutionTime:     seconds(elapsed),
		CombinationsCount: len(rows),
		Weights:           res.Weights,
		Rankings:          rankings,
	}
	if err := s.repo.SaveArticleBrandRun(ctx, run); err != nil {
		return fail(fmt.Errorf("%w: save article brand run: %w", errSink, err))
	}

	finished := s.now()
	s.publish(hermes.SubjectRunCompleted(run.ID.String()), hermes.RunCompletedEvent{
		RunID:           run.ID.String(),
		Kind:            string(store.RunKindArticleBrand),
		Mode:            string(evolution.ModeReverse),
		Method:          run.Method,
		HistoryID:       historyID,
		CandidatesCount: len(rows),
		BestID:          res.Best.Candidate.ID,
		BestName:        res.Best.Candidate.Name,
		BestScore:       best.FitnessScore,
		ExecutionTime:   run.ExecutionTime,
		Timestamp:       finished.UTC(),
	})
	s.metrics.ObserveRun(string(store.RunKindArticleBrand), "success", elapsed)
	s.logger.Info("article/brand analysis complete",
		"run_id", run.ID,
		"method", run.Method,
		"combinations", len(rows),
		"best_article", best.Article,
		"best_brand", best.Brand,
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
	report.BestArticleBrand = &best
	report.AllArticleBrands = withoutSuppliers(rankings)
	report.ArticleBrandsWithSuppliers = rankings
	return report
}

// articleBrandSuppliers ranks the suppliers of one article/brand pair in
// reverse mode. An unsold pair yields an empty ranking. Results are cached
// per pair.
func (s *Service) articleBrandSuppliers(ctx context.Context, article, brand string) ([]store.SupplierRanking, error) {
	key := cache.Key("suppliers", article, brand)
	var suppliers []store.SupplierRanking
	if s.cached(ctx, key, &suppliers) {
		return suppliers, nil
	}

	rows, err := s.repo.ListSuppliersForArticleBrand(ctx, article, brand)
	if err != nil {
		return nil, fmt.Errorf("%w: list suppliers for %s/%s: %w", errSource, article, brand, err)
	}

	suppliers = []store.SupplierRanking{}
	if len(rows) > 0 {
		res, err := s.rank(evolution.ModeReverse, supplierCandidates(rows))
		if err != nil {
			return nil, fmt.Errorf("rank suppliers for %s/%s: %w", article, brand, err)
		}
		suppliers = supplierRankings(res.Entries, rows)
	}
	s.remember(ctx, key, suppliers)
	return suppliers, nil
}
