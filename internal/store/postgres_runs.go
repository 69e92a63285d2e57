package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const insertSupplierRanking = `
	INSERT INTO supplier_rankings (id, run_id, supplier_id, service_name, name,
		fitness_score, has_combinations, rank,
		avg_price, success_rate, avg_delivery_time, denial_rate, orders_count, total_revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const insertSupplierArticleBrand = `
	INSERT INTO supplier_article_brand_rankings (supplier_ranking_id, article, brand,
		fitness_score, rank,
		avg_price, success_rate, avg_delivery_time, denial_rate, orders_count, total_revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertArticleBrandRanking = `
	INSERT INTO article_brand_rankings (id, run_id, article, brand, fitness_score, rank,
		avg_price, success_rate, avg_delivery_time, denial_rate, orders_count, total_revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertArticleBrandSupplier = `
	INSERT INTO article_brand_supplier_rankings (article_brand_ranking_id, supplier_id,
		service_name, supplier_name, fitness_score, rank,
		avg_price, success_rate, avg_delivery_time, denial_rate, orders_count, total_revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// SaveSupplierRun stores the run header, every supplier ranking and the
// article/brand rows under them in one transaction. Row ids are generated
// client-side so children can be batched with their parents.
func (s *PostgresStore) SaveSupplierRun(ctx context.Context, run *SupplierRun) error {
	weightsJSON, err := json.Marshal(run.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO supplier_ranking_runs (history_id, method, fitness_threshold, execution_time,
			suppliers_count, filtered_suppliers_count, weights)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		run.HistoryID, run.Method, run.FitnessThreshold, run.ExecutionTime,
		run.SuppliersCount, run.FilteredSuppliersCount, weightsJSON,
	).Scan(&run.ID, &run.CreatedAt); err != nil {
		return fmt.Errorf("insert supplier run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, sr := range run.Rankings {
		id := uuid.New()
		m := sr.Metrics
		batch.Queue(insertSupplierRanking,
			id, run.ID, sr.SupplierID, sr.ServiceName, sr.Name,
			sr.FitnessScore, sr.HasCombinations, sr.Rank,
			m.AvgPrice, m.SuccessRate, m.AvgDeliveryTime, m.DenialRate, m.OrdersCount, m.TotalRevenue)
		for _, ab := range sr.Combinations {
			m := ab.Metrics
			batch.Queue(insertSupplierArticleBrand,
				id, ab.Article, ab.Brand, ab.FitnessScore, ab.Rank,
				m.AvgPrice, m.SuccessRate, m.AvgDeliveryTime, m.DenialRate, m.OrdersCount, m.TotalRevenue)
		}
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert supplier rankings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SaveArticleBrandRun stores the run header, every article/brand ranking
// and the supplier rows under them in one transaction.
func (s *PostgresStore) SaveArticleBrandRun(ctx context.Context, run *ArticleBrandRun) error {
	weightsJSON, err := json.Marshal(run.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO article_brand_ranking_runs (history_id, method, execution_time,
			combinations_count, weights)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		run.HistoryID, run.Method, run.ExecutionTime, run.CombinationsCount, weightsJSON,
	).Scan(&run.ID, &run.CreatedAt); err != nil {
		return fmt.Errorf("insert article/brand run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, ab := range run.Rankings {
		id := uuid.New()
		m := ab.Metrics
		batch.Queue(insertArticleBrandRanking,
			id, run.ID, ab.Article, ab.Brand, ab.FitnessScore, ab.Rank,
			m.AvgPrice, m.SuccessRate, m.AvgDeliveryTime, m.DenialRate, m.OrdersCount, m.TotalRevenue)
		for _, sr := range ab.Suppliers {
			m := sr.Metrics
			batch.Queue(insertArticleBrandSupplier,
				id, sr.SupplierID, sr.ServiceName, sr.Name, sr.FitnessScore, sr.Rank,
				m.AvgPrice, m.SuccessRate, m.AvgDeliveryTime, m.DenialRate, m.OrdersCount, m.TotalRevenue)
		}
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("insert article/brand rankings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetRunSummary returns the header of a stored run of either kind, or nil
// if no run has that id.
func (s *PostgresStore) GetRunSummary(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	r := &RunSummary{}
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, 'supplier', r.history_id, r.method, r.execution_time, r.suppliers_count,
			(SELECT COUNT(*) FROM supplier_rankings WHERE run_id = r.id), r.created_at
		FROM supplier_ranking_runs r WHERE r.id = $1
		UNION ALL
		SELECT r.id, 'article_brand', r.history_id, r.method, r.execution_time, r.combinations_count,
			(SELECT COUNT(*) FROM article_brand_rankings WHERE run_id = r.id), r.created_at
		FROM article_brand_ranking_runs r WHERE r.id = $1`, id,
	).Scan(&r.ID, &r.Kind, &r.HistoryID, &r.Method, &r.ExecutionTime,
		&r.CandidatesCount, &r.RankingsCount, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return br.Close()
}
