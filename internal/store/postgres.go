package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// metricColumns aggregates order_product rows into the six ranking metrics.
// Rates are percentages of the group's orders.
const metricColumns = `
	COUNT(op.id) AS orders_count,
	COALESCE(SUM(op.total), 0)::float8 AS total_revenue,
	COALESCE(AVG(op.price), 0)::float8 AS avg_price,
	COALESCE(
		SUM(CASE WHEN op.is_denied = 0 AND op.is_archived = 0 THEN 1 ELSE 0 END)::float8
			/ NULLIF(COUNT(op.id), 0) * 100, 0) AS success_rate,
	COALESCE(AVG(op.deliverytime_max), 0)::float8 AS avg_delivery_time,
	COALESCE(
		SUM(CASE WHEN op.is_denied = 1 THEN 1 ELSE 0 END)::float8
			/ NULLIF(COUNT(op.id), 0) * 100, 0) AS denial_rate`

// supplierKey groups distributors that front the same remote service.
const supplierKey = `COALESCE(pd.remote_params->>'service', pd.name)`

const supplierColumns = `
	MIN(pd.id) AS supplier_id,
	COALESCE(MAX(pd.remote_params->>'service'), MIN(pd.name)) AS service_name,
	STRING_AGG(DISTINCT pd.name, ', ' ORDER BY pd.name) AS name,` + metricColumns

func (s *PostgresStore) ListSuppliers(ctx context.Context) ([]*SupplierRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+supplierColumns+`
		FROM product_distributor pd
		LEFT JOIN order_product op ON op.distributor_id = pd.id
		GROUP BY `+supplierKey+`
		HAVING COUNT(op.id) > 0
		ORDER BY MIN(pd.id)`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return scanSuppliers(rows)
}

func (s *PostgresStore) ListSuppliersForArticleBrand(ctx context.Context, article, brand string) ([]*SupplierRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT`+supplierColumns+`
		FROM order_product op
		JOIN product_distributor pd ON op.distributor_id = pd.id
		WHERE op.article = $1 AND op.brand = $2
		GROUP BY `+supplierKey+`
		HAVING COUNT(op.id) > 0
		ORDER BY MIN(pd.id)`, article, brand)
	if err != nil {
		return nil, fmt.Errorf("list suppliers for %s/%s: %w", article, brand, err)
	}
	return scanSuppliers(rows)
}

func (s *PostgresStore) ListArticleBrandsForSupplier(ctx context.Context, serviceName string, limit int) ([]*ArticleBrandRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT op.article, op.brand,`+metricColumns+`
		FROM order_product op
		JOIN product_distributor pd ON op.distributor_id = pd.id
		WHERE `+supplierKey+` = $1
		GROUP BY op.article, op.brand
		HAVING COUNT(op.id) > 0
		ORDER BY COUNT(op.id) DESC
		LIMIT $2`, serviceName, limit)
	if err != nil {
		return nil, fmt.Errorf("list article/brands for %s: %w", serviceName, err)
	}
	return scanArticleBrands(rows)
}

func (s *PostgresStore) ListArticleBrands(ctx context.Context, minOrders int) ([]*ArticleBrandRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT op.article, op.brand,`+metricColumns+`
		FROM order_product op
		GROUP BY op.article, op.brand
		HAVING COUNT(op.id) >= $1
		ORDER BY COUNT(op.id) DESC`, minOrders)
	if err != nil {
		return nil, fmt.Errorf("list article/brands: %w", err)
	}
	return scanArticleBrands(rows)
}

func scanSuppliers(rows pgx.Rows) ([]*SupplierRow, error) {
	defer rows.Close()
	var out []*SupplierRow
	for rows.Next() {
		r := &SupplierRow{}
		m := &r.Metrics
		if err := rows.Scan(&r.ID, &r.ServiceName, &r.Name,
			&m.OrdersCount, &m.TotalRevenue, &m.AvgPrice,
			&m.SuccessRate, &m.AvgDeliveryTime, &m.DenialRate,
		); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanArticleBrands(rows pgx.Rows) ([]*ArticleBrandRow, error) {
	defer rows.Close()
	var out []*ArticleBrandRow
	for rows.Next() {
		r := &ArticleBrandRow{}
		m := &r.Metrics
		if err := rows.Scan(&r.Article, &r.Brand,
			&m.OrdersCount, &m.TotalRevenue, &m.AvgPrice,
			&m.SuccessRate, &m.AvgDeliveryTime, &m.DenialRate,
		); err != nil {
			return nil, fmt.Errorf("scan article/brand: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
