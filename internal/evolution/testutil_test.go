package evolution

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func seededParams(seed uint64) Params {
	p := DefaultParams()
	p.Seed = seed
	return p
}

// fiveSuppliers has distinct, non-tied metrics on every criterion.
func fiveSuppliers() []scoring.Metrics {
	return []scoring.Metrics{
		{AvgPrice: 120, SuccessRate: 91, AvgDeliveryTime: 4, DenialRate: 6, OrdersCount: 410, TotalRevenue: 49200},
		{AvgPrice: 95, SuccessRate: 97, AvgDeliveryTime: 2, DenialRate: 1.5, OrdersCount: 380, TotalRevenue: 36100},
		{AvgPrice: 140, SuccessRate: 83, AvgDeliveryTime: 6, DenialRate: 11, OrdersCount: 905, TotalRevenue: 126700},
		{AvgPrice: 101, SuccessRate: 88, AvgDeliveryTime: 3, DenialRate: 8, OrdersCount: 150, TotalRevenue: 15150},
		{AvgPrice: 160, SuccessRate: 79, AvgDeliveryTime: 9, DenialRate: 14, OrdersCount: 60, TotalRevenue: 9600},
	}
}

func normalized(t *testing.T, metrics []scoring.Metrics) []scoring.Features {
	t.Helper()
	f, err := scoring.Normalize(metrics)
	require.NoError(t, err)
	return f
}
