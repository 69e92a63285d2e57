package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Ranker/internal/cache"
	"github.com/MikeSquared-Agency/Ranker/internal/config"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
	"github.com/MikeSquared-Agency/Ranker/internal/rating"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// Fakes

type fakeRepo struct {
	suppliers     []*store.SupplierRow
	articleBrands []*store.ArticleBrandRow
	combos        map[string][]*store.ArticleBrandRow
	pairSuppliers map[string][]*store.SupplierRow

	listErr error
	saveErr error

	pairCalls     int
	minOrders     int
	supplierRuns  []*store.SupplierRun
	articleBrRuns []*store.ArticleBrandRun
}

func (f *fakeRepo) ListSuppliers(context.Context) ([]*store.SupplierRow, error) {
	return f.suppliers, f.listErr
}

func (f *fakeRepo) ListArticleBrandsForSupplier(_ context.Context, serviceName string, _ int) ([]*store.ArticleBrandRow, error) {
	return f.combos[serviceName], nil
}

func (f *fakeRepo) ListArticleBrands(_ context.Context, minOrders int) ([]*store.ArticleBrandRow, error) {
	f.minOrders = minOrders
	return f.articleBrands, f.listErr
}

func (f *fakeRepo) ListSuppliersForArticleBrand(_ context.Context, article, brand string) ([]*store.SupplierRow, error) {
	f.pairCalls++
	return f.pairSuppliers[article+"/"+brand], nil
}

func (f *fakeRepo) SaveSupplierRun(_ context.Context, run *store.SupplierRun) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	f.supplierRuns = append(f.supplierRuns, run)
	return nil
}

func (f *fakeRepo) SaveArticleBrandRun(_ context.Context, run *store.ArticleBrandRun) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	f.articleBrRuns = append(f.articleBrRuns, run)
	return nil
}

type mockRating struct{ mock.Mock }

func (m *mockRating) Analyze(ctx context.Context, supplierID int64) (json.RawMessage, error) {
	args := m.Called(ctx, supplierID)
	doc, _ := args.Get(0).(json.RawMessage)
	return doc, args.Error(1)
}

type published struct {
	subject string
	data    interface{}
}

type fakeHermes struct {
	events []published
}

func (f *fakeHermes) Publish(subject string, data interface{}) error {
	f.events = append(f.events, published{subject, data})
	return nil
}

func (f *fakeHermes) Subscribe(string, func(string, []byte)) error { return nil }

func (f *fakeHermes) Close() {}

func (f *fakeHermes) subjects() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.subject
	}
	return out
}

// Fixtures

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{TTLSecs: 3600},
		Analysis: config.AnalysisConfig{
			FitnessThreshold:      0.5,
			MinArticleBrandOrders: 300,
			ArticleBrandLimit:     10000,
			ProgressEvery:         1000,
		},
	}
}

func newRanker(seed uint64) *ranking.Ranker {
	params := evolution.DefaultParams()
	params.Seed = seed
	return ranking.NewRanker(evolution.NewEngine(params, scoring.DefaultWeights(), discardLogger()), discardLogger())
}

func newService(repo Repository, rc rating.Client, c cache.Cache, h hermes.Client) *Service {
	return New(repo, newRanker(7), rc, c, h, nil, testConfig(), discardLogger())
}

func supplierRow(id int64, service string, m scoring.Metrics) *store.SupplierRow {
	return &store.SupplierRow{ID: id, ServiceName: service, Name: strings.ToUpper(service), Metrics: m}
}

// fiveSuppliers score 0.585, 0.822, 0.467, 0.525 and 0.0 under the default
// weights.
func fiveSuppliers() []*store.SupplierRow {
	return []*store.SupplierRow{
		supplierRow(1, "autodoc", scoring.Metrics{AvgPrice: 120, SuccessRate: 91, AvgDeliveryTime: 4, DenialRate: 6, OrdersCount: 410, TotalRevenue: 49200}),
		supplierRow(2, "emex", scoring.Metrics{AvgPrice: 95, SuccessRate: 97, AvgDeliveryTime: 2, DenialRate: 1.5, OrdersCount: 380, TotalRevenue: 36100}),
		supplierRow(3, "exist", scoring.Metrics{AvgPrice: 140, SuccessRate: 83, AvgDeliveryTime: 6, DenialRate: 11, OrdersCount: 905, TotalRevenue: 126700}),
		supplierRow(4, "armtek", scoring.Metrics{AvgPrice: 101, SuccessRate: 88, AvgDeliveryTime: 3, DenialRate: 8, OrdersCount: 150, TotalRevenue: 15150}),
		supplierRow(5, "rossko", scoring.Metrics{AvgPrice: 160, SuccessRate: 79, AvgDeliveryTime: 9, DenialRate: 14, OrdersCount: 60, TotalRevenue: 9600}),
	}
}

func combo(article, brand string, orders int64, success float64) *store.ArticleBrandRow {
	return &store.ArticleBrandRow{
		Article: article,
		Brand:   brand,
		Metrics: scoring.Metrics{
			AvgPrice:        float64(orders) / 10,
			SuccessRate:     success,
			AvgDeliveryTime: 3,
			DenialRate:      100 - success,
			OrdersCount:     orders,
			TotalRevenue:    float64(orders) * 25,
		},
	}
}

func forwardRepo() *fakeRepo {
	return &fakeRepo{
		suppliers: fiveSuppliers(),
		combos: map[string][]*store.ArticleBrandRow{
			"emex": {
				combo("OC90", "MAHLE", 500, 96),
				combo("W712", "MANN", 420, 91),
				combo("0986", "BOSCH", 350, 88),
			},
			"autodoc": {combo("GDB1550", "TRW", 310, 93)},
		},
	}
}

// Forward analysis

func TestFindBestSupplier(t *testing.T) {
	repo := forwardRepo()
	rc := &mockRating{}
	rc.On("Analyze", mock.Anything, int64(2)).Return(json.RawMessage(`{"rating":4.8}`), nil).Once()
	h := &fakeHermes{}

	report := newService(repo, rc, nil, h).FindBestSupplier(context.Background(), 0.5, nil)

	require.True(t, report.Success, report.Error)
	rc.AssertExpectations(t)
	assert.Equal(t, string(evolution.MethodGeneticAlgorithm), report.Method)
	assert.Equal(t, 5, report.SuppliersCount)
	assert.Equal(t, 3, report.FilteredSuppliersCount)
	assert.Equal(t, 0.5, report.FitnessThreshold)
	assert.NotEmpty(t, report.Timestamp)

	require.NotNil(t, report.BestSupplier)
	assert.Equal(t, int64(2), report.BestSupplier.SupplierID)
	assert.InDelta(t, 0.8218, report.BestSupplier.FitnessScore, 1e-3)
	assert.JSONEq(t, `{"rating":4.8}`, string(report.BestSupplier.Rating))
	assert.Len(t, report.BestSupplier.Combinations, 3)

	require.Len(t, report.AllSuppliers, 5)
	for i, r := range report.AllSuppliers {
		assert.Equal(t, i+1, r.Rank)
		assert.Nil(t, r.Combinations, "flat listing carries no sub-rankings")
		if i > 0 {
			assert.GreaterOrEqual(t, report.AllSuppliers[i-1].FitnessScore, r.FitnessScore)
		}
	}

	require.Len(t, report.SuppliersWithCombinations, 3)
	for _, r := range report.SuppliersWithCombinations {
		assert.GreaterOrEqual(t, r.FitnessScore, 0.5)
		assert.True(t, r.HasCombinations)
	}

	// One row per combination of every filtered supplier, best first.
	require.Len(t, report.GlobalArticleBrands, 4)
	for i := 1; i < len(report.GlobalArticleBrands); i++ {
		assert.GreaterOrEqual(t, report.GlobalArticleBrands[i-1].FitnessScore, report.GlobalArticleBrands[i].FitnessScore)
	}
	var trw GlobalArticleBrand
	for _, g := range report.GlobalArticleBrands {
		if g.Brand == "TRW" {
			trw = g
		}
	}
	assert.Equal(t, int64(1), trw.SupplierID)
	assert.Equal(t, "autodoc", trw.SupplierName)
	assert.Equal(t, 1.0, trw.FitnessScore, "a lone combination scores 1.0")

	require.Len(t, repo.supplierRuns, 1)
	run := repo.supplierRuns[0]
	assert.Equal(t, run.ID.String(), report.RunID)
	assert.Equal(t, 3, run.FilteredSuppliersCount)
	assert.Len(t, run.Rankings, 5)
	for _, r := range run.Rankings {
		assert.Equal(t, r.FitnessScore >= 0.5, r.HasCombinations, "supplier %d", r.SupplierID)
	}

	assert.Equal(t, []string{hermes.SubjectRunCompleted(report.RunID)}, h.subjects())
	ev := h.events[0].data.(hermes.RunCompletedEvent)
	assert.Equal(t, "2", ev.BestID)
	assert.Equal(t, 5, ev.CandidatesCount)
}

func TestFindBestSupplierEmpty(t *testing.T) {
	repo := &fakeRepo{}
	h := &fakeHermes{}

	report := newService(repo, nil, nil, h).FindBestSupplier(context.Background(), 0.5, nil)

	assert.False(t, report.Success)
	assert.Equal(t, KindEmptyInput, report.Kind)
	assert.Equal(t, 0, report.SuppliersCount)
	assert.Contains(t, report.Error, "no suppliers")
	assert.Empty(t, repo.supplierRuns)
	assert.Equal(t, []string{hermes.SubjectRunFailed}, h.subjects())
}

func TestFindBestSupplierSourceFailure(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection refused")}

	report := newService(repo, nil, nil, nil).FindBestSupplier(context.Background(), 0.5, nil)

	assert.False(t, report.Success)
	assert.Equal(t, KindSourceFailure, report.Kind)
	assert.Contains(t, report.Error, "connection refused")
}

func TestFindBestSupplierPersistenceFailure(t *testing.T) {
	repo := forwardRepo()
	repo.saveErr = errors.New("insert supplier run: deadlock detected")
	h := &fakeHermes{}

	report := newService(repo, nil, nil, h).FindBestSupplier(context.Background(), 0.5, nil)

	assert.False(t, report.Success)
	assert.Equal(t, KindPersistenceFailure, report.Kind)
	assert.Contains(t, report.Error, "deadlock")
	assert.Nil(t, report.BestSupplier)
	require.Len(t, h.events, 1)
	ev := h.events[0].data.(hermes.RunFailedEvent)
	assert.Equal(t, string(KindPersistenceFailure), ev.Reason)
}

func TestFindBestSupplierRatingUnavailable(t *testing.T) {
	rc := &mockRating{}
	rc.On("Analyze", mock.Anything, int64(2)).Return(nil, rating.ErrUnavailable)

	report := newService(forwardRepo(), rc, nil, nil).FindBestSupplier(context.Background(), 0.5, nil)

	require.True(t, report.Success, report.Error)
	assert.Nil(t, report.BestSupplier.Rating)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating":null`)
}

func TestFindBestSupplierSingle(t *testing.T) {
	repo := &fakeRepo{suppliers: fiveSuppliers()[:1]}
	historyID := int64(42)

	report := newService(repo, nil, nil, nil).FindBestSupplier(context.Background(), 0.5, &historyID)

	require.True(t, report.Success, report.Error)
	assert.Equal(t, string(evolution.MethodSingleCandidate), report.Method)
	assert.Equal(t, 1.0, report.BestSupplier.FitnessScore)
	assert.Equal(t, 1, report.FilteredSuppliersCount)
	assert.Empty(t, report.BestSupplier.Combinations)
	require.Len(t, repo.supplierRuns, 1)
	assert.Equal(t, &historyID, repo.supplierRuns[0].HistoryID)
}

func TestFindBestSupplierThresholdAboveAll(t *testing.T) {
	repo := forwardRepo()

	report := newService(repo, nil, nil, nil).FindBestSupplier(context.Background(), 0.95, nil)

	require.True(t, report.Success, report.Error)
	assert.Equal(t, 0, report.FilteredSuppliersCount)
	assert.Empty(t, report.GlobalArticleBrands)
	// The best supplier is still analysed even when nobody passes.
	assert.Len(t, report.BestSupplier.Combinations, 3)
	assert.False(t, report.BestSupplier.HasCombinations)
}

// Reverse analysis

func reverseRepo() *fakeRepo {
	rows := fiveSuppliers()
	return &fakeRepo{
		articleBrands: []*store.ArticleBrandRow{
			combo("OC90", "MAHLE", 900, 96),
			combo("W712", "MANN", 760, 91),
			combo("0986", "BOSCH", 610, 84),
			combo("GDB1550", "TRW", 480, 93),
			combo("K015", "GATES", 320, 79),
		},
		pairSuppliers: map[string][]*store.SupplierRow{
			"OC90/MAHLE":  rows,
			"W712/MANN":   rows[:2],
			"0986/BOSCH":  rows[2:3],
			"GDB1550/TRW": rows[1:4],
			"K015/GATES":  nil,
		},
	}
}

func TestFindBestArticleBrands(t *testing.T) {
	repo := reverseRepo()
	h := &fakeHermes{}
	historyID := int64(7)

	report := newService(repo, nil, nil, h).FindBestArticleBrands(context.Background(), &historyID)

	require.True(t, report.Success, report.Error)
	assert.Equal(t, 300, repo.minOrders)
	assert.Equal(t, string(evolution.MethodGeneticAlgorithm), report.Method)
	assert.Equal(t, 5, report.CombinationsCount)
	require.NotNil(t, report.Weights)
	assert.InDelta(t, 1.0, report.Weights.Sum(), 1e-9)

	require.Len(t, report.AllArticleBrands, 5)
	require.Len(t, report.ArticleBrandsWithSuppliers, 5)
	for i, r := range report.AllArticleBrands {
		assert.Nil(t, r.Suppliers)
		if i > 0 {
			assert.GreaterOrEqual(t, report.AllArticleBrands[i-1].FitnessScore, r.FitnessScore)
		}
	}

	byPair := map[string]store.ArticleBrandRanking{}
	for _, r := range report.ArticleBrandsWithSuppliers {
		byPair[r.Article+"/"+r.Brand] = r
	}
	assert.Len(t, byPair["OC90/MAHLE"].Suppliers, 5)
	assert.Len(t, byPair["W712/MANN"].Suppliers, 2)
	require.Len(t, byPair["0986/BOSCH"].Suppliers, 1)
	assert.Equal(t, 1.0, byPair["0986/BOSCH"].Suppliers[0].FitnessScore)
	assert.Empty(t, byPair["K015/GATES"].Suppliers)

	// Two suppliers are compared under the default weights: Emex wins.
	assert.Equal(t, int64(2), byPair["W712/MANN"].Suppliers[0].SupplierID)

	require.NotNil(t, report.BestArticleBrand)
	best := byPair[report.BestArticleBrand.Article+"/"+report.BestArticleBrand.Brand]
	assert.Equal(t, best.Suppliers, report.BestArticleBrand.Suppliers)

	require.Len(t, repo.articleBrRuns, 1)
	assert.Equal(t, &historyID, repo.articleBrRuns[0].HistoryID)
	assert.Equal(t, []string{
		hermes.SubjectRunProgress(string(store.RunKindArticleBrand)),
		hermes.SubjectRunCompleted(report.RunID),
	}, h.subjects())
}

func TestFindBestArticleBrandsProgress(t *testing.T) {
	h := &fakeHermes{}
	svc := newService(reverseRepo(), nil, nil, h)
	svc.cfg.ProgressEvery = 2

	report := svc.FindBestArticleBrands(context.Background(), nil)
	require.True(t, report.Success, report.Error)

	var processed []int
	for _, e := range h.events {
		if ev, ok := e.data.(hermes.RunProgressEvent); ok {
			processed = append(processed, ev.Processed)
			assert.Equal(t, 5, ev.Total)
		}
	}
	assert.Equal(t, []int{1, 2, 4}, processed)
}

func TestFindBestArticleBrandsEmpty(t *testing.T) {
	report := newService(&fakeRepo{}, nil, nil, nil).FindBestArticleBrands(context.Background(), nil)

	assert.False(t, report.Success)
	assert.Equal(t, KindEmptyInput, report.Kind)
	assert.Equal(t, 0, report.CombinationsCount)
}

func TestFindBestArticleBrandsCanceled(t *testing.T) {
	repo := reverseRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newService(repo, nil, nil, nil).FindBestArticleBrands(ctx, nil)

	assert.False(t, report.Success)
	assert.Equal(t, KindCanceled, report.Kind)
	assert.Zero(t, repo.pairCalls)
	assert.Empty(t, repo.articleBrRuns)
}

func TestFindBestArticleBrandsUsesCache(t *testing.T) {
	repo := reverseRepo()
	mc, err := cache.NewMemoryCache(64)
	require.NoError(t, err)
	svc := newService(repo, nil, mc, nil)

	first := svc.FindBestArticleBrands(context.Background(), nil)
	require.True(t, first.Success, first.Error)
	assert.Equal(t, 5, repo.pairCalls)

	second := svc.FindBestArticleBrands(context.Background(), nil)
	require.True(t, second.Success, second.Error)
	assert.Equal(t, 5, repo.pairCalls, "second run should be served from cache")

	var cached []store.SupplierRanking
	ok, err := mc.Get(context.Background(), "suppliers:W712:MANN", &cached)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}
