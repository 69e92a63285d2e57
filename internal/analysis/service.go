package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/MikeSquared-Agency/Ranker/internal/cache"
	"github.com/MikeSquared-Agency/Ranker/internal/config"
	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/hermes"
	"github.com/MikeSquared-Agency/Ranker/internal/metrics"
	"github.com/MikeSquared-Agency/Ranker/internal/ranking"
	"github.com/MikeSquared-Agency/Ranker/internal/rating"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
	"github.com/MikeSquared-Agency/Ranker/internal/store"
)

// Repository is the part of the store the analysis flows read from and
// write to.
type Repository interface {
	store.Source
	store.Sink
}

// Service runs the forward (best supplier) and reverse (best article/brand)
// analyses over the order history.
type Service struct {
	repo    Repository
	ranker  *ranking.Ranker
	rating  rating.Client
	cache   cache.Cache
	hermes  hermes.Client
	metrics *metrics.Metrics
	cfg     config.AnalysisConfig
	pareto  bool
	ttl     time.Duration
	logger  *slog.Logger

	now func() time.Time
}

// New wires a Service. rc, c, h and m may be nil: ratings are then reported
// as unavailable, sub-rankings are not cached, and no events or metrics are
// emitted.
func New(repo Repository, r *ranking.Ranker, rc rating.Client, c cache.Cache, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Service{
		repo:    repo,
		ranker:  r,
		rating:  rc,
		cache:   c,
		hermes:  h,
		metrics: m,
		cfg:     cfg.Analysis,
		pareto:  cfg.Scoring.ParetoEnabled,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// DefaultThreshold is the configured forward-mode fitness threshold.
func (s *Service) DefaultThreshold() float64 {
	return s.cfg.FitnessThreshold
}

func (s *Service) rank(mode evolution.Mode, candidates []ranking.Candidate) (*ranking.Result, error) {
	res, err := s.ranker.Rank(mode, candidates, ranking.Options{Pareto: s.pareto})
	if err != nil {
		return nil, err
	}
	if res.Search != nil {
		s.metrics.ObserveSearch(string(mode), res.Search.Generations, res.Search.Aborted)
	}
	return res, nil
}

// cached loads key into dst. Cache errors are logged and reported as misses.
func (s *Service) cached(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	switch {
	case err != nil:
		s.logger.Warn("cache get failed", "key", key, "error", err)
		s.metrics.CacheResult("error")
		return false
	case ok:
		s.metrics.CacheResult("hit")
		return true
	default:
		s.metrics.CacheResult("miss")
		return false
	}
}

func (s *Service) remember(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

func (s *Service) publish(subject string, event any) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, event); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func (s *Service) fail(kind store.RunKind, mode evolution.Mode, historyID *int64, reason FailureKind, err error) Report {
	s.logger.Error("analysis failed", "kind", kind, "reason", reason, "error", err)
	s.metrics.ObserveRun(string(kind), string(reason), 0)
	s.publish(hermes.SubjectRunFailed, hermes.RunFailedEvent{
		Kind:      string(kind),
		Mode:      string(mode),
		Reason:    string(reason),
		Error:     err.Error(),
		HistoryID: historyID,
		Timestamp: s.now().UTC(),
	})
	return failure(reason, err)
}

// classify maps a flow error onto a failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, scoring.ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, errSource):
		return KindSourceFailure
	case errors.Is(err, errSink):
		return KindPersistenceFailure
	default:
		return KindInternal
	}
}

var (
	errSource = errors.New("candidate source")
	errSink   = errors.New("result sink")
)

func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
