package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Ranker/internal/evolution"
	"github.com/MikeSquared-Agency/Ranker/internal/scoring"
)

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	Redis     RedisConfig      `yaml:"redis"`
	Cache     CacheConfig      `yaml:"cache"`
	Rating    RatingConfig     `yaml:"rating"`
	Hermes    HermesConfig     `yaml:"hermes"`
	Analysis  AnalysisConfig   `yaml:"analysis"`
	Scoring   ScoringConfig    `yaml:"scoring"`
	Evolution evolution.Params `yaml:"evolution"`
	Logging   LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
	// Requests per minute per client; 0 disables limiting.
	RateLimit int `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"` // redis, memory or none
	TTLSecs int    `yaml:"ttl_secs"`
	Size    int    `yaml:"size"`
}

type RatingConfig struct {
	URL               string  `yaml:"url"`
	TimeoutMs         int     `yaml:"timeout_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	BreakerFailures   uint32  `yaml:"breaker_failures"`
	BreakerTimeoutMs  int     `yaml:"breaker_timeout_ms"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type AnalysisConfig struct {
	FitnessThreshold      float64 `yaml:"fitness_threshold"`
	MinArticleBrandOrders int     `yaml:"min_article_brand_orders"`
	ArticleBrandLimit     int     `yaml:"article_brand_limit"`
	ProgressEvery         int     `yaml:"progress_every"`
}

type ScoringConfig struct {
	Weights       scoring.WeightSet `yaml:"weights"`
	ParetoEnabled bool              `yaml:"pareto_enabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSecs) * time.Second
}

func (c *Config) RatingTimeout() time.Duration {
	return time.Duration(c.Rating.TimeoutMs) * time.Millisecond
}

func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.Rating.BreakerTimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTLSecs: 86400,
			Size:    4096,
		},
		Rating: RatingConfig{
			TimeoutMs:         10000,
			RequestsPerSecond: 5,
			Burst:             5,
			BreakerFailures:   5,
			BreakerTimeoutMs:  30000,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Analysis: AnalysisConfig{
			FitnessThreshold:      0.5,
			MinArticleBrandOrders: 300,
			ArticleBrandLimit:     10000,
			ProgressEvery:         1000,
		},
		Scoring: ScoringConfig{
			Weights: scoring.DefaultWeights(),
		},
		Evolution: evolution.DefaultParams(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Validate rejects settings no run can succeed with.
func (c *Config) Validate() error {
	if c.Analysis.FitnessThreshold < 0 || c.Analysis.FitnessThreshold > 1 {
		return fmt.Errorf("analysis.fitness_threshold must be within [0, 1], got %f", c.Analysis.FitnessThreshold)
	}
	if c.Analysis.ArticleBrandLimit < 1 {
		return fmt.Errorf("analysis.article_brand_limit must be >= 1, got %d", c.Analysis.ArticleBrandLimit)
	}
	if c.Analysis.ProgressEvery < 1 {
		return fmt.Errorf("analysis.progress_every must be >= 1, got %d", c.Analysis.ProgressEvery)
	}
	if c.Evolution.Generations < 1 {
		return fmt.Errorf("evolution.generations must be >= 1, got %d", c.Evolution.Generations)
	}
	if err := c.Evolution.Validate(); err != nil {
		return fmt.Errorf("evolution: %w", err)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	switch c.Cache.Backend {
	case "redis", "memory", "none":
	default:
		return fmt.Errorf("cache.backend must be redis, memory or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "memory" && c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be >= 1, got %d", c.Cache.Size)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RANKER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RANKER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RANKER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimit = n
		}
	}
	if v := os.Getenv("RANKER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("RANKER_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("RANKER_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RANKER_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("RANKER_RATING_URL"); v != "" {
		cfg.Rating.URL = v
	}
	if v := os.Getenv("RANKER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("RANKER_FITNESS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.FitnessThreshold = f
		}
	}
	if v := os.Getenv("RANKER_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Evolution.Seed = n
		}
	}
	if v := os.Getenv("RANKER_PARETO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Scoring.ParetoEnabled = b
		}
	}
	if v := os.Getenv("RANKER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
