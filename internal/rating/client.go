// Package rating talks to the supplier rating service.
package rating

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrUnavailable is returned when no rating service is configured.
var ErrUnavailable = errors.New("rating service unavailable")

type Client interface {
	// Analyze returns the rating document for a supplier.
	Analyze(ctx context.Context, supplierID int64) (json.RawMessage, error)
}

// Config tunes the HTTP client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, max(1, cfg.Burst)),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "rating",
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (c *HTTPClient) Analyze(ctx context.Context, supplierID int64) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rating rate limit: %w", err)
	}
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doReq(ctx, http.MethodPost, "/analyze", map[string]int64{"supplier_id": supplierID})
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body.([]byte)), nil
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rating %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("rating %s %s: invalid JSON response", method, path)
	}
	return body, nil
}
