package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	redis  Pinger
	logger *slog.Logger
}

// NewHealthHandler probes db and, when set, redis.
func NewHealthHandler(db, redis Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := map[string]string{
		"status":   "ok",
		"database": h.probe(ctx, "database", h.db),
		"redis":    h.probe(ctx, "redis", h.redis),
	}
	status := http.StatusOK
	if resp["database"] != "ok" {
		resp["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else if resp["redis"] == "down" {
		resp["status"] = "degraded"
	}
	writeJSON(w, status, resp)
}

func (h *HealthHandler) probe(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "dependency", name, "error", err)
		return "down"
	}
	return "ok"
}
