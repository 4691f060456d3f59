package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/pkg/httpjson"
	"golang.org/x/sync/errgroup"
)

// Pinger reports whether an upstream dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	cfg       config.Config
	cache     cache.Cache
	upstream  Pinger
	logger    *slog.Logger
	startTime time.Time
}

func NewHealthHandler(cfg config.Config, cache cache.Cache, upstream Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		cache:     cache,
		upstream:  upstream,
		logger:    logger,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Cache  CacheHealth    `json:"cache"`
	GitHub UpstreamHealth `json:"github"`
}

type CacheHealth struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type UpstreamHealth struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
		Cache:  CacheHealth{Type: h.cfg.Cache.Type},
		GitHub: UpstreamHealth{URL: h.cfg.GitHub.APIURL},
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := h.cache.Ping(ctx); err != nil {
			response.Cache.Status = "error: " + err.Error()
			return fmt.Errorf("cache: %w", err)
		}
		response.Cache.Status = "connected"
		return nil
	})
	g.Go(func() error {
		if err := h.upstream.Ping(ctx); err != nil {
			response.GitHub.Status = "unreachable"
			return fmt.Errorf("github api: %w", err)
		}
		response.GitHub.Status = "reachable"
		return nil
	})

	status := http.StatusOK
	if err := g.Wait(); err != nil {
		h.logger.Warn("health check degraded", "error", err)
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	httpjson.WriteResponse(w, status, response)
}
