package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/pkg/httpjson"
	"github.com/felixp33/CloudGuardian/pkg/security"
)

const (
	csrfKeyPrefix = "csrf:"
	csrfTokenTTL  = 10 * time.Minute
)

// CSRFMiddleware guards state-changing requests with single-use tokens held
// in the cache. Requests carrying a foreign Origin are refused before the
// token is looked at.
type CSRFMiddleware struct {
	cache  cache.Cache
	origin string
	logger *slog.Logger
}

func NewCSRFMiddleware(cfg config.ServerConfig, cache cache.Cache, logger *slog.Logger) *CSRFMiddleware {
	// BaseURL is validated at startup.
	origin, _ := security.Origin(cfg.BaseURL)

	return &CSRFMiddleware{
		cache:  cache,
		origin: origin,
		logger: logger,
	}
}

func (cm *CSRFMiddleware) ValidateCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
			if origin := r.Header.Get("Origin"); origin != "" && origin != cm.origin {
				cm.logger.Warn("cross-origin request rejected", "path", r.URL.Path, "origin", origin)
				httpjson.WriteError(w, http.StatusForbidden, "Cross-origin request rejected")
				return
			}

			token := r.Header.Get("X-CSRF-Token")
			if token == "" {
				token = r.FormValue("csrf_token")
			}

			if token == "" {
				cm.logger.Warn("missing CSRF token", "path", r.URL.Path)
				httpjson.WriteError(w, http.StatusForbidden, "Missing CSRF token")
				return
			}

			_, err := cm.cache.Take(r.Context(), csrfKeyPrefix+token)
			if errors.Is(err, cache.ErrNotFound) {
				cm.logger.Warn("invalid CSRF token", "path", r.URL.Path)
				httpjson.WriteError(w, http.StatusForbidden, "Invalid or expired CSRF token")
				return
			}
			if err != nil {
				cm.logger.Error("failed to check CSRF token", "error", err)
				httpjson.WriteInternalServerError(w)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (cm *CSRFMiddleware) GenerateCSRFToken(ctx context.Context) (string, error) {
	token, err := security.GenerateCSRFToken()
	if err != nil {
		return "", err
	}

	if err := cm.cache.Set(ctx, csrfKeyPrefix+token, []byte("1"), csrfTokenTTL); err != nil {
		return "", err
	}

	return token, nil
}
