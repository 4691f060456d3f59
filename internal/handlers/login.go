package handlers

import (
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/auth"
	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
)

type LoginHandler struct {
	cfg      config.Config
	cache    cache.Cache
	provider auth.Provider
	logger   *slog.Logger
}

func NewLoginHandler(cfg config.Config, cache cache.Cache, provider auth.Provider, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		cfg:      cfg,
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

// ServeHTTP redirects the browser to the provider's authorize page. Client
// id and base URL are not checked here; the provider rejects bad values.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authRedirect, err := h.provider.InitiateAuth(r.Context())
	if err != nil {
		h.logger.Error("failed to initiate auth", "provider", h.provider.Name(), "error", err)
		http.Error(w, "Failed to initiate authentication", http.StatusInternalServerError)
		return
	}

	if authRedirect.CacheKey != "" && authRedirect.CacheData != nil {
		if err := h.cache.Set(r.Context(), authRedirect.CacheKey, authRedirect.CacheData, authRedirect.CacheTTL); err != nil {
			h.logger.Error("failed to cache auth state", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, authRedirect.URL, http.StatusFound)
}
