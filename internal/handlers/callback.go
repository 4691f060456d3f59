package handlers

import (
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/auth"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/pkg/httpjson"
	"github.com/felixp33/CloudGuardian/pkg/security"
)

type CallbackHandler struct {
	cfg      config.Config
	provider auth.Provider
	logger   *slog.Logger
}

func NewCallbackHandler(cfg config.Config, provider auth.Provider, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
	}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.provider.HandleCallback(r.Context(), r)
	switch {
	case auth.IsRejected(err):
		// Every rejection looks the same to the user.
		h.logger.Warn("login rejected", "provider", h.provider.Name(), "reason", err)
		http.Redirect(w, r, h.cfg.Server.LoginPath, http.StatusFound)
		return
	case err != nil:
		h.logger.Error("callback failed", "provider", h.provider.Name(), "error", err)
		httpjson.WriteInternalServerError(w)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(h.cfg.Server, session.AccessToken))

	h.logger.Info("authentication successful",
		"provider", h.provider.Name(),
		"scope", session.Scope,
	)

	http.Redirect(w, r, h.cfg.Server.LandingPath, http.StatusFound)
}
