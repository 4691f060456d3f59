package handlers

import (
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/pkg/security"
)

type LogoutHandler struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewLogoutHandler(cfg config.Config, logger *slog.Logger) *LogoutHandler {
	return &LogoutHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// ServeHTTP drops the session cookie. The token itself stays valid at
// GitHub until the user revokes the app.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, hadSession := security.SessionToken(r, h.cfg.Server.CookieName)

	http.SetCookie(w, security.ClearSessionCookie(h.cfg.Server))

	h.logger.Info("user logged out", "had_session", hadSession)

	http.Redirect(w, r, h.cfg.Server.LoginPath, http.StatusFound)
}
