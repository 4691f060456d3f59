package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/pkg/httpjson"
	"github.com/felixp33/CloudGuardian/pkg/security"
)

type contextKey string

const tokenContextKey contextKey = "github_token"

type SessionMiddleware struct {
	cfg    config.ServerConfig
	logger *slog.Logger
}

func NewSessionMiddleware(cfg config.ServerConfig, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		cfg:    cfg,
		logger: logger,
	}
}

// RequireToken answers 401 {"error":"Unauthorized"} when the session cookie
// is absent; next never runs in that case.
func (sm *SessionMiddleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := security.SessionToken(r, sm.cfg.CookieName)
		if !ok {
			sm.logger.Debug("no session cookie", "path", r.URL.Path)
			httpjson.WriteUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
	})
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}
