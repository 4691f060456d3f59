package server

import (
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/internal/handlers"
	"github.com/felixp33/CloudGuardian/internal/middleware"
	"github.com/felixp33/CloudGuardian/internal/proxy"
)

const (
	LoginPath  = "/api/auth/login"
	LogoutPath = "/api/auth/logout"
	CSRFPath   = "/api/auth/csrf"
	ReposPath  = "/api/github/repos"
	HealthPath = "/health"
)

// Handler returns the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	session := middleware.NewSessionMiddleware(s.cfg.Server, s.logger)
	csrf := middleware.NewCSRFMiddleware(s.cfg.Server, s.cache, s.logger)

	mux.Handle(LoginPath, handlers.NewLoginHandler(s.cfg, s.cache, s.upstream, s.logger))
	mux.Handle(config.CallbackPath, handlers.NewCallbackHandler(s.cfg, s.upstream, s.logger))
	mux.Handle(CSRFPath, handlers.NewCSRFHandler(csrf, s.logger))
	mux.Handle(LogoutPath, csrf.ValidateCSRF(handlers.NewLogoutHandler(s.cfg, s.logger)))
	mux.Handle(ReposPath, session.RequireToken(proxy.NewReposProxy(s.upstream, s.logger)))
	mux.Handle(HealthPath, handlers.NewHealthHandler(s.cfg, s.cache, s.upstream, s.logger))

	return middleware.Recovery(s.logger)(
		middleware.Logging(s.logger)(
			addSecurityHeaders(mux, s.cfg.Server.IsProduction()),
		),
	)
}

func addSecurityHeaders(next http.Handler, production bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		if production {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
