package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/auth"
	"github.com/felixp33/CloudGuardian/internal/middleware"
	"github.com/felixp33/CloudGuardian/pkg/httpjson"
)

// ReposProxy relays the signed-in user's repository list from GitHub. It
// expects to run behind SessionMiddleware.RequireToken.
type ReposProxy struct {
	upstream auth.RepoLister
	logger   *slog.Logger
}

func NewReposProxy(upstream auth.RepoLister, logger *slog.Logger) *ReposProxy {
	return &ReposProxy{
		upstream: upstream,
		logger:   logger,
	}
}

func (rp *ReposProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, ok := middleware.GetToken(r.Context())
	if !ok {
		httpjson.WriteUnauthorized(w)
		return
	}

	resp, err := rp.upstream.ListRepositories(r.Context(), token)
	if err != nil {
		rp.logger.Error("repository listing failed", "error", err)
		httpjson.WriteInternalServerError(w)
		return
	}

	copyRateLimitHeaders(w.Header(), resp.Header)

	if !resp.OK() {
		rp.logger.Warn("github rejected repository listing", "status", resp.StatusCode)
		httpjson.WriteError(w, resp.StatusCode, "Failed to fetch repos")
		return
	}

	if !json.Valid(resp.Body) {
		rp.logger.Error("github returned invalid JSON", "bytes", len(resp.Body))
		httpjson.WriteInternalServerError(w)
		return
	}

	rp.logger.Debug("relayed repository listing", "bytes", len(resp.Body))

	httpjson.WriteRaw(w, http.StatusOK, resp.Body)
}
