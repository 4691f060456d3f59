package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixp33/CloudGuardian/pkg/httpjson"
)

// CSRFIssuer hands out tokens accepted once by the CSRF middleware.
type CSRFIssuer interface {
	GenerateCSRFToken(ctx context.Context) (string, error)
}

type CSRFTokenResponse struct {
	Token string `json:"csrf_token"`
}

type CSRFHandler struct {
	issuer CSRFIssuer
	logger *slog.Logger
}

func NewCSRFHandler(issuer CSRFIssuer, logger *slog.Logger) *CSRFHandler {
	return &CSRFHandler{
		issuer: issuer,
		logger: logger,
	}
}

func (h *CSRFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := h.issuer.GenerateCSRFToken(r.Context())
	if err != nil {
		h.logger.Error("failed to issue CSRF token", "error", err)
		httpjson.WriteInternalServerError(w)
		return
	}

	httpjson.WriteResponse(w, http.StatusOK, CSRFTokenResponse{Token: token})
}
