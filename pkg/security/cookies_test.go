package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCreateSessionCookie(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		sameSite    string
		wantSecure  bool
		wantSite    http.SameSite
	}{
		{"development", "development", "", false, 0},
		{"production", "production", "", true, 0},
		{"lax", "development", "lax", false, http.SameSiteLaxMode},
		{"strict_production", "production", "strict", true, http.SameSiteStrictMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Server
			cfg.Environment = tt.environment
			cfg.CookieSameSite = tt.sameSite

			cookie := CreateSessionCookie(cfg, "gho_testtoken")

			assert.Equal(t, "github_token", cookie.Name)
			assert.Equal(t, "gho_testtoken", cookie.Value)
			assert.Equal(t, "/", cookie.Path)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tt.wantSecure, cookie.Secure)
			assert.Equal(t, tt.wantSite, cookie.SameSite)
			assert.Zero(t, cookie.MaxAge)
			assert.True(t, cookie.Expires.IsZero())
		})
	}
}

func TestClearSessionCookie(t *testing.T) {
	cookie := ClearSessionCookie(config.Default().Server)

	assert.Equal(t, "github_token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Contains(t, cookie.String(), "Max-Age=0")
}

func TestSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := SessionToken(req, "github_token")
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: "github_token", Value: ""})
	_, ok = SessionToken(req, "github_token")
	assert.False(t, ok, "empty cookie is not a session")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "github_token", Value: "gho_testtoken"})
	token, ok := SessionToken(req, "github_token")
	assert.True(t, ok)
	assert.Equal(t, "gho_testtoken", token)
}
