package auth

import (
	"net/http"
	"time"
)

// Session is the result of a successful code exchange. Only AccessToken
// leaves the server, inside the session cookie.
type Session struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// PendingState is stored while the user is on the provider's login page.
type PendingState struct {
	State       string    `json:"state"`
	RedirectURL string    `json:"redirect_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthRedirect struct {
	URL      string
	CacheKey string
	// CacheData is nil when no state has to be remembered.
	CacheData []byte
	CacheTTL  time.Duration
}

// UpstreamResponse is a provider API response relayed to the browser.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
