package security

import (
	"net/http"

	"github.com/felixp33/CloudGuardian/internal/config"
)

// CreateSessionCookie stores the access token for the browser. The cookie
// has no Max-Age: it lives as long as the browser session.
func CreateSessionCookie(cfg config.ServerConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
		SameSite: sameSiteMode(cfg.CookieSameSite),
	}
}

func ClearSessionCookie(cfg config.ServerConfig) *http.Cookie {
	cookie := CreateSessionCookie(cfg, "")
	cookie.MaxAge = -1
	return cookie
}

// SessionToken returns the token carried by the session cookie. An empty
// cookie counts as no cookie.
func SessionToken(req *http.Request, cookieName string) (string, bool) {
	cookie, err := req.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func sameSiteMode(value string) http.SameSite {
	switch value {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return 0
	}
}
