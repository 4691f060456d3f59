package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
)

func GenerateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Origin reduces a base URL to the scheme://host form browsers send in the
// Origin header.
func Origin(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL: %q", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
