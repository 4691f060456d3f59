package auth

import (
	"context"
	"net/http"
)

// Provider is the OAuth provider the dashboard signs users in with.
type Provider interface {
	Name() string

	// InitiateAuth builds the redirect to the provider's authorize page.
	InitiateAuth(ctx context.Context) (*AuthRedirect, error)

	// HandleCallback exchanges the authorization code carried by req.
	// Rejections are reported as ErrMissingCode, ErrStateMismatch or
	// *ExchangeError; any other error means the provider was unreachable.
	HandleCallback(ctx context.Context, req *http.Request) (*Session, error)
}

// RepoLister reads the repositories of the user owning an access token.
type RepoLister interface {
	ListRepositories(ctx context.Context, accessToken string) (*UpstreamResponse, error)
}
