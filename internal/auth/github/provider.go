package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/felixp33/CloudGuardian/internal/auth"
	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// reposPageSize is the only page requested; users with more
	// repositories see the first 100.
	reposPageSize = 100

	stateKeyPrefix = "oauth:state:"
	stateTTL       = 10 * time.Minute

	maxResponseBytes = 10 << 20
)

// Provider implements the GitHub OAuth app flow and the repository listing
// made on behalf of the signed-in user.
type Provider struct {
	config     oauth2.Config
	apiBaseURL string
	stateCheck bool
	cache      cache.Cache

	// tokenClient asks the token endpoint for JSON; apiClient is the base
	// for authenticated API calls.
	tokenClient *http.Client
	apiClient   *http.Client
}

func NewProvider(cfg config.GitHubConfig, callbackURL string, cache cache.Cache, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Provider{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  callbackURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizeURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL:  cfg.APIURL,
		stateCheck:  cfg.StateCheck,
		cache:       cache,
		tokenClient: withAcceptJSON(httpClient),
		apiClient:   httpClient,
	}
}

func (p *Provider) Name() string {
	return "GitHub"
}

func (p *Provider) InitiateAuth(ctx context.Context) (*auth.AuthRedirect, error) {
	if !p.stateCheck {
		return &auth.AuthRedirect{URL: p.config.AuthCodeURL("")}, nil
	}

	state := uuid.New().String()
	pending, err := json.Marshal(auth.PendingState{
		State:       state,
		RedirectURL: p.config.RedirectURL,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	return &auth.AuthRedirect{
		URL:       p.config.AuthCodeURL(state),
		CacheKey:  stateKeyPrefix + state,
		CacheData: pending,
		CacheTTL:  stateTTL,
	}, nil
}

func (p *Provider) HandleCallback(ctx context.Context, req *http.Request) (*auth.Session, error) {
	query := req.URL.Query()

	code := query.Get("code")
	if code == "" {
		return nil, auth.ErrMissingCode
	}

	if p.stateCheck {
		if err := p.consumeState(ctx, query.Get("state")); err != nil {
			return nil, err
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.tokenClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("token endpoint unreachable: %w", err)
		}
		return nil, &auth.ExchangeError{Reason: err}
	}

	scope, _ := token.Extra("scope").(string)

	return &auth.Session{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Scope:       scope,
	}, nil
}

func (p *Provider) consumeState(ctx context.Context, state string) error {
	if state == "" {
		return auth.ErrStateMismatch
	}

	data, err := p.cache.Take(ctx, stateKeyPrefix+state)
	if errors.Is(err, cache.ErrNotFound) {
		return auth.ErrStateMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	var pending auth.PendingState
	if err := json.Unmarshal(data, &pending); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}

	if pending.State != state || pending.RedirectURL != p.config.RedirectURL {
		return auth.ErrStateMismatch
	}

	return nil
}

// ListRepositories fetches the first page of the user's repositories. A
// non-2xx answer is returned as a response, not as an error.
func (p *Provider) ListRepositories(ctx context.Context, accessToken string) (*auth.UpstreamResponse, error) {
	endpoint := fmt.Sprintf("%s/user/repos?per_page=%d", p.apiBaseURL, reposPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.authorizedClient(ctx, accessToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories: %w", err)
	}

	return &auth.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// authorizedClient sends "Authorization: token <accessToken>".
func (p *Provider) authorizedClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.apiClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "token",
	}))
	client.Timeout = p.apiClient.Timeout
	return client
}

// Ping checks that the REST API answers at all.
func (p *Provider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.apiClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
