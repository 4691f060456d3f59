package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/felixp33/CloudGuardian/internal/auth/github"
	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/internal/fakegithub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGateway starts the gateway and a fake GitHub wired to each other.
func newTestGateway(t *testing.T, stateCheck bool) (*httptest.Server, *fakegithub.Server) {
	t.Helper()

	fake := fakegithub.New()
	githubServer := httptest.NewServer(fake.Handler())
	t.Cleanup(githubServer.Close)

	gateway := httptest.NewUnstartedServer(nil)
	t.Cleanup(gateway.Close)

	cfg := *config.Default()
	cfg.Server.BaseURL = "http://" + gateway.Listener.Addr().String()
	cfg.GitHub.ClientID = "test-client"
	cfg.GitHub.ClientSecret = "test-secret"
	cfg.GitHub.AuthorizeURL = githubServer.URL + "/login/oauth/authorize"
	cfg.GitHub.TokenURL = githubServer.URL + "/login/oauth/access_token"
	cfg.GitHub.APIURL = githubServer.URL
	cfg.GitHub.StateCheck = stateCheck

	c := cache.NewMemoryCache()
	t.Cleanup(func() { c.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := github.NewProvider(cfg.GitHub, cfg.Server.CallbackURL(), c, githubServer.Client())

	gateway.Config.Handler = New(cfg, c, provider, logger).Handler()
	gateway.Start()

	return gateway, fake
}

func noRedirectClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestGateway_FullLoginFlow(t *testing.T) {
	for _, stateCheck := range []bool{false, true} {
		t.Run(map[bool]string{false: "without_state", true: "with_state"}[stateCheck], func(t *testing.T) {
			gateway, fake := newTestGateway(t, stateCheck)
			fake.SetRepos(http.StatusOK, `[{"id":1,"name":"repo-a"}]`)
			client := noRedirectClient(t)

			resp, err := client.Get(gateway.URL + LoginPath)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusFound, resp.StatusCode)
			authorizeURL := resp.Header.Get("Location")
			assert.Equal(t, stateCheck, mustParse(t, authorizeURL).Query().Has("state"))

			// The fake provider approves immediately and bounces to the callback.
			resp, err = client.Get(authorizeURL)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusFound, resp.StatusCode)
			callbackURL := resp.Header.Get("Location")
			assert.Equal(t, config.CallbackPath, mustParse(t, callbackURL).Path)

			resp, err = client.Get(callbackURL)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/auth/callback", resp.Header.Get("Location"))

			resp, err = client.Get(gateway.URL + ReposPath)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, `[{"id":1,"name":"repo-a"}]`, string(body))

			resp, err = client.Do(logoutRequest(t, gateway.URL, csrfToken(t, client, gateway.URL)))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusFound, resp.StatusCode)

			resp, err = client.Get(gateway.URL + ReposPath)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, int32(1), fake.RepoRequests.Load())
		})
	}
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()

	resp, err := client.Get(baseURL + CSRFPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func logoutRequest(t *testing.T, baseURL, token string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+LogoutPath, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	return req
}

func TestGateway_LogoutRequiresCSRF(t *testing.T) {
	gateway, _ := newTestGateway(t, false)
	client := noRedirectClient(t)

	t.Run("missing_token", func(t *testing.T) {
		resp, err := client.Do(logoutRequest(t, gateway.URL, ""))
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Values("Set-Cookie"))
	})

	t.Run("foreign_origin", func(t *testing.T) {
		req := logoutRequest(t, gateway.URL, csrfToken(t, client, gateway.URL))
		req.Header.Set("Origin", "https://evil.example")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Values("Set-Cookie"))
	})

	t.Run("same_origin_token_is_single_use", func(t *testing.T) {
		token := csrfToken(t, client, gateway.URL)

		req := logoutRequest(t, gateway.URL, token)
		req.Header.Set("Origin", gateway.URL)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)

		resp, err = client.Do(logoutRequest(t, gateway.URL, token))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestGateway_ReposWithoutSession(t *testing.T) {
	gateway, fake := newTestGateway(t, false)

	resp, err := http.Get(gateway.URL + ReposPath)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
	assert.Zero(t, fake.RepoRequests.Load())

	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Empty(t, resp.Header.Get("Strict-Transport-Security"))
}

func TestGateway_Health(t *testing.T) {
	gateway, _ := newTestGateway(t, false)

	resp, err := http.Get(gateway.URL + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
