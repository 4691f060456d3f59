// Package fakegithub serves the small part of GitHub the gateway talks to:
// the OAuth authorize page, the token endpoint and the repository listing.
// Tests point the gateway at it; cmd/fakegithub runs it for local development.
package fakegithub

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	DefaultCode  = "fake-code"
	DefaultToken = "gho_fake_token"
)

type Server struct {
	mu sync.Mutex

	// code is the only authorization code the token endpoint accepts.
	code  string
	token string

	reposStatus int
	reposBody   string

	TokenRequests atomic.Int32
	RepoRequests  atomic.Int32

	lastTokenForm url.Values
	lastRepoQuery url.Values
	lastAuth      string
}

func New() *Server {
	return &Server{
		code:        DefaultCode,
		token:       DefaultToken,
		reposStatus: http.StatusOK,
		reposBody:   `[{"id":1,"name":"fake-repo","full_name":"octocat/fake-repo","private":false}]`,
	}
}

// SetToken changes the access token handed out; an empty token makes the
// token endpoint answer without an access_token field.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Server) SetRepos(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reposStatus = status
	s.reposBody = body
}

// LastTokenForm returns the form of the most recent token request.
func (s *Server) LastTokenForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTokenForm
}

// LastRepoRequest returns the query and Authorization header of the most
// recent repository listing.
func (s *Server) LastRepoRequest() (url.Values, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRepoQuery, s.lastAuth
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login/oauth/authorize", s.authorize)
	mux.HandleFunc("POST /login/oauth/access_token", s.accessToken)
	mux.HandleFunc("GET /user/repos", s.repos)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"current_user_url": "/user"})
	})
	return mux
}

// authorize skips the consent screen and sends the user straight back.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	target, err := url.Parse(redirectURI)
	if redirectURI == "" || err != nil {
		http.Error(w, "redirect_uri is required", http.StatusBadRequest)
		return
	}

	q := target.Query()
	q.Set("code", s.code)
	if state := r.URL.Query().Get("state"); state != "" {
		q.Set("state", state)
	}
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (s *Server) accessToken(w http.ResponseWriter, r *http.Request) {
	s.TokenRequests.Add(1)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.lastTokenForm = r.PostForm
	token := s.token
	code := s.code
	s.mu.Unlock()

	// GitHub reports a bad code with 200 and an error field.
	if r.PostForm.Get("code") != code {
		writeJSON(w, http.StatusOK, map[string]string{
			"error":             "bad_verification_code",
			"error_description": "The code passed is incorrect or expired.",
		})
		return
	}

	resp := map[string]string{
		"token_type": "bearer",
		"scope":      "repo,read:user,user:email",
	}
	if token != "" {
		resp["access_token"] = token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) repos(w http.ResponseWriter, r *http.Request) {
	s.RepoRequests.Add(1)

	s.mu.Lock()
	s.lastRepoQuery = r.URL.Query()
	s.lastAuth = r.Header.Get("Authorization")
	token := s.token
	status := s.reposStatus
	body := s.reposBody
	s.mu.Unlock()

	if authorized(r.Header.Get("Authorization"), token) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.WriteHeader(status)
		w.Write([]byte(body))
		return
	}

	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"message": "Bad credentials",
	})
}

func authorized(header, token string) bool {
	scheme, value, ok := strings.Cut(header, " ")
	return ok && token != "" && value == token &&
		(strings.EqualFold(scheme, "token") || strings.EqualFold(scheme, "bearer"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
