package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewGithubOAuth(t *testing.T) {
	oauth := NewGithubOAuth("client-id", "client-secret", "http://localhost/callback")

	require.NotNil(t, oauth.config)
	assert.Equal(t, "client-id", oauth.config.ClientID)
	assert.Equal(t, "client-secret", oauth.config.ClientSecret)
	assert.Equal(t, "http://localhost/callback", oauth.config.RedirectURL)
	assert.Equal(t, []string{"user:email"}, oauth.config.Scopes)
	assert.Equal(t, defaultAPIBase, oauth.apiBase)
}

func TestGithubOAuth_GetAuthURL(t *testing.T) {
	oauth := NewGithubOAuth("test-client-id", "test-secret", "http://example.com/callback")

	url := oauth.GetAuthURL("state-with-special-chars_123")

	assert.Contains(t, url, "github.com")
	assert.Contains(t, url, "client_id=test-client-id")
	assert.Contains(t, url, "state=state-with-special-chars_123")
	assert.Contains(t, url, "redirect_uri=")
}

func TestGithubUser_Account(t *testing.T) {
	user := GithubUser{ID: 12345, Login: "octo"}

	assert.Equal(t, "oauth_github_12345", user.Account("oauth_"))
	assert.Equal(t, "octo", user.DisplayName())

	user.Name = "Octo Cat"
	assert.Equal(t, "Octo Cat", user.DisplayName())
}

func newGithubAPI(t *testing.T, user GithubUser, emails []map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			json.NewEncoder(w).Encode(user)
		case "/user/emails":
			json.NewEncoder(w).Encode(emails)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGithubOAuth_GetUser(t *testing.T) {
	server := newGithubAPI(t, GithubUser{ID: 555, Login: "mockuser", Email: "mock@example.com"}, nil)
	oauth := NewGithubOAuth("id", "secret", "").WithAPIBase(server.URL)

	user, err := oauth.GetUser(context.Background(), &oauth2.Token{AccessToken: "test-token"})
	require.NoError(t, err)
	assert.Equal(t, int64(555), user.ID)
	assert.Equal(t, "mock@example.com", user.Email)
}

func TestGithubOAuth_GetUser_PrimaryEmailFallback(t *testing.T) {
	server := newGithubAPI(t, GithubUser{ID: 7, Login: "private"}, []map[string]interface{}{
		{"email": "unverified@example.com", "primary": true, "verified": false},
		{"email": "second@example.com", "primary": false, "verified": true},
	})
	oauth := NewGithubOAuth("id", "secret", "").WithAPIBase(server.URL)

	user, err := oauth.GetUser(context.Background(), &oauth2.Token{AccessToken: "test-token"})
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", user.Email)
}

func TestGithubOAuth_GetUser_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()
	oauth := NewGithubOAuth("id", "secret", "").WithAPIBase(server.URL)

	_, err := oauth.GetUser(context.Background(), &oauth2.Token{AccessToken: "test-token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
