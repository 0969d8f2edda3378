package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/hal9000y/draft-merge/internal/auth"
)

func newOAuthServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.Form.Get("grant_type") {
		case "authorization_code":
			_, _ = w.Write([]byte(`{"access_token":"access-from-code","refresh_token":"refresh-1","token_type":"Bearer","expires_in":3600}`))
		case "refresh_token":
			_, _ = w.Write([]byte(`{"access_token":"access-refreshed","token_type":"Bearer","expires_in":3600}`))
		default:
			http.Error(w, "unsupported grant", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/oauth",
		Endpoint:     oauth2.Endpoint{AuthURL: "http://localhost/auth", TokenURL: tokenURL},
	}
}

func TestTokenAuthorizeAndPersist(t *testing.T) {
	srv := newOAuthServer(t)
	path := filepath.Join(t.TempDir(), "token.json")

	tok, err := auth.NewToken(newConfig(srv.URL), path)
	require.NoError(t, err)

	_, err = tok.OAuthToken()
	require.ErrorIs(t, err, auth.ErrTokenNotSet)

	redirect, err := tok.RedirectURL()
	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	require.Error(t, tok.AuthorizeCode(context.Background(), "code-1", "forged-state"))
	require.NoError(t, tok.AuthorizeCode(context.Background(), "code-1", state))
	require.Error(t, tok.AuthorizeCode(context.Background(), "code-1", state), "state must be single use")

	got, err := tok.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-from-code", got.AccessToken)

	require.NoError(t, tok.Persist())

	reloaded, err := auth.NewToken(newConfig(srv.URL), path)
	require.NoError(t, err)
	got, err = reloaded.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-from-code", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
}

func TestTokenHTTPClientKeepsRefreshedToken(t *testing.T) {
	srv := newOAuthServer(t)
	path := filepath.Join(t.TempDir(), "token.json")

	expired, err := json.Marshal(&oauth2.Token{
		AccessToken:  "access-expired",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, expired, 0600))

	var seenAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	tok, err := auth.NewToken(newConfig(srv.URL), path)
	require.NoError(t, err)

	clt, err := tok.HTTPClient(context.Background())
	require.NoError(t, err)

	resp, err := clt.Get(api.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "Bearer access-refreshed", seenAuth)
	got, err := tok.OAuthToken()
	require.NoError(t, err)
	assert.Equal(t, "access-refreshed", got.AccessToken)
}

func TestTokenHTTPClientWithoutToken(t *testing.T) {
	tok, err := auth.NewToken(newConfig("http://localhost/token"), "")
	require.NoError(t, err)

	_, err = tok.HTTPClient(context.Background())
	require.ErrorIs(t, err, auth.ErrTokenNotSet)
}
