package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/auth"
	. "github.com/abourdon/gravitee-toolbox-sub000/internal/client"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, apim.ErrConfigRequired)
	})

	t.Run("requires a base URL", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &apim.Config{})
		require.ErrorIs(t, err, apim.ErrBaseURLRequired)
	})

	t.Run("exposes every resource client", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &apim.Config{BaseURL: "https://apim.example.com/management"})
		require.NoError(t, err)

		assert.NotNil(t, client.Apis())
		assert.NotNil(t, client.Applications())
		assert.NotNil(t, client.Plans())
		assert.NotNil(t, client.Subscriptions())
		assert.NotNil(t, client.Audit())
		assert.NotNil(t, client.Users())
	})

	t.Run("static token wins over username and password", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &apim.Config{
			BaseURL:  "https://apim.example.com/management",
			Token:    "static-token",
			Username: "admin",
			Password: "secret",
		})
		require.NoError(t, err)

		_, ok := client.GetTokenManager().(*auth.StaticTokenManager)
		assert.True(t, ok)

		token, err := client.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "static-token", token)
	})

	t.Run("username and password select the login manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &apim.Config{
			BaseURL:  "https://apim.example.com/management",
			Username: "admin",
			Password: "secret",
		})
		require.NoError(t, err)

		_, ok := client.GetTokenManager().(*auth.LoginTokenManager)
		assert.True(t, ok)
	})

	t.Run("no credentials means no token manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &apim.Config{BaseURL: "https://apim.example.com/management"})
		require.NoError(t, err)

		assert.Nil(t, client.GetTokenManager())

		require.ErrorIs(t, client.Login(context.Background()), apim.ErrNoCredentials)

		_, err = client.Token(context.Background())
		require.ErrorIs(t, err, apim.ErrNotAuthenticated)

		// Logout without a session is a no-op.
		require.NoError(t, client.Logout(context.Background()))
	})
}

func TestClient_LoginLogout(t *testing.T) {
	t.Parallel()

	logins := 0
	logouts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			logins++

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "admin", user)
			assert.Equal(t, "secret", pass)

			_ = json.NewEncoder(w).Encode(map[string]string{"token": "bearer-token"})
		case "/user/logout":
			logouts++

			w.WriteHeader(http.StatusNoContent)
		case "/user":
			assert.Equal(t, "Bearer bearer-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(apim.User{ID: "user-1", Username: "admin"})
		}
	}))
	defer server.Close()

	client, err := New(context.Background(), &apim.Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, 1, logins)

	// Authenticated calls reuse the session token.
	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, 1, logins)

	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, 1, logouts)
}
