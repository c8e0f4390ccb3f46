package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

func TestUsersClient_Current(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		_ = json.NewEncoder(w).Encode(apim.User{ID: "user-1", Username: "admin", DisplayName: "Admin"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "Admin", user.DisplayName)
}
