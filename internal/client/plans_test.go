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

func newPlansServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apis/api-1/plans", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		_ = json.NewEncoder(w).Encode([]apim.Plan{
			{ID: "plan-1", Name: "Gold", Security: "API_KEY"},
			{ID: "plan-2", Name: "Silver", Security: "API_KEY"},
			{ID: "plan-3", Name: "Open", Security: "KEY_LESS"},
		})
	}))
}

func TestPlansClient_List(t *testing.T) {
	t.Parallel()

	server := newPlansServer(t)
	defer server.Close()

	client := NewTestClient(server.URL)

	plans, err := client.Plans().List(context.Background(), "api-1")
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "Gold", plans[0].Name)
}

func TestPlansClient_Search(t *testing.T) {
	t.Parallel()

	server := newPlansServer(t)
	t.Cleanup(server.Close)

	client := NewTestClient(server.URL)

	t.Run("by name pattern", func(t *testing.T) {
		t.Parallel()

		plans, err := client.Plans().Search(context.Background(), "api-1", "gold", "")
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, "plan-1", plans[0].ID)
	})

	t.Run("by security, case-insensitively", func(t *testing.T) {
		t.Parallel()

		plans, err := client.Plans().Search(context.Background(), "api-1", "", "api_key")
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})

	t.Run("name and security compose", func(t *testing.T) {
		t.Parallel()

		plans, err := client.Plans().Search(context.Background(), "api-1", "silver", "KEY_LESS")
		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("malformed pattern is a validation error", func(t *testing.T) {
		t.Parallel()

		_, err := client.Plans().Search(context.Background(), "api-1", "(", "")
		require.Error(t, err)
		assert.True(t, apim.IsValidation(err))
	})
}
