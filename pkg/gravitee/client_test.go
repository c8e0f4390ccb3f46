package gravitee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/gravitee"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("requires a config", func(t *testing.T) {
		t.Parallel()

		_, err := gravitee.New(context.Background(), nil)
		require.ErrorIs(t, err, apim.ErrConfigRequired)
	})

	t.Run("requires a base URL", func(t *testing.T) {
		t.Parallel()

		_, err := gravitee.New(context.Background(), &apim.Config{})
		require.ErrorIs(t, err, apim.ErrBaseURLRequired)
	})

	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		client, err := gravitee.New(context.Background(), &apim.Config{
			BaseURL: "https://apim.example.com/management",
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestNewWithEndpoint(t *testing.T) {
	t.Parallel()

	client, err := gravitee.NewWithEndpoint(context.Background(), "apim.example.com/management/")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	client, err := gravitee.NewWithToken(context.Background(), "https://apim.example.com", "test-token")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithPassword(t *testing.T) {
	t.Parallel()

	client, err := gravitee.NewWithPassword(context.Background(), "https://apim.example.com", "admin", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/apis":
			_ = json.NewEncoder(writer).Encode(apim.ApisPage{
				Data: []apim.Api{{ID: "api-1", Name: "orders"}},
				Page: apim.PageInfo{Current: 1, TotalPages: 1, TotalElements: 1},
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := gravitee.NewWithEndpoint(context.Background(), server.URL)
	require.NoError(t, err)

	page, err := client.Apis().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "orders", page.Data[0].Name)
}
