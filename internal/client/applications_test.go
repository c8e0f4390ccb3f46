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

func TestApplicationsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		_ = json.NewEncoder(w).Encode(apim.ApplicationsPage{
			Data: []apim.Application{{ID: "app-1", Name: "mobile"}},
			Page: apim.PageInfo{Current: 1, TotalPages: 1, TotalElements: 1},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	page, err := client.Applications().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "mobile", page.Data[0].Name)
}

func TestApplicationsClient_ListAll(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")

		response := apim.ApplicationsPage{Page: apim.PageInfo{Current: 1, TotalPages: 2}}

		switch page {
		case "1":
			response.Data = []apim.Application{{ID: "app-1"}, {ID: "app-2"}}
		case "2":
			response.Data = []apim.Application{{ID: "app-3"}}
			response.Page.Current = 2
		}

		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	apps, err := client.Applications().ListAll(context.Background(), nil).All()
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "app-3", apps[2].ID)
}

func TestApplicationsClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications/app-1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(apim.Application{ID: "app-1", Name: "mobile", Type: "SIMPLE"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	app, err := client.Applications().Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "mobile", app.Name)
	assert.Equal(t, "SIMPLE", app.Type)
}

func TestApplicationsClient_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apim.ApplicationsPage{
			Data: []apim.Application{
				{ID: "app-1", Name: "Mobile Android"},
				{ID: "app-2", Name: "mobile ios"},
				{ID: "app-3", Name: "backoffice"},
			},
			Page: apim.PageInfo{Current: 1, TotalPages: 1},
		})
	}))
	t.Cleanup(server.Close)

	client := NewTestClient(server.URL)

	t.Run("pattern matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		it, err := client.Applications().Search(context.Background(), "^mobile")
		require.NoError(t, err)

		apps, err := it.All()
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, "app-1", apps[0].ID)
	})

	t.Run("empty pattern passes everything", func(t *testing.T) {
		t.Parallel()

		it, err := client.Applications().Search(context.Background(), "")
		require.NoError(t, err)

		apps, err := it.All()
		require.NoError(t, err)
		assert.Len(t, apps, 3)
	})

	t.Run("malformed pattern is a validation error", func(t *testing.T) {
		t.Parallel()

		_, err := client.Applications().Search(context.Background(), "(")
		require.Error(t, err)
		assert.True(t, apim.IsValidation(err))
	})
}
