package client

import (
	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
)

// NewTestClient creates a client without authentication for use in tests.
func NewTestClient(baseURL string) *Client {
	client := &Client{
		httpClient: apihttp.NewClient(baseURL, nil),
		baseURL:    baseURL,
	}

	client.initializeResourceClients()

	return client
}
