package client

import (
	"context"
	"encoding/json"
	"fmt"

	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// UsersClient implements apim.UsersClient.
type UsersClient struct {
	httpClient *apihttp.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *apihttp.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// Current implements apim.UsersClient.Current.
func (c *UsersClient) Current(ctx context.Context) (*apim.User, error) {
	resp, err := c.httpClient.Get(ctx, "/user", nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var user apim.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}
