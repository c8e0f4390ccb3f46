package gravitee

import (
	"context"
	"fmt"
	"strings"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/client"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// New creates a new management API client from the given configuration.
func New(ctx context.Context, config *apim.Config) (apim.Client, error) {
	if config == nil {
		return nil, apim.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, apim.ErrBaseURLRequired
	}

	// Normalize the base URL
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	cli, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithEndpoint creates an unauthenticated client for the given base URL.
func NewWithEndpoint(ctx context.Context, baseURL string) (apim.Client, error) {
	return New(ctx, &apim.Config{BaseURL: baseURL})
}

// NewWithToken creates a client authenticating with a pre-obtained token.
func NewWithToken(ctx context.Context, baseURL, token string) (apim.Client, error) {
	return New(ctx, &apim.Config{BaseURL: baseURL, Token: token})
}

// NewWithPassword creates a client that logs in with username and password,
// obtaining and refreshing session tokens as needed.
func NewWithPassword(ctx context.Context, baseURL, username, password string) (apim.Client, error) {
	return New(ctx, &apim.Config{BaseURL: baseURL, Username: username, Password: password})
}
