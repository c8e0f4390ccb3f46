package client

import (
	"context"
	"fmt"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/auth"
	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// Client implements the apim.Client interface.
type Client struct {
	httpClient   *apihttp.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       apim.Logger

	apis          apim.ApisClient
	applications  apim.ApplicationsClient
	plans         apim.PlansClient
	subscriptions apim.SubscriptionsClient
	audit         apim.AuditClient
	users         apim.UsersClient
}

// createTokenManager picks the token manager matching the configured
// credentials. A static token wins over username/password; no credentials
// means unauthenticated requests.
func createTokenManager(config *apim.Config) auth.TokenManager {
	if config.Token != "" {
		return auth.NewStaticTokenManager(config.Token)
	}

	if config.Username != "" && config.Password != "" {
		return auth.NewLoginTokenManager(&auth.LoginConfig{
			BaseURL:   config.BaseURL,
			Username:  config.Username,
			Password:  config.Password,
			StrictTLS: config.StrictTLS,
		})
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *apim.Config) []apihttp.Option {
	var httpOpts []apihttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, apihttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, apihttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, apihttp.WithUserAgent(config.UserAgent))
	}

	if len(config.Headers) > 0 {
		httpOpts = append(httpOpts, apihttp.WithDefaultHeaders(config.Headers))
	}

	if config.RetryMax > 0 || config.RetryWait > 0 {
		httpOpts = append(httpOpts, apihttp.WithRetryConfig(config.RetryMax, config.RetryWait))
	}

	httpOpts = append(httpOpts, apihttp.WithStrictTLS(config.StrictTLS))

	return httpOpts
}

// New creates a new management API client.
func New(ctx context.Context, config *apim.Config) (*Client, error) {
	if config == nil {
		return nil, apim.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, apim.ErrBaseURLRequired
	}

	tokenManager := createTokenManager(config)
	httpClient := apihttp.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.BaseURL,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.apis = NewApisClient(c.httpClient)
	c.applications = NewApplicationsClient(c.httpClient)
	c.plans = NewPlansClient(c.httpClient)
	c.subscriptions = NewSubscriptionsClient(c.httpClient)
	c.audit = NewAuditClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
}

// Apis implements apim.Client.Apis.
func (c *Client) Apis() apim.ApisClient {
	return c.apis
}

// Applications implements apim.Client.Applications.
func (c *Client) Applications() apim.ApplicationsClient {
	return c.applications
}

// Plans implements apim.Client.Plans.
func (c *Client) Plans() apim.PlansClient {
	return c.plans
}

// Subscriptions implements apim.Client.Subscriptions.
func (c *Client) Subscriptions() apim.SubscriptionsClient {
	return c.subscriptions
}

// Audit implements apim.Client.Audit.
func (c *Client) Audit() apim.AuditClient {
	return c.audit
}

// Users implements apim.Client.Users.
func (c *Client) Users() apim.UsersClient {
	return c.users
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Login implements apim.Client.Login. With a static token this is a no-op
// beyond checking the token exists.
func (c *Client) Login(ctx context.Context) error {
	if c.tokenManager == nil {
		return apim.ErrNoCredentials
	}

	if _, err := c.tokenManager.GetToken(ctx); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	return nil
}

// Logout implements apim.Client.Logout. A login-based session delegates to
// its manager; a static token still invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if manager, ok := c.tokenManager.(*auth.LoginTokenManager); ok {
		return manager.Logout(ctx)
	}

	if c.tokenManager == nil {
		return nil
	}

	if _, err := c.httpClient.Post(ctx, "/user/logout", nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// Token returns the current access token, obtaining one if necessary.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", apim.ErrNotAuthenticated
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// cloneParams copies params so page traversal never mutates the caller's
// value, filling in the default page size.
func cloneParams(params *apim.QueryParams) *apim.QueryParams {
	base := apim.NewQueryParams()

	if params != nil {
		base.Page = params.Page
		base.Size = params.Size
		base.Order = params.Order

		for key, vals := range params.Filters {
			base.Filters[key] = append([]string(nil), vals...)
		}
	}

	if base.Size <= 0 {
		base.Size = constants.DefaultPageSize
	}

	return base
}

// firstPage derives the initial page request from query params.
func firstPage(params *apim.QueryParams) apim.PageRequest {
	first := apim.PageRequest{Page: params.Page, Size: params.Size}
	if first.Page <= 0 {
		first.Page = 1
	}

	return first
}
