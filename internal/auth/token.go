package auth

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// TokenManager handles token lifecycle for API authentication.
type TokenManager interface {
	// GetToken returns a valid access token, obtaining or refreshing one if
	// necessary.
	GetToken(ctx context.Context) (string, error)
	// RefreshToken forces a new token to be obtained.
	RefreshToken(ctx context.Context) error
	// SetToken manually sets the access token.
	SetToken(token string, expiresAt time.Time)
}

// Token is a bearer token with its expiry.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// Valid reports whether the token can still back a request. Tokens within
// the expiration buffer count as expired so a request never leaves with a
// token about to lapse mid-flight.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token, safe for concurrent use.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear drops the current token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}

// StaticTokenManager serves a pre-obtained token as-is.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a manager around a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	store.Set(&Token{AccessToken: token, TokenType: "bearer"})

	return &StaticTokenManager{store: store}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token == nil || token.AccessToken == "" {
		return "", apim.ErrNotAuthenticated
	}

	return token.AccessToken, nil
}

// RefreshToken always fails: there are no credentials to renew with.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return apim.ErrStaticTokenRefresh
}

// SetToken replaces the configured token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

// LoginConfig configures a LoginTokenManager.
type LoginConfig struct {
	// BaseURL is the management API root.
	BaseURL string
	// Username and Password are sent as HTTP Basic credentials to the login
	// endpoint.
	Username string
	Password string
	// StrictTLS re-enables certificate verification for the login call.
	StrictTLS bool
	// HTTPClient overrides the client used for login calls. Mostly for tests.
	HTTPClient *http.Client
}

// LoginTokenManager obtains bearer tokens from the management API login
// endpoint using HTTP Basic credentials. The token is cached until it nears
// expiry; RefreshToken re-logs-in.
type LoginTokenManager struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	store      *TokenStore
	mutex      sync.Mutex
}

// NewLoginTokenManager creates a login-backed token manager.
func NewLoginTokenManager(config *LoginConfig) *LoginTokenManager {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: constants.ShortHTTPTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !config.StrictTLS, // #nosec G402 -- self-signed management endpoints are the norm, StrictTLS opts back in
				},
			},
		}
	}

	return &LoginTokenManager{
		baseURL:    config.BaseURL,
		username:   config.Username,
		password:   config.Password,
		httpClient: client,
		store:      NewTokenStore(),
	}
}

// GetToken returns a valid token, logging in when the cached one is missing
// or about to expire.
func (m *LoginTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.login(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken drops the cached token and logs in again.
func (m *LoginTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Clear()

	token, err := m.login(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually sets the cached token.
func (m *LoginTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}

// Logout invalidates the server-side session and drops the cached token.
// Clearing the cache happens even when the server call fails.
func (m *LoginTokenManager) Logout(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.store.Get()
	m.store.Clear()

	if token == nil || token.AccessToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/user/logout", nil)
	if err != nil {
		return fmt.Errorf("creating logout request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("logging out: %w", apim.ParseAPIError(resp.StatusCode, body))
	}

	return nil
}

// login exchanges Basic credentials for a bearer token. A rejected login
// surfaces the API error untouched; callers must not retry it.
func (m *LoginTokenManager) login(ctx context.Context) (*Token, error) {
	if m.username == "" || m.password == "" {
		return nil, apim.ErrNoCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/user/login", nil)
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}

	req.SetBasicAuth(m.username, m.password)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("logging in: %w", apim.ParseAPIError(resp.StatusCode, body))
	}

	var payload struct {
		Token string `json:"token"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing login response: %w", err)
	}

	if payload.Token == "" {
		return nil, apim.ErrNotAuthenticated
	}

	return &Token{
		AccessToken: payload.Token,
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(constants.DefaultTokenValidity),
	}, nil
}
