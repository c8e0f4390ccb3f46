package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/auth"
	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// RetryHook is invoked before every retry attempt (attempt >= 1).
type RetryHook func(req *http.Request, attempt int)

// Request represents an API request. The template is never mutated during
// execution, so one Request value can back several calls.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded unless it is already a []byte.
	Body    interface{}
	Headers map[string]string
	// Retryable marks a mutating request as safe to retry. Idempotent
	// methods are retried regardless.
	Retryable bool
}

// Response represents an API response with the body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client wraps two retryablehttp clients, one retrying for idempotent
// requests and a single-shot one for mutating requests.
type Client struct {
	baseURL        string
	tokenManager   auth.TokenManager
	retrying       *retryablehttp.Client
	singleShot     *retryablehttp.Client
	defaultHeaders map[string]string
	userAgent      string
	logger         apim.Logger
	debug          bool
	retryMax       int
	retryWait      time.Duration
	retryHook      RetryHook
	strictTLS      bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger apim.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithDefaultHeaders adds headers to every request. Per-request headers win.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithRetryConfig sets the attempt budget and the fixed inter-attempt delay.
func WithRetryConfig(retryMax int, retryWait time.Duration) Option {
	return func(c *Client) {
		if retryMax > 0 {
			c.retryMax = retryMax
		}

		if retryWait > 0 {
			c.retryWait = retryWait
		}
	}
}

// WithRetryHook registers a callback invoked on every retry attempt.
func WithRetryHook(hook RetryHook) Option {
	return func(c *Client) {
		c.retryHook = hook
	}
}

// WithStrictTLS re-enables certificate verification. Verification is off by
// default since most management endpoints run self-signed certificates.
func WithStrictTLS(strict bool) Option {
	return func(c *Client) {
		c.strictTLS = strict
	}
}

// NewClient creates an API client for the given base URL. tokenManager may
// be nil for unauthenticated use.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		tokenManager:   tokenManager,
		defaultHeaders: make(map[string]string),
		retryMax:       constants.DefaultRetryMax,
		retryWait:      constants.DefaultRetryWait,
	}

	for _, opt := range opts {
		opt(client)
	}

	// retryMax is an attempt budget; retryablehttp counts retries after the
	// initial attempt.
	client.retrying = client.newRetryableClient(client.retryMax - 1)
	client.singleShot = client.newRetryableClient(0)

	return client
}

func (c *Client) newRetryableClient(retries int) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = c.retryWait
	retryClient.RetryWaitMax = c.retryWait
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !c.strictTLS, // #nosec G402 -- self-signed management endpoints are the norm, WithStrictTLS opts back in
		},
	}

	// Fixed delay between attempts, whatever the attempt number.
	retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		return c.retryWait
	}

	retryClient.CheckRetry = checkRetry

	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 && c.retryHook != nil {
			c.retryHook(req, attempt)
		}

		if attempt > 0 && c.logger != nil {
			c.logger.Warn("HTTP Retry", map[string]interface{}{
				"method":  req.Method,
				"url":     req.URL.String(),
				"attempt": attempt,
			})
		}
	}

	return retryClient
}

// checkRetry retries network failures, 429 and 5xx. 401 and the remaining
// 4xx are terminal.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}

	return false, nil
}

// Do executes the request and returns the response. Responses with status
// >= 400 are returned together with the decoded APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	bodyBytes, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq, req); err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.executor(req).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":   req.Method,
			"url":      fullURL,
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, apim.ParseAPIError(httpResp.StatusCode, respBody)
	}

	return resp, nil
}

// executor picks the retrying client for idempotent or explicitly retryable
// requests, the single-shot client otherwise.
func (c *Client) executor(req *Request) *retryablehttp.Client {
	if req.Retryable || req.Method == http.MethodGet || req.Method == http.MethodHead {
		return c.retrying
	}

	return c.singleShot
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request) error {
	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return nil
}

func encodeBody(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshaling body: %w", err)
		}

		return data, nil
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
