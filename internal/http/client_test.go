package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

func (m *MockTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}

func (m *MockTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/apis", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"id": "api-1", "name": "test-api"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := apihttp.NewClient(server.URL, tokenManager)

		req := &apihttp.Request{
			Method: "GET",
			Path:   "/apis",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "api-1", result["id"])
		assert.Equal(t, "test-api", result["name"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/apis", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil)

		req := &apihttp.Request{
			Method: "GET",
			Path:   "/apis",
			Query:  url.Values{"page": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "test-api", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil)

		req := &apihttp.Request{
			Method: "POST",
			Path:   "/apis",
			Body:   map[string]string{"name": "test-api"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("raw byte body is sent untouched", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"name":"imported"}`)

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "imported", body["name"])

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil)

		_, err := client.Post(context.Background(), "/apis/import", raw)
		require.NoError(t, err)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{
				"message":       "Api not found",
				"technicalCode": "api.notFound",
			})
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil)

		req := &apihttp.Request{
			Method: "GET",
			Path:   "/apis/invalid",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &apim.APIError{}
		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "Api not found", apiErr.Message)
		assert.Equal(t, "api.notFound", apiErr.Code)
		assert.True(t, apim.IsNotFound(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "default-value", request.Header.Get("X-Default-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil,
			apihttp.WithDefaultHeaders(map[string]string{"X-Default-Header": "default-value"}))

		req := &apihttp.Request{
			Method: "GET",
			Path:   "/apis",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := apihttp.NewClient(server.URL, nil, apihttp.WithLogger(logger), apihttp.WithDebug(true))

		req := &apihttp.Request{
			Method: "GET",
			Path:   "/apis",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("token manager failure aborts before sending", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			t.Error("request should not have been sent")
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{err: apim.ErrNoCredentials}
		client := apihttp.NewClient(server.URL, tokenManager)

		_, err := client.Get(context.Background(), "/apis", nil)
		require.ErrorIs(t, err, apim.ErrNoCredentials)
	})
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*apihttp.Client, context.Context) (*apihttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *apihttp.Client, ctx context.Context) (*apihttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *apihttp.Client, ctx context.Context) (*apihttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *apihttp.Client, ctx context.Context) (*apihttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *apihttp.Client, ctx context.Context) (*apihttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *apihttp.Client, ctx context.Context) (*apihttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := apihttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("permanent failure stops at the attempt budget", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("does not retry on 401", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.True(t, apim.IsAuthError(err))
		assert.Equal(t, 1, attempts)
	})

	t.Run("mutating requests are attempted once", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		_, err := client.Post(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("explicitly retryable mutating request is retried", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 2 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, nil, apihttp.WithRetryConfig(3, 10*time.Millisecond))

		req := &apihttp.Request{
			Method:    "POST",
			Path:      "/test",
			Retryable: true,
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("retry hook fires on every retry attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts++
			if attempts < 3 {
				writer.WriteHeader(http.StatusServiceUnavailable)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		var hookAttempts []int

		client := apihttp.NewClient(server.URL, nil,
			apihttp.WithRetryConfig(3, 10*time.Millisecond),
			apihttp.WithRetryHook(func(req *http.Request, attempt int) {
				hookAttempts = append(hookAttempts, attempt)
			}))

		_, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, hookAttempts)
	})
}
