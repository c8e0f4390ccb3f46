package apim

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the management API. It doubles
// as the transport-level error carrier once retries are exhausted: Status and
// Message come from the last failing attempt.
type APIError struct {
	Status  int    `json:"http_status"         yaml:"http_status"`
	Message string `json:"message"             yaml:"message"`
	Code    string `json:"technicalCode,omitempty" yaml:"technicalCode,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (status: %d, code: %s)", e.Message, e.Status, e.Code)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
}

// ValidationError reports a caller-configuration problem: a malformed filter
// expression, an ambiguous update-by-search target, or inconsistent
// pagination counters. It is never retried.
type ValidationError struct {
	// Filter names the offending filter when the problem is a filter
	// expression; empty otherwise.
	Filter string
	// Matches lists the ambiguous candidates when an exactly-one-match
	// precondition was violated.
	Matches []string
	Detail  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Filter != "":
		return fmt.Sprintf("invalid filter %q: %s", e.Filter, e.Detail)
	case len(e.Matches) > 0:
		return fmt.Sprintf("%s: matched %v", e.Detail, e.Matches)
	default:
		return e.Detail
	}
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrBaseURLRequired     = errors.New("management API base URL is required")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNoMoreItems         = errors.New("no more items")
	ErrNoCredentials       = errors.New("no credentials configured")
	ErrStaticTokenRefresh  = errors.New("static token cannot be refreshed")
	ErrApiNotFound         = errors.New("API not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrPlanNotFound        = errors.New("plan not found")
)

// IsAuthError reports whether the error is an authentication failure (a
// rejected login or a request issued without a valid token).
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrNoCredentials) {
		return true
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}

	return false
}

// IsNotFound reports whether the error is a 404 from the management API.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}

	return false
}

// IsValidation reports whether the error is a caller-configuration problem.
func IsValidation(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr)
}

// ParseAPIError decodes an error payload from the management API. Bodies that
// are not structured error records still yield a usable APIError carrying the
// status code.
func ParseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	apiErr.Status = status

	return apiErr
}
