package apim_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &apim.APIError{Status: 404, Message: "API not found"}
	assert.Equal(t, "API not found (status: 404)", err.Error())

	err = &apim.APIError{Status: 400, Message: "bad definition", Code: "api.invalid"}
	assert.Equal(t, "bad definition (status: 400, code: api.invalid)", err.Error())
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	err := &apim.ValidationError{Filter: "name", Detail: "missing closing )"}
	assert.Contains(t, err.Error(), `invalid filter "name"`)

	err = &apim.ValidationError{Matches: []string{"a", "b"}, Detail: "filter must resolve to exactly one API"}
	assert.Contains(t, err.Error(), "[a b]")

	err = &apim.ValidationError{Detail: "no API matches the filter"}
	assert.Equal(t, "no API matches the filter", err.Error())
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		isAuth bool
		is404  bool
		isVal  bool
	}{
		{
			name:   "unauthorized api error",
			err:    &apim.APIError{Status: http.StatusUnauthorized, Message: "unauthorized"},
			isAuth: true,
		},
		{
			name:  "not found api error",
			err:   &apim.APIError{Status: http.StatusNotFound, Message: "not found"},
			is404: true,
		},
		{
			name:   "wrapped sentinel",
			err:    fmt.Errorf("logging in: %w", apim.ErrNoCredentials),
			isAuth: true,
		},
		{
			name:  "validation error",
			err:   &apim.ValidationError{Detail: "bad filter"},
			isVal: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.isAuth, apim.IsAuthError(testCase.err))
			assert.Equal(t, testCase.is404, apim.IsNotFound(testCase.err))
			assert.Equal(t, testCase.isVal, apim.IsValidation(testCase.err))
		})
	}
}

func TestParseAPIError(t *testing.T) {
	t.Parallel()

	t.Run("structured body", func(t *testing.T) {
		t.Parallel()

		err := apim.ParseAPIError(400, []byte(`{"message":"bad request","technicalCode":"api.invalid"}`))
		assert.Equal(t, 400, err.Status)
		assert.Equal(t, "bad request", err.Message)
		assert.Equal(t, "api.invalid", err.Code)
	})

	t.Run("unstructured body is kept verbatim", func(t *testing.T) {
		t.Parallel()

		err := apim.ParseAPIError(502, []byte("upstream exploded"))
		assert.Equal(t, 502, err.Status)
		assert.Equal(t, "upstream exploded", err.Message)
	})

	t.Run("empty body falls back to status text", func(t *testing.T) {
		t.Parallel()

		err := apim.ParseAPIError(503, nil)
		assert.Equal(t, "Service Unavailable", err.Message)
	})
}
