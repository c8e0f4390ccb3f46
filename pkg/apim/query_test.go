package apim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("empty params produce no values", func(t *testing.T) {
		t.Parallel()

		values := apim.NewQueryParams().ToValues()
		assert.Empty(t, values)
	})

	t.Run("builder methods chain", func(t *testing.T) {
		t.Parallel()

		values := apim.NewQueryParams().
			WithPage(2).
			WithSize(25).
			WithOrder("-name").
			WithFilter("category", "finance", "billing").
			ToValues()

		assert.Equal(t, "2", values.Get("page"))
		assert.Equal(t, "25", values.Get("size"))
		assert.Equal(t, "-name", values.Get("order"))
		assert.Equal(t, []string{"finance", "billing"}, values["category"])
	})
}

func TestAuditQuery_ToValues(t *testing.T) {
	t.Parallel()

	values := (&apim.AuditQuery{
		Page:          3,
		Size:          100,
		Event:         "API_UPDATED",
		ReferenceType: "API",
		ReferenceID:   "api-1",
	}).ToValues()

	assert.Equal(t, "3", values.Get("page"))
	assert.Equal(t, "100", values.Get("size"))
	assert.Equal(t, "API_UPDATED", values.Get("event"))
	assert.Equal(t, "API", values.Get("referenceType"))
	assert.Equal(t, "api-1", values.Get("referenceId"))
}

func TestLogsQuery_ToValues(t *testing.T) {
	t.Parallel()

	values := (&apim.LogsQuery{
		Size:        50,
		From:        1700000000000,
		To:          1700000100000,
		SearchAfter: "1700000050000",
	}).ToValues()

	assert.Equal(t, "50", values.Get("size"))
	assert.Equal(t, "1700000000000", values.Get("from"))
	assert.Equal(t, "1700000100000", values.Get("to"))
	assert.Equal(t, "1700000050000", values.Get("searchAfter"))
}
