package apim

import (
	"net/url"
	"strconv"
)

// QueryParams represents common query options for collection endpoints.
type QueryParams struct {
	Page    int
	Size    int
	Order   string
	Filters map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPage sets the page number (1-based).
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithSize sets the page size.
func (q *QueryParams) WithSize(size int) *QueryParams {
	q.Size = size

	return q
}

// WithOrder sets the sort order (prefix with "-" for descending).
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// WithFilter appends values to a server-side filter parameter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the params to URL query values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	for key, vals := range q.Filters {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	return values
}

// AuditQuery narrows an audit-trail listing.
type AuditQuery struct {
	Page          int
	Size          int
	Event         string
	ReferenceType string
	ReferenceID   string
}

// ToValues converts the audit query to URL query values.
func (q *AuditQuery) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}

	if q.Event != "" {
		values.Set("event", q.Event)
	}

	if q.ReferenceType != "" {
		values.Set("referenceType", q.ReferenceType)
	}

	if q.ReferenceID != "" {
		values.Set("referenceId", q.ReferenceID)
	}

	return values
}

// LogsQuery narrows a gateway-log listing. SearchAfter carries the cursor:
// the timestamp of the last entry of the previous page.
type LogsQuery struct {
	Size        int
	From        int64
	To          int64
	SearchAfter string
}

// ToValues converts the logs query to URL query values.
func (q *LogsQuery) ToValues() url.Values {
	values := url.Values{}

	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}

	if q.From > 0 {
		values.Set("from", strconv.FormatInt(q.From, 10))
	}

	if q.To > 0 {
		values.Set("to", strconv.FormatInt(q.To, 10))
	}

	if q.SearchAfter != "" {
		values.Set("searchAfter", q.SearchAfter)
	}

	return values
}
