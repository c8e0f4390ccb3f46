package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// AuditClient implements apim.AuditClient.
type AuditClient struct {
	httpClient *apihttp.Client
}

// NewAuditClient creates a new audit client.
func NewAuditClient(httpClient *apihttp.Client) *AuditClient {
	return &AuditClient{httpClient: httpClient}
}

// List implements apim.AuditClient.List.
func (c *AuditClient) List(ctx context.Context, query *apim.AuditQuery) (*apim.AuditPage, error) {
	q := apim.AuditQuery{}
	if query != nil {
		q = *query
	}

	resp, err := c.httpClient.Get(ctx, "/audit", q.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing audit events: %w", err)
	}

	var page apim.AuditPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing audit list response: %w", err)
	}

	return &page, nil
}

// ListAll implements apim.AuditClient.ListAll.
func (c *AuditClient) ListAll(ctx context.Context, query *apim.AuditQuery) *apim.ItemIterator[apim.AuditEvent] {
	base := apim.AuditQuery{}
	if query != nil {
		base = *query
	}

	if base.Size <= 0 {
		base.Size = constants.DefaultPageSize
	}

	first := apim.PageRequest{Page: base.Page, Size: base.Size}
	if first.Page <= 0 {
		first.Page = 1
	}

	fetch := func(ctx context.Context, req apim.PageRequest) (*apim.AuditPage, error) {
		q := base
		q.Page = req.Page
		q.Size = req.Size

		return c.List(ctx, &q)
	}

	pages := apim.Paginate(ctx, fetch, first, apim.PageCounter(func(p *apim.AuditPage) apim.PageInfo {
		return p.Page
	}))

	return apim.Flatten(pages, func(p *apim.AuditPage) []apim.AuditEvent { return p.Content })
}
