package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// ApisClient implements apim.ApisClient.
type ApisClient struct {
	httpClient *apihttp.Client
}

// NewApisClient creates a new APIs client.
func NewApisClient(httpClient *apihttp.Client) *ApisClient {
	return &ApisClient{httpClient: httpClient}
}

// List implements apim.ApisClient.List.
func (c *ApisClient) List(ctx context.Context, params *apim.QueryParams) (*apim.ApisPage, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/apis", query)
	if err != nil {
		return nil, fmt.Errorf("listing APIs: %w", err)
	}

	var page apim.ApisPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing APIs list response: %w", err)
	}

	return &page, nil
}

// ListAll implements apim.ApisClient.ListAll.
func (c *ApisClient) ListAll(ctx context.Context, params *apim.QueryParams) *apim.ItemIterator[apim.Api] {
	base := cloneParams(params)

	fetch := func(ctx context.Context, req apim.PageRequest) (*apim.ApisPage, error) {
		q := *base
		q.Page = req.Page
		q.Size = req.Size

		return c.List(ctx, &q)
	}

	pages := apim.Paginate(ctx, fetch, firstPage(base), apim.PageCounter(pageOfApis))

	return apim.Flatten(pages, func(p *apim.ApisPage) []apim.Api { return p.Data })
}

// Search implements apim.ApisClient.Search.
func (c *ApisClient) Search(ctx context.Context, filter *apim.ApiFilter, opts *apim.SearchOptions) (*apim.ItemIterator[apim.EnrichedApi], error) {
	if filter == nil {
		filter = &apim.ApiFilter{}
	}

	if opts == nil {
		opts = &apim.SearchOptions{}
	}

	pipeline, err := filter.Build(c.fetchExport, apim.OnDetailError(opts.OnDetailError))
	if err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	items := c.ListAll(ctx, apim.NewQueryParams().WithSize(pageSize))

	out := pipeline.Run(ctx, items)
	if opts.Delay > 0 {
		out = apim.Throttle(ctx, out, opts.Delay)
	}

	return out, nil
}

// fetchExport is the enrichment fetcher handed to filter pipelines.
func (c *ApisClient) fetchExport(ctx context.Context, api apim.Api) (*apim.ApiExport, error) {
	return c.Export(ctx, api.ID)
}

// Get implements apim.ApisClient.Get.
func (c *ApisClient) Get(ctx context.Context, apiID string) (*apim.Api, error) {
	resp, err := c.httpClient.Get(ctx, "/apis/"+apiID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting API: %w", err)
	}

	var api apim.Api
	if err := json.Unmarshal(resp.Body, &api); err != nil {
		return nil, fmt.Errorf("parsing API response: %w", err)
	}

	return &api, nil
}

// Export implements apim.ApisClient.Export. The raw payload is kept
// alongside the decoded detail for structural queries and re-import.
func (c *ApisClient) Export(ctx context.Context, apiID string) (*apim.ApiExport, error) {
	resp, err := c.httpClient.Get(ctx, "/apis/"+apiID+"/export", nil)
	if err != nil {
		return nil, fmt.Errorf("exporting API: %w", err)
	}

	export := &apim.ApiExport{Raw: resp.Body}
	if err := json.Unmarshal(resp.Body, &export.Detail); err != nil {
		return nil, fmt.Errorf("parsing API export: %w", err)
	}

	return export, nil
}

// Import implements apim.ApisClient.Import.
func (c *ApisClient) Import(ctx context.Context, definition []byte) (*apim.Api, error) {
	resp, err := c.httpClient.Post(ctx, "/apis/import", definition)
	if err != nil {
		return nil, fmt.Errorf("importing API: %w", err)
	}

	var api apim.Api
	if err := json.Unmarshal(resp.Body, &api); err != nil {
		return nil, fmt.Errorf("parsing import response: %w", err)
	}

	return &api, nil
}

// Update implements apim.ApisClient.Update.
func (c *ApisClient) Update(ctx context.Context, apiID string, definition []byte) (*apim.Api, error) {
	resp, err := c.httpClient.Put(ctx, "/apis/"+apiID, definition)
	if err != nil {
		return nil, fmt.Errorf("updating API: %w", err)
	}

	var api apim.Api
	if err := json.Unmarshal(resp.Body, &api); err != nil {
		return nil, fmt.Errorf("parsing update response: %w", err)
	}

	return &api, nil
}

// UpdateBySearch implements apim.ApisClient.UpdateBySearch. The filter must
// resolve to exactly one API; anything else is a caller error, reported with
// the ambiguous candidates when there are several.
func (c *ApisClient) UpdateBySearch(ctx context.Context, filter *apim.ApiFilter, transform func(raw []byte) ([]byte, error)) (*apim.Api, error) {
	it, err := c.Search(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	matches, err := it.All()
	if err != nil {
		return nil, fmt.Errorf("resolving update target: %w", err)
	}

	if len(matches) == 0 {
		return nil, &apim.ValidationError{Detail: "no API matches the filter"}
	}

	if len(matches) > 1 {
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, fmt.Sprintf("%s (%s)", m.Api.Name, m.Api.ID))
		}

		return nil, &apim.ValidationError{Matches: names, Detail: "filter must resolve to exactly one API"}
	}

	target := matches[0]

	export := target.Export
	if export == nil {
		export, err = c.Export(ctx, target.Api.ID)
		if err != nil {
			return nil, err
		}
	}

	updated, err := transform(export.Raw)
	if err != nil {
		return nil, fmt.Errorf("transforming API definition: %w", err)
	}

	return c.Update(ctx, target.Api.ID, updated)
}

// Delete implements apim.ApisClient.Delete.
func (c *ApisClient) Delete(ctx context.Context, apiID string) error {
	_, err := c.httpClient.Delete(ctx, "/apis/"+apiID)
	if err != nil {
		return fmt.Errorf("deleting API: %w", err)
	}

	return nil
}

// Deploy implements apim.ApisClient.Deploy.
func (c *ApisClient) Deploy(ctx context.Context, apiID string) error {
	_, err := c.httpClient.Post(ctx, "/apis/"+apiID+"/deploy", nil)
	if err != nil {
		return fmt.Errorf("deploying API: %w", err)
	}

	return nil
}

// Start implements apim.ApisClient.Start.
func (c *ApisClient) Start(ctx context.Context, apiID string) error {
	return c.lifecycle(ctx, apiID, "START")
}

// Stop implements apim.ApisClient.Stop.
func (c *ApisClient) Stop(ctx context.Context, apiID string) error {
	return c.lifecycle(ctx, apiID, "STOP")
}

func (c *ApisClient) lifecycle(ctx context.Context, apiID, action string) error {
	req := &apihttp.Request{
		Method: http.MethodPost,
		Path:   "/apis/" + apiID,
		Query:  url.Values{"action": []string{action}},
	}

	_, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("changing API lifecycle to %s: %w", action, err)
	}

	return nil
}

// Logs implements apim.ApisClient.Logs. Pages are chained by carrying the
// last entry's timestamp forward as the searchAfter cursor; an empty page
// ends the stream.
func (c *ApisClient) Logs(ctx context.Context, apiID string, query *apim.LogsQuery) *apim.ItemIterator[apim.LogEntry] {
	base := apim.LogsQuery{}
	if query != nil {
		base = *query
	}

	if base.Size <= 0 {
		base.Size = constants.DefaultLogsPageSize
	}

	fetch := func(ctx context.Context, req apim.PageRequest) (*apim.LogsPage, error) {
		q := base
		q.SearchAfter = req.Cursor

		resp, err := c.httpClient.Get(ctx, "/apis/"+apiID+"/logs", q.ToValues())
		if err != nil {
			return nil, fmt.Errorf("listing API logs: %w", err)
		}

		var page apim.LogsPage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("parsing API logs response: %w", err)
		}

		return &page, nil
	}

	first := apim.PageRequest{Size: base.Size, Cursor: base.SearchAfter}

	strategy := apim.CursorAfter(func(p *apim.LogsPage) (string, bool) {
		if len(p.Logs) == 0 {
			return "", false
		}

		return strconv.FormatInt(p.Logs[len(p.Logs)-1].Timestamp, 10), true
	})

	pages := apim.Paginate(ctx, fetch, first, strategy)

	return apim.Flatten(pages, func(p *apim.LogsPage) []apim.LogEntry { return p.Logs })
}

// Quality implements apim.ApisClient.Quality.
func (c *ApisClient) Quality(ctx context.Context, apiID string) (*apim.QualityScore, error) {
	resp, err := c.httpClient.Get(ctx, "/apis/"+apiID+"/quality", nil)
	if err != nil {
		return nil, fmt.Errorf("getting API quality: %w", err)
	}

	var score apim.QualityScore
	if err := json.Unmarshal(resp.Body, &score); err != nil {
		return nil, fmt.Errorf("parsing API quality response: %w", err)
	}

	return &score, nil
}

func pageOfApis(p *apim.ApisPage) apim.PageInfo {
	return p.Page
}
