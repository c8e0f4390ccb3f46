package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// ApplicationsClient implements apim.ApplicationsClient.
type ApplicationsClient struct {
	httpClient *apihttp.Client
}

// NewApplicationsClient creates a new applications client.
func NewApplicationsClient(httpClient *apihttp.Client) *ApplicationsClient {
	return &ApplicationsClient{httpClient: httpClient}
}

// List implements apim.ApplicationsClient.List.
func (c *ApplicationsClient) List(ctx context.Context, params *apim.QueryParams) (*apim.ApplicationsPage, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/applications", query)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	var page apim.ApplicationsPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing applications list response: %w", err)
	}

	return &page, nil
}

// ListAll implements apim.ApplicationsClient.ListAll.
func (c *ApplicationsClient) ListAll(ctx context.Context, params *apim.QueryParams) *apim.ItemIterator[apim.Application] {
	base := cloneParams(params)

	fetch := func(ctx context.Context, req apim.PageRequest) (*apim.ApplicationsPage, error) {
		q := *base
		q.Page = req.Page
		q.Size = req.Size

		return c.List(ctx, &q)
	}

	pages := apim.Paginate(ctx, fetch, firstPage(base), apim.PageCounter(pageOfApplications))

	return apim.Flatten(pages, func(p *apim.ApplicationsPage) []apim.Application { return p.Data })
}

// Get implements apim.ApplicationsClient.Get.
func (c *ApplicationsClient) Get(ctx context.Context, appID string) (*apim.Application, error) {
	resp, err := c.httpClient.Get(ctx, "/applications/"+appID, nil)
	if err != nil {
		return nil, fmt.Errorf("getting application: %w", err)
	}

	var app apim.Application
	if err := json.Unmarshal(resp.Body, &app); err != nil {
		return nil, fmt.Errorf("parsing application response: %w", err)
	}

	return &app, nil
}

// Search implements apim.ApplicationsClient.Search.
func (c *ApplicationsClient) Search(ctx context.Context, namePattern string) (*apim.ItemIterator[apim.Application], error) {
	items := c.ListAll(ctx, nil)

	if namePattern == "" {
		return items, nil
	}

	re, err := regexp.Compile("(?i)" + namePattern)
	if err != nil {
		return nil, &apim.ValidationError{Filter: "name", Detail: err.Error()}
	}

	return apim.FilterItems(items, func(app apim.Application) bool {
		return re.MatchString(app.Name)
	}), nil
}

func pageOfApplications(p *apim.ApplicationsPage) apim.PageInfo {
	return p.Page
}
