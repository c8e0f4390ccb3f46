package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// SubscriptionsClient implements apim.SubscriptionsClient.
type SubscriptionsClient struct {
	httpClient *apihttp.Client
}

// NewSubscriptionsClient creates a new subscriptions client.
func NewSubscriptionsClient(httpClient *apihttp.Client) *SubscriptionsClient {
	return &SubscriptionsClient{httpClient: httpClient}
}

// List implements apim.SubscriptionsClient.List.
func (c *SubscriptionsClient) List(ctx context.Context, apiID string, params *apim.QueryParams) (*apim.SubscriptionsPage, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, "/apis/"+apiID+"/subscriptions", query)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	var page apim.SubscriptionsPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing subscriptions list response: %w", err)
	}

	return &page, nil
}

// ListAll implements apim.SubscriptionsClient.ListAll. The envelope reports
// a grand total but no page count, so exhaustion is tracked by subtracting
// the page size from the remaining total.
func (c *SubscriptionsClient) ListAll(ctx context.Context, apiID string, params *apim.QueryParams) *apim.ItemIterator[apim.Subscription] {
	base := cloneParams(params)

	fetch := func(ctx context.Context, req apim.PageRequest) (*apim.SubscriptionsPage, error) {
		q := *base
		q.Page = req.Page
		q.Size = req.Size

		return c.List(ctx, apiID, &q)
	}

	strategy := apim.CountRemaining(func(p *apim.SubscriptionsPage) apim.PageInfo {
		return apim.PageInfo{
			Size:          p.Metadata.Pagination.Size,
			TotalElements: p.Metadata.Pagination.Total,
		}
	})

	pages := apim.Paginate(ctx, fetch, firstPage(base), strategy)

	return apim.Flatten(pages, func(p *apim.SubscriptionsPage) []apim.Subscription { return p.Data })
}

// Create implements apim.SubscriptionsClient.Create.
func (c *SubscriptionsClient) Create(ctx context.Context, apiID, appID, planID string) (*apim.Subscription, error) {
	req := &apihttp.Request{
		Method: "POST",
		Path:   "/apis/" + apiID + "/subscriptions",
		Query: url.Values{
			"application": []string{appID},
			"plan":        []string{planID},
		},
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	var sub apim.Subscription
	if err := json.Unmarshal(resp.Body, &sub); err != nil {
		return nil, fmt.Errorf("parsing subscription response: %w", err)
	}

	return &sub, nil
}

// CreateAll implements apim.SubscriptionsClient.CreateAll. The cross-product
// runs over the materialized inputs in application order then plan order, so
// a given pair of inputs always produces the same creation sequence.
func (c *SubscriptionsClient) CreateAll(ctx context.Context, apiID string, apps []apim.Application, plans []apim.Plan) ([]apim.Subscription, error) {
	created := make([]apim.Subscription, 0, len(apps)*len(plans))

	for _, app := range apps {
		for _, plan := range plans {
			sub, err := c.Create(ctx, apiID, app.ID, plan.ID)
			if err != nil {
				return created, fmt.Errorf("subscribing application %s to plan %s: %w", app.Name, plan.Name, err)
			}

			created = append(created, *sub)
		}
	}

	return created, nil
}
