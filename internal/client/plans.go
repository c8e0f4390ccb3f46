package client

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apihttp "github.com/abourdon/gravitee-toolbox-sub000/internal/http"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
)

// PlansClient implements apim.PlansClient.
type PlansClient struct {
	httpClient *apihttp.Client
}

// NewPlansClient creates a new plans client.
func NewPlansClient(httpClient *apihttp.Client) *PlansClient {
	return &PlansClient{httpClient: httpClient}
}

// List implements apim.PlansClient.List. Plans come back as a plain
// collection, never paginated.
func (c *PlansClient) List(ctx context.Context, apiID string) ([]apim.Plan, error) {
	resp, err := c.httpClient.Get(ctx, "/apis/"+apiID+"/plans", nil)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	var plans []apim.Plan
	if err := json.Unmarshal(resp.Body, &plans); err != nil {
		return nil, fmt.Errorf("parsing plans response: %w", err)
	}

	return plans, nil
}

// Search implements apim.PlansClient.Search.
func (c *PlansClient) Search(ctx context.Context, apiID, namePattern, security string) ([]apim.Plan, error) {
	plans, err := c.List(ctx, apiID)
	if err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if namePattern != "" {
		re, err = regexp.Compile("(?i)" + namePattern)
		if err != nil {
			return nil, &apim.ValidationError{Filter: "plan-name", Detail: err.Error()}
		}
	}

	var matched []apim.Plan

	for _, plan := range plans {
		if re != nil && !re.MatchString(plan.Name) {
			continue
		}

		if security != "" && !strings.EqualFold(plan.Security, security) {
			continue
		}

		matched = append(matched, plan)
	}

	return matched, nil
}
