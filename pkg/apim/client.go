package apim

import (
	"context"
	"time"
)

// ApisClient operates on the /apis resource family.
type ApisClient interface {
	// List fetches one page of the collection.
	List(ctx context.Context, params *QueryParams) (*ApisPage, error)
	// ListAll streams every API, driving pagination lazily.
	ListAll(ctx context.Context, params *QueryParams) *ItemIterator[Api]
	// Search streams every API passing the filter, deduplicated, in listing
	// order. Deep filter fields fetch and cache the export per candidate.
	Search(ctx context.Context, filter *ApiFilter, opts *SearchOptions) (*ItemIterator[EnrichedApi], error)
	Get(ctx context.Context, apiID string) (*Api, error)
	// Export retrieves the full API definition, raw payload included.
	Export(ctx context.Context, apiID string) (*ApiExport, error)
	// Import creates or updates an API from an export payload.
	Import(ctx context.Context, definition []byte) (*Api, error)
	Update(ctx context.Context, apiID string, definition []byte) (*Api, error)
	// UpdateBySearch applies transform to the single API matching the filter.
	// Zero or several matches fail with a ValidationError listing candidates.
	UpdateBySearch(ctx context.Context, filter *ApiFilter, transform func(raw []byte) ([]byte, error)) (*Api, error)
	Delete(ctx context.Context, apiID string) error
	// Deploy pushes the current definition to the gateways.
	Deploy(ctx context.Context, apiID string) error
	Start(ctx context.Context, apiID string) error
	Stop(ctx context.Context, apiID string) error
	// Logs streams gateway request logs, paginated by search-after cursor.
	Logs(ctx context.Context, apiID string, query *LogsQuery) *ItemIterator[LogEntry]
	Quality(ctx context.Context, apiID string) (*QualityScore, error)
}

// ApplicationsClient operates on the /applications resource family.
type ApplicationsClient interface {
	List(ctx context.Context, params *QueryParams) (*ApplicationsPage, error)
	ListAll(ctx context.Context, params *QueryParams) *ItemIterator[Application]
	Get(ctx context.Context, appID string) (*Application, error)
	// Search streams applications whose name matches the case-insensitive
	// pattern; an empty pattern matches everything.
	Search(ctx context.Context, namePattern string) (*ItemIterator[Application], error)
}

// PlansClient operates on the plans of one API.
type PlansClient interface {
	List(ctx context.Context, apiID string) ([]Plan, error)
	// Search filters plans by name and security type, both optional
	// case-insensitive patterns.
	Search(ctx context.Context, apiID, namePattern, security string) ([]Plan, error)
}

// SubscriptionsClient operates on the subscriptions of one API.
type SubscriptionsClient interface {
	List(ctx context.Context, apiID string, params *QueryParams) (*SubscriptionsPage, error)
	ListAll(ctx context.Context, apiID string, params *QueryParams) *ItemIterator[Subscription]
	Create(ctx context.Context, apiID, appID, planID string) (*Subscription, error)
	// CreateAll subscribes every application to every plan, in application
	// order then plan order over the materialized input sets.
	CreateAll(ctx context.Context, apiID string, apps []Application, plans []Plan) ([]Subscription, error)
}

// AuditClient reads the organization audit trail.
type AuditClient interface {
	List(ctx context.Context, query *AuditQuery) (*AuditPage, error)
	ListAll(ctx context.Context, query *AuditQuery) *ItemIterator[AuditEvent]
}

// UsersClient reads the authenticated principal.
type UsersClient interface {
	Current(ctx context.Context) (*User, error)
}

// Client provides access to every resource family of the management API.
type Client interface {
	Apis() ApisClient
	Applications() ApplicationsClient
	Plans() PlansClient
	Subscriptions() SubscriptionsClient
	Audit() AuditClient
	Users() UsersClient

	// Login authenticates with the configured credentials and caches the
	// resulting bearer token.
	Login(ctx context.Context) error
	// Logout invalidates the server-side session and drops the cached token.
	Logout(ctx context.Context) error
	// Token returns the current bearer token, obtaining one if necessary.
	Token(ctx context.Context) (string, error)
}

// SearchOptions tunes a filtered listing.
type SearchOptions struct {
	// PageSize overrides the page size used while walking the collection.
	PageSize int
	// Delay is the minimum pause between consecutive emissions, protecting
	// the control plane during detail-heavy scans. Zero disables throttling.
	Delay time.Duration
	// OnDetailError selects the reaction to a failing export fetch.
	OnDetailError DetailErrorMode
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Authentication precedence
//
//  1. Token: if set, used directly as a static Bearer token; Login is a no-op
//     and RefreshToken fails.
//  2. Username/Password: a bearer token is obtained from the management API
//     login endpoint with HTTP Basic credentials, cached, and re-obtained on
//     refresh.
//  3. No credentials: requests are sent without authentication.
//
// # Timeouts, retries, and TLS
//
// Per-request timeouts are controlled via the context passed to client
// methods. Retries apply to idempotent requests only, with a fixed delay
// between attempts. TLS verification is disabled by default since most
// deployments run self-signed management endpoints; set StrictTLS to
// re-enable it.
type Config struct {
	// BaseURL is the management API root, e.g.
	// "https://gravitee.example.com/management/organizations/DEFAULT/environments/DEFAULT".
	BaseURL string

	// Username for the login endpoint.
	Username string
	// Password for the login endpoint.
	Password string
	// Token is a pre-obtained bearer token used as-is.
	Token string

	// Headers are added to every request; per-request headers win.
	Headers map[string]string
	// RetryMax is the attempt budget for idempotent requests. Zero keeps the
	// default.
	RetryMax int
	// RetryWait is the fixed delay between attempts. Zero keeps the default.
	RetryWait time.Duration
	// StrictTLS re-enables certificate verification.
	StrictTLS bool
	// Debug enables request/response logging when a Logger is set.
	Debug bool
	// Logger receives structured log events from the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
