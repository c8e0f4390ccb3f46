package apim

import "encoding/json"

// Api represents a shallow API definition as returned by collection listings.
type Api struct {
	ID          string        `json:"id"                    yaml:"id"`
	Name        string        `json:"name"                  yaml:"name"`
	Version     string        `json:"version"               yaml:"version"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	ContextPath string        `json:"context_path"          yaml:"context_path"`
	State       string        `json:"state"                 yaml:"state"`
	Visibility  string        `json:"visibility,omitempty"  yaml:"visibility,omitempty"`
	Owner       *PrimaryOwner `json:"owner,omitempty"       yaml:"owner,omitempty"`
	CreatedAt   int64         `json:"created_at,omitempty"  yaml:"created_at,omitempty"`
	UpdatedAt   int64         `json:"updated_at,omitempty"  yaml:"updated_at,omitempty"`
}

// PrimaryOwner identifies the user owning a resource.
type PrimaryOwner struct {
	ID          string `json:"id"                    yaml:"id"`
	DisplayName string `json:"displayName"           yaml:"displayName"`
	Email       string `json:"email,omitempty"       yaml:"email,omitempty"`
}

// ApiDetail is the full API definition, as returned by the export endpoint.
type ApiDetail struct {
	Api

	Proxy Proxy  `json:"proxy"           yaml:"proxy"`
	Plans []Plan `json:"plans,omitempty" yaml:"plans,omitempty"`
	Flows []Flow `json:"flows,omitempty" yaml:"flows,omitempty"`
}

// ApiExport carries a decoded API detail together with the raw payload it was
// decoded from. The raw bytes back structural-query filters and re-import.
type ApiExport struct {
	Detail ApiDetail
	Raw    []byte
}

// EnrichedApi is a shallow Api plus its lazily-fetched export. Export stays
// nil until a deep filter forces the fetch; once set it is reused for every
// remaining deep filter in the same pipeline pass.
type EnrichedApi struct {
	Api    Api
	Export *ApiExport
}

// Proxy holds the gateway-facing configuration of an API.
type Proxy struct {
	ContextPath string          `json:"context_path"     yaml:"context_path"`
	Groups      []EndpointGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// EndpointGroup is a named set of backend endpoints.
type EndpointGroup struct {
	Name      string     `json:"name"                yaml:"name"`
	Endpoints []Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// Endpoint is a single backend target.
type Endpoint struct {
	Name   string `json:"name"             yaml:"name"`
	Target string `json:"target"           yaml:"target"`
	Type   string `json:"type,omitempty"   yaml:"type,omitempty"`
	Backup bool   `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// Plan represents a subscription plan attached to an API.
type Plan struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Security    string `json:"security"              yaml:"security"`
	Status      string `json:"status,omitempty"      yaml:"status,omitempty"`
	Order       int    `json:"order,omitempty"       yaml:"order,omitempty"`
	Flows       []Flow `json:"flows,omitempty"       yaml:"flows,omitempty"`
}

// Flow is an ordered chain of policies applied to matching requests.
type Flow struct {
	Name string       `json:"name,omitempty" yaml:"name,omitempty"`
	Path string       `json:"path,omitempty" yaml:"path,omitempty"`
	Pre  []PolicyStep `json:"pre,omitempty"  yaml:"pre,omitempty"`
	Post []PolicyStep `json:"post,omitempty" yaml:"post,omitempty"`
}

// PolicyStep is a single policy invocation within a flow. Policy holds the
// technical policy name (e.g. "rate-limit"); Configuration is kept raw since
// its schema is policy-specific.
type PolicyStep struct {
	Name          string          `json:"name,omitempty"          yaml:"name,omitempty"`
	Policy        string          `json:"policy"                  yaml:"policy"`
	Configuration json.RawMessage `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Enabled       bool            `json:"enabled"                 yaml:"enabled"`
}

// Application represents a consumer application.
type Application struct {
	ID          string        `json:"id"                    yaml:"id"`
	Name        string        `json:"name"                  yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string        `json:"type,omitempty"        yaml:"type,omitempty"`
	Status      string        `json:"status,omitempty"      yaml:"status,omitempty"`
	Owner       *PrimaryOwner `json:"owner,omitempty"       yaml:"owner,omitempty"`
}

// Subscription links an application to a plan of an API.
type Subscription struct {
	ID          string `json:"id"                    yaml:"id"`
	Api         string `json:"api"                   yaml:"api"`
	Plan        string `json:"plan"                  yaml:"plan"`
	Application string `json:"application"           yaml:"application"`
	Status      string `json:"status"                yaml:"status"`
	CreatedAt   int64  `json:"created_at,omitempty"  yaml:"created_at,omitempty"`
	ProcessedAt int64  `json:"processed_at,omitempty" yaml:"processed_at,omitempty"`
}

// AuditEvent is a single control-plane audit record.
type AuditEvent struct {
	ID            string            `json:"id"                   yaml:"id"`
	Event         string            `json:"event"                yaml:"event"`
	ReferenceType string            `json:"referenceType"        yaml:"referenceType"`
	ReferenceID   string            `json:"referenceId"          yaml:"referenceId"`
	User          string            `json:"user"                 yaml:"user"`
	CreatedAt     int64             `json:"createdAt"            yaml:"createdAt"`
	Properties    map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// LogEntry is a single gateway request log record.
type LogEntry struct {
	ID           string `json:"id"                     yaml:"id"`
	Timestamp    int64  `json:"timestamp"              yaml:"timestamp"`
	Api          string `json:"api,omitempty"          yaml:"api,omitempty"`
	Method       string `json:"method"                 yaml:"method"`
	Path         string `json:"path"                   yaml:"path"`
	Status       int    `json:"status"                 yaml:"status"`
	ResponseTime int64  `json:"responseTime,omitempty" yaml:"responseTime,omitempty"`
}

// QualityScore is the quality rating computed by the control plane for an
// API. Rule evaluation happens server-side; the client only reads the result.
type QualityScore struct {
	Score int            `json:"score"           yaml:"score"`
	Rules map[string]int `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// User represents the authenticated principal.
type User struct {
	ID          string `json:"id"              yaml:"id"`
	Username    string `json:"username"        yaml:"username"`
	DisplayName string `json:"displayName"     yaml:"displayName"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// PageInfo carries the pagination counters of a page-counter style envelope.
type PageInfo struct {
	Current       int `json:"current"        yaml:"current"`
	Size          int `json:"size"           yaml:"size"`
	TotalPages    int `json:"total_pages"    yaml:"total_pages"`
	TotalElements int `json:"total_elements" yaml:"total_elements"`
}

// PaginationCounts carries the counters of a count-remaining style envelope,
// which reports a grand total but no page count.
type PaginationCounts struct {
	Size  int `json:"size"  yaml:"size"`
	Total int `json:"total" yaml:"total"`
}

// CollectionMetadata wraps PaginationCounts in the envelope's metadata field.
type CollectionMetadata struct {
	Pagination PaginationCounts `json:"pagination" yaml:"pagination"`
}

// ApisPage is one page of the APIs collection (page-counter style).
type ApisPage struct {
	Data []Api    `json:"data" yaml:"data"`
	Page PageInfo `json:"page" yaml:"page"`
}

// ApplicationsPage is one page of the applications collection.
type ApplicationsPage struct {
	Data []Application `json:"data" yaml:"data"`
	Page PageInfo      `json:"page" yaml:"page"`
}

// AuditPage is one page of the audit trail (page-counter style).
type AuditPage struct {
	Content []AuditEvent `json:"content" yaml:"content"`
	Page    PageInfo     `json:"page"    yaml:"page"`
}

// SubscriptionsPage is one page of an API's subscriptions (count-remaining
// style: the envelope reports a grand total, not a page count).
type SubscriptionsPage struct {
	Data     []Subscription     `json:"data"     yaml:"data"`
	Metadata CollectionMetadata `json:"metadata" yaml:"metadata"`
}

// LogsPage is one page of gateway logs (cursor style: the next page is
// requested with the timestamp of the last entry, exhaustion is an empty
// page).
type LogsPage struct {
	Logs  []LogEntry `json:"logs"            yaml:"logs"`
	Total int64      `json:"total,omitempty" yaml:"total,omitempty"`
}
