package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations such as login.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default attempt budget for idempotent requests.
	DefaultRetryMax = 3

	// DefaultRetryWait is the fixed delay between attempts.
	DefaultRetryWait = 2 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 50

	// DefaultLogsPageSize is the default page size for gateway log listings.
	DefaultLogsPageSize = 100
)

// Emission throttling.
const (
	// DefaultSearchDelay is the pause between emissions during detail-heavy
	// scans; keeps bulk exports from hammering the control plane.
	DefaultSearchDelay = 50 * time.Millisecond
)

// Token lifetime.
const (
	// TokenExpirationBuffer is the slack subtracted from a token's expiry so
	// a request never leaves with a token about to lapse mid-flight.
	TokenExpirationBuffer = 30 * time.Second

	// DefaultTokenValidity is assumed when the login response carries no
	// expiry information.
	DefaultTokenValidity = 30 * time.Minute
)

// Output format constants.
const (
	// FormatTable for human-readable table output.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// API lifecycle states.
const (
	// StateStarted indicates a deployed, serving API.
	StateStarted = "STARTED"

	// StateStopped indicates a stopped API.
	StateStopped = "STOPPED"
)

// Subscription statuses.
const (
	// SubscriptionAccepted indicates an active subscription.
	SubscriptionAccepted = "ACCEPTED"

	// SubscriptionPending indicates a subscription awaiting approval.
	SubscriptionPending = "PENDING"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndent is the indentation used for JSON output.
	JSONIndent = "  "
)
