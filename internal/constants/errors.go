package constants

import "errors"

// Configuration errors.
var (
	ErrNoURLConfigured  = errors.New("no management API URL configured, use 'gravitee login --url' or 'gravitee config set url'")
	ErrNotLoggedIn      = errors.New("not logged in, run 'gravitee login' first")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)

// Command argument errors.
var (
	ErrApiIDRequired       = errors.New("API id is required")
	ErrDefinitionRequired  = errors.New("a definition file is required")
	ErrUnknownOutputFormat = errors.New("unknown output format")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrAborted             = errors.New("aborted")
)
