package places

import "errors"

var (
	// ErrNetworkError indicates the Places API could not be reached
	ErrNetworkError = errors.New("places: network error")
	// ErrAPIError indicates the Places API returned a non-OK status
	ErrAPIError = errors.New("places: api error")
	// ErrNotConfigured indicates the API key is missing
	ErrNotConfigured = errors.New("places: api key not configured")
)
