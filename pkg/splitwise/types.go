package splitwise

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingToken is returned by NewClient when no access token is configured.
var ErrMissingToken = errors.New("SPLITWISE_ACCESS_TOKEN environment variable is required")

// Config defines Splitwise API client settings
type Config struct {
	AccessToken string
	BaseURL     string
	HTTPClient  *http.Client
}

// Client issues authenticated calls against the Splitwise v3.0 REST API
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Body is a form of request payload sent as JSON. Keys may be synthetic
// flattened keys such as users__0__email.
type Body map[string]any

// Params are query filters for GET endpoints.
type Params map[string]any

// APIError is the only error shape callers see from the client. StatusCode is
// zero when the request never produced an HTTP response.
type APIError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("splitwise: request failed: %v", e.Err)
	}
	return fmt.Sprintf("splitwise: API error (%d): %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
