// Package trello is a minimal client for the Trello REST API: authenticated
// GET and POST with the key/token pair the API expects as query parameters,
// one attempt per call, and a closed set of failure kinds (HTTPError,
// TransportError, MalformedError) for the tool layer to match on.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// BaseURL is the Trello REST API root.
const BaseURL = "https://api.trello.com/1"

// requestTimeout bounds every upstream call. Fixed, not configurable per-call.
const requestTimeout = 10 * time.Second

// Config carries the credentials and API root for a Client. Values are
// read-only for the process lifetime after construction.
type Config struct {
	Key     string
	Token   string
	BaseURL string // defaults to BaseURL when empty
}

// ConfigFromEnv builds a Config from TRELLO_API_KEY and TRELLO_TOKEN.
// A missing or empty credential is a startup failure, not a per-call error;
// the caller is expected to refuse to start.
func ConfigFromEnv() (Config, error) {
	key := os.Getenv("TRELLO_API_KEY")
	token := os.Getenv("TRELLO_TOKEN")
	if key == "" || token == "" {
		return Config{}, errors.New("trello: TRELLO_API_KEY and TRELLO_TOKEN must be set in environment variables")
	}
	return Config{Key: key, Token: token, BaseURL: BaseURL}, nil
}

// Client performs authenticated calls against the Trello API. It holds only
// read-only configuration and is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient validates the credentials and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Key == "" || cfg.Token == "" {
		return nil, errors.New("trello: api key and token must not be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Fetch issues a GET to {baseURL}/{endpoint} with params merged with the
// credential fields and returns the decoded JSON body (object or array,
// endpoint-dependent). Side-effect free.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (any, error) {
	return c.do(ctx, http.MethodGet, endpoint, params)
}

// Create issues a POST to {baseURL}/{endpoint}. The Trello API accepts write
// parameters as query string rather than body, so params travel the same way
// as on Fetch. Causes an observable state change upstream.
func (c *Client) Create(ctx context.Context, endpoint string, params url.Values) (any, error) {
	return c.do(ctx, http.MethodPost, endpoint, params)
}

// do performs a single attempt: no retries, no backoff, no circuit breaking.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values) (any, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("key", c.cfg.Key)
	q.Set("token", c.cfg.Token)

	u := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, &MalformedError{Reason: "body is not valid JSON", Err: err}
	}
	return v, nil
}
