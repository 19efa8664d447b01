// Package trakt talks to the trakt.tv API v2: authenticated sync writes
// (history, ratings, watchlist), public stats reads and the OAuth token
// flow. Writes go over a plain client with no retries; reads are
// idempotent and go over a retrying client.
package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// API endpoints, overridable for tests
const (
	DefaultAPIURL  = "https://api.trakt.tv"
	DefaultAuthURL = "https://trakt.tv"
)

// Client is a trakt.tv API client bound to one application (client id and
// secret); the per-user access token is passed per call.
type Client struct {
	apiURL       string
	authURL      string
	clientID     string
	clientSecret string

	writeClient *http.Client // single attempt
	readClient  *http.Client // retries on 5xx and connection errors
}

// Opts configures a Client; zero values take defaults.
type Opts struct {
	APIURL       string
	AuthURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// New creates a trakt client.
func New(opts Opts) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}

	return &Client{
		apiURL:       opts.APIURL,
		authURL:      opts.AuthURL,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		writeClient:  &http.Client{Timeout: opts.Timeout},
		readClient:   retryingClient(opts.Timeout),
	}
}

// retryingClient builds an http.Client with retry logic inside, for
// idempotent reads only. Retries connection errors and 5xx.
func retryingClient(timeout time.Duration) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = retryColorLogger{}
	client := rc.StandardClient()
	client.Timeout = timeout
	return client
}

// retryColorLogger routes retryablehttp's leveled output into the lgr
// bridge, demoting intermediate errors to warnings.
type retryColorLogger struct{}

func (retryColorLogger) Error(msg string, kv ...interface{}) { log.Printf("[WARN] %s %v", msg, kv) }
func (retryColorLogger) Warn(msg string, kv ...interface{})  { log.Printf("[WARN] %s %v", msg, kv) }
func (retryColorLogger) Info(msg string, kv ...interface{})  { log.Printf("[DEBUG] %s %v", msg, kv) }
func (retryColorLogger) Debug(msg string, kv ...interface{}) { log.Printf("[DEBUG] %s %v", msg, kv) }

// apiHeaders sets the headers every trakt API call needs. Token may be
// empty for public endpoints.
func (c *Client) apiHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// doJSON issues a request and decodes the JSON response into out (skipped
// when out is nil). Non-2xx responses become errors carrying the status.
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, url, token string, body, out interface{}) error {
	var rdr io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.apiHeaders(req, token)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", url, err)
		}
	}
	return nil
}
