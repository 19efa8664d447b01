// Package kvstore is a minimal client for an Upstash-style REST
// key-value store. One outbound call per operation, bounded timeout, no
// internal retries; the caller owns the fallback behavior.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for keys the store does not hold.
var ErrNotFound = errors.New("key not found")

// requestTimeout bounds every call to the store
const requestTimeout = 10 * time.Second

// Client talks to one key-value store instance.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for the store at baseURL authorized by token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// storeResponse is the REST store's envelope; result is null for missing
// keys, a string otherwise
type storeResponse struct {
	Result *string `json:"result"`
	Error  string  `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, method, path string) (*storeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from store", resp.StatusCode)
	}

	var sr storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode store response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("store error: %s", sr.Error)
	}
	return &sr, nil
}

// Get fetches the value stored under key. Missing keys yield ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	sr, err := c.call(ctx, http.MethodGet, "/get/"+url.PathEscape(key))
	if err != nil {
		return "", err
	}
	if sr.Result == nil {
		return "", ErrNotFound
	}
	return *sr.Result, nil
}

// Set stores value under key. A positive ttl bounds the entry's lifetime
// in the store; zero keeps it until overwritten.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	path := fmt.Sprintf("/set/%s/%s", url.PathEscape(key), url.PathEscape(value))
	if ttl > 0 {
		path += fmt.Sprintf("?EX=%d", int(ttl.Seconds()))
	}
	_, err := c.call(ctx, http.MethodPost, path)
	return err
}

// SelfTest verifies connectivity by writing a throwaway key and reading
// it back, confirming round-trip equality. The key expires on its own.
func (c *Client) SelfTest(ctx context.Context) error {
	key := "selftest-" + uuid.NewString()
	value := uuid.NewString()

	if err := c.Set(ctx, key, value, time.Minute); err != nil {
		return fmt.Errorf("self-test set: %w", err)
	}
	got, err := c.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("self-test get: %w", err)
	}
	if got != value {
		return fmt.Errorf("self-test mismatch: wrote %q, read %q", value, got)
	}
	return nil
}
