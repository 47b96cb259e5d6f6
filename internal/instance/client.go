// pattern: Imperative Shell

package instance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrStatus marks a response with a non-2xx status code.
var ErrStatus = errors.New("unexpected status")

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 16 << 20
)

// Client is a thin HTTP client for the server the dashboard monitors. Every
// request bypasses intermediate caches.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client whose requests time out after timeout
// (10s when zero).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Get fetches url and returns the response body. Non-2xx responses wrap
// ErrStatus.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, extractErrorMessage(body))
	}

	return body, nil
}

// extractErrorMessage pulls "error" out of a JSON error body, falling back
// to the raw (trimmed) body.
func extractErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
