// pattern: Imperative Shell

package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"opsdash/internal/instance"
)

// ErrStatus marks a non-2xx response from the metrics endpoint.
var ErrStatus = instance.ErrStatus

// Getter performs a cache-bypassing GET.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client reads samples from the metrics endpoint.
type Client struct {
	url    string
	getter Getter
}

// NewClient creates a client for the full endpoint URL (e.g.
// http://host:5000/api/sys).
func NewClient(url string, getter Getter) *Client {
	if getter == nil {
		getter = instance.NewClient(0)
	}
	return &Client{url: url, getter: getter}
}

// Fetch requests one sample. Network failures, non-2xx statuses and bodies
// that are not a JSON object are errors.
func (c *Client) Fetch(ctx context.Context) (Sample, error) {
	body, err := c.getter.Get(ctx, c.url)
	if err != nil {
		return Sample{}, err
	}
	var s Sample
	if err := json.Unmarshal(body, &s); err != nil {
		return Sample{}, fmt.Errorf("decode metrics sample: %w", err)
	}
	return s, nil
}
