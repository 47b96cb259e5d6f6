// pattern: Imperative Shell

package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"opsdash/internal/logging"
)

const (
	// EventLogLine is the only push event the dashboard consumes.
	EventLogLine = "log_line"

	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second
	readLimit         = 1 << 20
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type logLineData struct {
	Line *string `json:"line"`
}

// DecodeFrame extracts the line carried by a push frame. ok is false for
// frames of other events. A log_line frame without a string line is an error.
func DecodeFrame(data []byte) (line string, ok bool, err error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return "", false, fmt.Errorf("decode frame: %w", err)
	}
	if f.Event != EventLogLine {
		return "", false, nil
	}
	var d logLineData
	if len(f.Data) == 0 {
		return "", false, fmt.Errorf("log_line frame without data")
	}
	if err := json.Unmarshal(f.Data, &d); err != nil {
		return "", false, fmt.Errorf("decode log_line data: %w", err)
	}
	if d.Line == nil {
		return "", false, fmt.Errorf("log_line frame without line")
	}
	return *d.Line, true, nil
}

// WSOptions tunes the websocket client.
type WSOptions struct {
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Logger     *logging.ScopedLogger
}

// WSClient subscribes to the push channel and reconnects until cancelled.
type WSClient struct {
	url        string
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     *logging.ScopedLogger
}

// NewWSClient creates a client for the given ws:// or wss:// URL.
func NewWSClient(url string, opts WSOptions) *WSClient {
	c := &WSClient{
		url:        url,
		minBackoff: opts.MinBackoff,
		maxBackoff: opts.MaxBackoff,
		logger:     opts.Logger,
	}
	if c.minBackoff <= 0 {
		c.minBackoff = defaultMinBackoff
	}
	if c.maxBackoff < c.minBackoff {
		c.maxBackoff = max(defaultMaxBackoff, c.minBackoff)
	}
	if c.logger == nil {
		c.logger = logging.NopLogger()
	}
	return c
}

// Run connects, forwards log lines to out and reconnects with capped
// exponential backoff. It returns nil once ctx is cancelled.
func (c *WSClient) Run(ctx context.Context, out chan<- LogLine) error {
	backoff := c.minBackoff
	for {
		delivered, err := c.session(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		if delivered {
			backoff = c.minBackoff
		}
		c.logger.Warn("push channel disconnected", "url", c.url, "error", err, "retry_in", backoff.String())

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		backoff = min(backoff*2, c.maxBackoff)
	}
}

// session runs one connection. delivered reports whether the connection was
// established, which resets the backoff.
func (c *WSClient) session(ctx context.Context, out chan<- LogLine) (delivered bool, err error) {
	header := http.Header{}
	header.Set("Cache-Control", "no-cache")
	header.Set("Pragma", "no-cache")

	conn, _, err := websocket.Dial(ctx, c.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.CloseNow() }()
	conn.SetReadLimit(readLimit)

	c.logger.Info("push channel connected", "url", c.url)

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return true, errors.New("closed by server")
			}
			return true, err
		}
		if msgType != websocket.MessageText {
			continue
		}

		line, ok, err := DecodeFrame(data)
		if err != nil {
			c.logger.Warn("skipping malformed push frame", "error", err)
			continue
		}
		if !ok {
			continue
		}
		if !emit(ctx, out, line) {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return true, ctx.Err()
		}
	}
}
