// pattern: Imperative Shell

// Package snapshot shows a one-shot copy of a text document, usually the
// server's configuration, as raw text or as a JSON tree.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"opsdash/internal/instance"
	"opsdash/internal/jsontree"
	"opsdash/internal/logging"
)

// View selects which rendering is visible.
type View int

const (
	ViewRaw View = iota
	ViewTree
)

func (v View) String() string {
	if v == ViewTree {
		return "tree"
	}
	return "raw"
}

var errNotPending = errors.New("no snapshot download pending")

// Fetcher retrieves the latest document body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Controller.
type Options struct {
	DownloadURL string
	Fetcher     Fetcher
	RootLabel   string
	Logger      *logging.ScopedLogger
}

// Controller owns the raw text, its tree and which of the two is shown.
// It is not safe for concurrent use; the dashboard drives it from its
// update loop.
type Controller struct {
	raw     string
	root    *jsontree.Node
	view    View
	url     string
	fetcher Fetcher
	label   string
	fetched bool
	logger  *logging.ScopedLogger
}

// New creates a Controller showing the raw view of empty content.
func New(opts Options) *Controller {
	c := &Controller{
		url:     opts.DownloadURL,
		fetcher: opts.Fetcher,
		label:   opts.RootLabel,
		logger:  opts.Logger,
	}
	if c.label == "" {
		c.label = "root"
	}
	if c.fetcher == nil {
		c.fetcher = instance.NewClient(0)
	}
	if c.logger == nil {
		c.logger = logging.NopLogger()
	}
	c.Load("")
	return c
}

// SetRoot implements jsontree.Container.
func (c *Controller) SetRoot(root *jsontree.Node) {
	c.root = root
}

// Load replaces the raw text and rebuilds the tree from it. Text that is not
// valid JSON yields the "Invalid JSON" placeholder and leaves raw untouched.
func (c *Controller) Load(text string) {
	c.raw = text
	value, err := jsontree.Parse(text)
	if err != nil {
		c.SetRoot(jsontree.Invalid())
		return
	}
	jsontree.Render(c, value, c.label, true)
}

// Fetch performs the single download of the latest content without applying
// it. It runs off the update loop; the caller hands the result to Apply. Once
// the download is no longer pending it fails without touching the network.
func (c *Controller) Fetch(ctx context.Context) ([]byte, error) {
	if !c.Pending() {
		return nil, errNotPending
	}
	return c.fetcher.Get(ctx, c.url)
}

// Pending reports whether the single download is still due.
func (c *Controller) Pending() bool {
	return c.url != "" && !c.fetched
}

// Apply records the outcome of a download started with Fetch and reports
// whether the content was replaced. Failures are logged and leave the
// current content as is.
func (c *Controller) Apply(body []byte, err error) bool {
	if !c.Pending() {
		return false
	}
	c.fetched = true
	if err != nil {
		c.logger.Warn("snapshot download failed, keeping current content", "url", c.url, "error", err)
		return false
	}
	c.Load(string(body))
	c.logger.Info("snapshot refreshed", "url", c.url, "bytes", len(body))
	return true
}

// Toggle switches between the raw and tree views.
func (c *Controller) Toggle() {
	if c.view == ViewRaw {
		c.view = ViewTree
	} else {
		c.view = ViewRaw
	}
}

// Visible returns the view currently shown.
func (c *Controller) Visible() View {
	return c.view
}

// ToggleLabel names the action the toggle will perform next.
func (c *Controller) ToggleLabel() string {
	if c.view == ViewRaw {
		return "Show tree"
	}
	return "Show raw"
}

// Raw returns the raw text.
func (c *Controller) Raw() string {
	return c.raw
}

// Tree returns the root of the rendered tree.
func (c *Controller) Tree() *jsontree.Node {
	return c.root
}

// ReadInitial reads the starting content from path. A missing file (or an
// empty path) yields empty content.
func ReadInitial(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return string(data), nil
}
