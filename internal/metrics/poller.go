// pattern: Imperative Shell

package metrics

import (
	"context"
	"errors"
	"time"

	"opsdash/internal/config"
	"opsdash/internal/logging"
)

var errNoServer = errors.New("no metrics server configured")

const (
	defaultInterval = 5 * time.Second
	defaultTimeout  = 4 * time.Second
)

// Result is what the gauge panel receives after each poll.
type Result struct {
	Sample    Sample
	Hidden    bool // strict mode after a failed poll: hide the whole panel
	Synthetic bool // Sample came from the random walk, not the server
	Err       error
}

// Fetcher returns one sample.
type Fetcher interface {
	Fetch(ctx context.Context) (Sample, error)
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	// Fallback is config.FallbackHide or config.FallbackSimulate.
	Fallback string
	Synth    *Synth
	Logger   *logging.ScopedLogger
}

// Poller fetches a sample immediately and then once per interval.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	timeout  time.Duration
	simulate bool
	synth    *Synth
	logger   *logging.ScopedLogger
}

// NewPoller creates a poller. A nil fetcher means there is no server to
// ask, so every poll falls back.
func NewPoller(fetcher Fetcher, opts PollerOptions) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		simulate: opts.Fallback == config.FallbackSimulate,
		synth:    opts.Synth,
		logger:   opts.Logger,
	}
	if p.interval <= 0 {
		p.interval = defaultInterval
	}
	if p.timeout <= 0 {
		p.timeout = defaultTimeout
	}
	if p.simulate && p.synth == nil {
		p.synth = NewSynth(nil)
	}
	if p.logger == nil {
		p.logger = logging.NopLogger()
	}
	return p
}

// Run polls until ctx is cancelled, sending one Result per poll. The ticker
// is stopped on return.
func (p *Poller) Run(ctx context.Context, out chan<- Result) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		res := p.Poll(ctx)
		if ctx.Err() != nil {
			return nil
		}
		select {
		case out <- res:
		case <-ctx.Done():
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll performs a single fetch and applies the fallback policy on failure.
func (p *Poller) Poll(ctx context.Context) Result {
	var (
		sample Sample
		err    error
	)
	if p.fetcher == nil {
		err = errNoServer
	} else {
		fctx, cancel := context.WithTimeout(ctx, p.timeout)
		sample, err = p.fetcher.Fetch(fctx)
		cancel()
	}
	if err == nil {
		return Result{Sample: sample}
	}

	if p.simulate {
		p.logger.Debug("metrics poll failed, using synthetic sample", "error", err)
		return Result{Sample: p.synth.Next(), Synthetic: true, Err: err}
	}
	p.logger.Warn("metrics poll failed, hiding panel", "error", err)
	return Result{Hidden: true, Err: err}
}
