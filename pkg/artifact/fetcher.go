// Package artifact downloads the engine executable.
//
// Sources are tried in order under the same policy: a GET bounded by a
// per-attempt timeout, a 2xx status, and the body streamed straight to the
// destination file. The first source that succeeds wins; if all fail the
// caller gets a *FetchError listing every attempt.
package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"mercator-hq/enginevisor/pkg/telemetry/logging"
	"mercator-hq/enginevisor/pkg/telemetry/metrics"
)

// DefaultTimeout bounds a single attempt, body included.
const DefaultTimeout = 30 * time.Second

// Source is a named download location.
type Source struct {
	Name string
	URL  string
}

// Sources builds the usual primary/backup list.
func Sources(primaryURL, backupURL string) []Source {
	sources := []Source{{Name: "primary", URL: primaryURL}}
	if backupURL != "" {
		sources = append(sources, Source{Name: "backup", URL: backupURL})
	}
	return sources
}

// Fetcher downloads an artifact from an ordered list of sources.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Collector
	onTry   func(Source)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client. Its own Timeout, if any, still
// applies in addition to the per-attempt timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithMetrics records every attempt in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(f *Fetcher) { f.metrics = c }
}

// WithAttemptHook calls fn before each source is tried.
func WithAttemptHook(fn func(Source)) Option {
	return func(f *Fetcher) { f.onTry = fn }
}

// NewFetcher returns a Fetcher with a 30 second per-attempt timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.Discard()
	}
	f.logger = f.logger.With("component", "artifact")
	return f
}

// OnAttempt returns a copy of f that calls fn before each source is tried.
func (f *Fetcher) OnAttempt(fn func(Source)) *Fetcher {
	c := *f
	c.onTry = fn
	return &c
}

// Fetch writes the first successfully downloaded source to dest and
// returns it. Each attempt truncates dest, so a partial body from a failed
// attempt never survives into the next one. When all sources fail, dest is
// removed and a *FetchError is returned.
func (f *Fetcher) Fetch(ctx context.Context, sources []Source, dest string) (Source, error) {
	ferr := &FetchError{}

	for _, src := range sources {
		if f.onTry != nil {
			f.onTry(src)
		}

		start := time.Now()
		n, aerr := f.attempt(ctx, src, dest)
		f.metrics.RecordFetchAttempt(src.Name, aerr == nil)

		if aerr == nil {
			f.logger.Info("artifact downloaded",
				"source", src.Name,
				"url", src.URL,
				"bytes", n,
				"duration", time.Since(start).String(),
			)
			return src, nil
		}

		f.logger.Warn("artifact download failed",
			"source", src.Name,
			"url", src.URL,
			"status", aerr.StatusCode,
			"error", aerr,
		)
		ferr.Attempts = append(ferr.Attempts, aerr)

		if ctx.Err() != nil {
			break
		}
	}

	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		f.logger.Debug("failed to remove partial artifact", "path", dest, "error", err)
	}
	return Source{}, ferr
}

func (f *Fetcher) attempt(ctx context.Context, src Source, dest string) (int64, *AttemptError) {
	if src.URL == "" {
		return 0, &AttemptError{Source: src, Err: ErrEmptyURL}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return 0, &AttemptError{Source: src, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, &AttemptError{Source: src, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &AttemptError{Source: src, StatusCode: resp.StatusCode}
	}

	file, err := os.Create(dest)
	if err != nil {
		return 0, &AttemptError{Source: src, StatusCode: resp.StatusCode, Err: fmt.Errorf("create %s: %w", dest, err)}
	}

	n, err := io.Copy(file, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, &AttemptError{Source: src, StatusCode: resp.StatusCode, Err: fmt.Errorf("write %s: %w", dest, err)}
	}
	return n, nil
}
