// Package fetch implements the Fetcher interface.
// It loads generator documents over HTTP or from the local filesystem and
// rejects anything that is not an HTML page before conversion starts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/townpipe/core"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "townpipe/1.0 (https://github.com/gaurav-prasanna/townpipe)"
	// maxDocumentSize bounds a single generator document.
	maxDocumentSize = 16 << 20
)

// htmlTypes are the content types accepted as generator documents.
var htmlTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
}

// Fetcher loads documents from http(s) URLs, file:// URLs, and plain paths.
type Fetcher struct {
	client *http.Client
	log    *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(f *Fetcher) { f.log = log }
}

// New creates a Fetcher with a sensible timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the document at location, which is either a URL or a
// filesystem path.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*core.FetchResult, error) {
	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return f.fetchHTTP(ctx, location)
		case "file":
			return f.fetchFile(location, u.Path)
		}
	}
	return f.fetchFile(location, location)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s: %w", resp.StatusCode, location, core.ErrInvalidInput)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || !htmlTypes[mediaType] {
			return nil, fmt.Errorf("content type %q for %s: %w", contentType, location, core.ErrInvalidInput)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", location, maxDocumentSize, core.ErrInvalidInput)
	}
	f.log.Debug("fetched", zap.String("url", location), zap.Int("bytes", len(body)))

	return &core.FetchResult{
		URL:         location,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        string(body),
	}, nil
}

func (f *Fetcher) fetchFile(location, path string) (*core.FetchResult, error) {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, ".html") && !strings.HasSuffix(lower, ".htm") {
		return nil, fmt.Errorf("%s is not an .html file: %w", path, core.ErrInvalidInput)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(body) > maxDocumentSize {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", path, maxDocumentSize, core.ErrInvalidInput)
	}
	f.log.Debug("loaded", zap.String("path", path), zap.Int("bytes", len(body)))

	return &core.FetchResult{
		URL:         location,
		StatusCode:  http.StatusOK,
		ContentType: "text/html",
		HTML:        string(body),
	}, nil
}
