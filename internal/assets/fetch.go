package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
)

// ErrFetch wraps every failure to obtain asset bytes
var ErrFetch = errors.New("assets: fetch failed")

// Fetcher returns the raw bytes behind an asset URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FileFetcher reads assets from disk. Relative paths are resolved against
// BaseDir; a file:// prefix is accepted.
type FileFetcher struct {
	BaseDir string
}

// Fetch implements Fetcher
func (f FileFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return data, nil
}

// HTTPFetcher downloads assets over HTTP(S)
type HTTPFetcher struct {
	client  *client.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a fetcher with a per-request timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: client.New(), timeout: timeout}
}

// Fetch implements Fetcher
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := h.client.Get(url, client.Config{Ctx: ctx, Timeout: h.timeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, url, code)
	}
	// the body buffer is reused once the response is closed
	return append([]byte(nil), resp.Body()...), nil
}

// SchemeFetcher dispatches http(s) URLs to HTTP and everything else to File
type SchemeFetcher struct {
	File Fetcher
	HTTP Fetcher
}

// NewSchemeFetcher returns the default fetcher for a local asset directory
func NewSchemeFetcher(baseDir string) SchemeFetcher {
	return SchemeFetcher{File: FileFetcher{BaseDir: baseDir}, HTTP: NewHTTPFetcher(30 * time.Second)}
}

// Fetch implements Fetcher
func (s SchemeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return s.HTTP.Fetch(ctx, url)
	}
	return s.File.Fetch(ctx, url)
}
