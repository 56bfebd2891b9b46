// Package assets loads and caches catalog model templates. Callers always
// receive clones so the cached template is never mutated.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/philipparndt/yardplan/pkg/stl"
)

// Token identifies one asynchronous load request
type Token uint64

// Result is the outcome of an asynchronous load
type Result struct {
	Token Token
	URL   string
	Model *stl.Model
	Err   error
}

// ErrorReporter is told about load failures
type ErrorReporter interface {
	ReportError(url string, err error)
}

// ReporterFunc adapts a function to ErrorReporter
type ReporterFunc func(url string, err error)

// ReportError implements ErrorReporter
func (f ReporterFunc) ReportError(url string, err error) { f(url, err) }

// Loader fetches STL templates by URL and caches them
type Loader struct {
	fetcher  Fetcher
	reporter ErrorReporter
	log      *slog.Logger

	mu    sync.Mutex
	cache map[string]*stl.Model

	next    Token
	pending []Result
	results chan Result
}

// NewLoader creates a loader. reporter may be nil.
func NewLoader(fetcher Fetcher, reporter ErrorReporter, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		fetcher:  fetcher,
		reporter: reporter,
		log:      log,
		cache:    make(map[string]*stl.Model),
		results:  make(chan Result, 8),
	}
}

// Load returns a clone of the template for url, fetching it on a miss
func (l *Loader) Load(ctx context.Context, url string) (*stl.Model, error) {
	if m, ok := l.cached(url); ok {
		return m.Clone(), nil
	}
	m, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

// LoadAsync starts loading url and returns the request token. The result
// is delivered through Poll; cache hits are available on the next Poll.
func (l *Loader) LoadAsync(ctx context.Context, url string) Token {
	l.next++
	token := l.next
	if m, ok := l.cached(url); ok {
		l.pending = append(l.pending, Result{Token: token, URL: url, Model: m.Clone()})
		return token
	}
	go func() {
		m, err := l.fetch(ctx, url)
		r := Result{Token: token, URL: url, Err: err}
		if err == nil {
			r.Model = m.Clone()
		}
		l.results <- r
	}()
	return token
}

// Poll returns the completed loads without blocking. Failures are handed
// to the error reporter before being returned.
func (l *Loader) Poll() []Result {
	out := l.pending
	l.pending = nil
	for {
		select {
		case r := <-l.results:
			out = append(out, r)
		default:
			for _, r := range out {
				if r.Err != nil && l.reporter != nil {
					l.reporter.ReportError(r.URL, r.Err)
				}
			}
			return out
		}
	}
}

// Cached reports whether url is in the cache
func (l *Loader) Cached(url string) bool {
	_, ok := l.cached(url)
	return ok
}

// Evict drops url from the cache so the next load refetches it
func (l *Loader) Evict(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, url)
}

func (l *Loader) cached(url string) (*stl.Model, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.cache[url]
	return m, ok
}

func (l *Loader) fetch(ctx context.Context, url string) (*stl.Model, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		l.log.Warn("asset fetch failed", "url", url, "error", err)
		return nil, err
	}
	m, err := stl.ParseBytes(data)
	if err != nil {
		l.log.Warn("asset parse failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	if m.Name == "" {
		m.Name = url
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.cache[url]; ok {
		return existing, nil
	}
	l.cache[url] = m
	l.log.Debug("asset cached", "url", url, "triangles", m.TriangleCount())
	return m, nil
}
