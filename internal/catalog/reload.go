package catalog

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/philipparndt/yardplan/pkg/watcher"
)

// Reloader keeps a catalog in sync with its file. Reloads are applied from
// Poll, which the render loop calls once per frame.
type Reloader struct {
	path    string
	current *Catalog
	fw      *watcher.FileWatcher
	log     *slog.Logger
}

// NewReloader loads path and starts watching it
func NewReloader(path string, log *slog.Logger) (*Reloader, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := watcher.NewFileWatcher(200*time.Millisecond, log)
	if err != nil {
		return nil, err
	}
	if err := fw.Watch(path); err != nil {
		fw.Close()
		return nil, err
	}
	fw.Start()
	abs, _ := filepath.Abs(path)
	return &Reloader{path: abs, current: c, fw: fw, log: log}, nil
}

// Catalog returns the current catalog
func (r *Reloader) Catalog() *Catalog {
	return r.current
}

// Poll applies pending file changes and reports whether the catalog changed.
// A file that fails to parse keeps the previous catalog.
func (r *Reloader) Poll() bool {
	changed := false
	for _, p := range r.fw.Poll() {
		if p != r.path {
			continue
		}
		c, err := Load(p)
		if err != nil {
			r.log.Warn("catalog reload failed", "error", err)
			continue
		}
		r.current = c
		changed = true
		r.log.Info("catalog reloaded", "products", len(c.order))
	}
	return changed
}

// Close stops watching
func (r *Reloader) Close() error {
	return r.fw.Close()
}
