package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files and reports debounced changes on a channel so
// they can be handled on the render loop thread
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	mu       sync.Mutex
	files    map[string]bool
	debounce time.Duration
	timers   map[string]*time.Timer
	changes  chan string
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, log *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	return &FileWatcher{
		watcher:  watcher,
		log:      log,
		files:    make(map[string]bool),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		changes:  make(chan string, 16),
	}, nil
}

// Watch adds files to the watch list
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		// editors replace files on save, so watch the directory
		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}

		fw.files[absPath] = true
	}

	return nil
}

// Changes delivers the absolute path of each changed file
func (fw *FileWatcher) Changes() <-chan string {
	return fw.changes
}

// Poll returns the files changed since the last call without blocking
func (fw *FileWatcher) Poll() []string {
	var out []string
	for {
		select {
		case p := <-fw.changes:
			out = append(out, p)
		default:
			return out
		}
	}
}

// Start begins watching for file changes
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warn("watcher error", "error", err)
			}
		}
	}()
}

func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[filePath] {
		return
	}

	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}

	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		select {
		case fw.changes <- filePath:
		default:
			fw.log.Debug("dropping change event, queue full", "file", filePath)
		}
	})
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}
