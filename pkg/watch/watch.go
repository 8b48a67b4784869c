// Package watch rebuilds levels when their text files change on disk.
//
// The watcher listens on the levels directory with fsnotify. Events for
// *.txt files are debounced per path; once a path has been quiet for the
// debounce window, a level that still exists is rebuilt and a removed one
// triggers a registry rebuild so the aggregate header drops it. Generated
// headers and the order file are ignored, so builds never retrigger
// themselves.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/levelforge/pkg/level"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

// DefaultDebounce is used when no debounce window is configured.
const DefaultDebounce = 300 * time.Millisecond

// tick is how often pending paths are checked against the debounce window.
const tick = 50 * time.Millisecond

// Builder is the subset of pipeline.Runner the watcher drives.
type Builder interface {
	Build(ctx context.Context, name string) (*pipeline.BuildResult, error)
	BuildRegistry(ctx context.Context) ([]string, error)
}

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Builds        int
	RegistryRuns  int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher watches one levels directory.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	builder  Builder
	logger   *log.Logger
	dir      string
	debounce time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats

	// OnBuild, when set, is called after every settled path was handled.
	OnBuild func(path string, err error)
}

// New creates a watcher for dir. A non-positive debounce uses
// DefaultDebounce and a nil logger uses log.Default().
func New(dir string, builder Builder, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		watcher:  fw,
		builder:  builder,
		logger:   logger,
		dir:      dir,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the directory is registered; events
// are handled on a background goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching levels", "dir", w.dir, "debounce", w.debounce)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing watcher", "err", err)
	}
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, time.Now())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case now := <-ticker.C:
			w.processSettled(ctx, now)
		}
	}
}

// handleEvent records a relevant event for later processing.
func (w *Watcher) handleEvent(event fsnotify.Event, at time.Time) {
	if filepath.Ext(event.Name) != level.TextExt {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("level file event", "op", event.Op.String(), "path", event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[event.Name] = at
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = at
}

// processSettled handles every path that has been quiet for the debounce
// window. Removals collapse into a single registry rebuild.
func (w *Watcher) processSettled(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	removed := ""
	for _, path := range settled {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			removed = path
			continue
		}
		w.build(ctx, path)
	}
	if removed != "" {
		w.rebuildRegistry(ctx, removed)
	}
}

func (w *Watcher) build(ctx context.Context, path string) {
	name := strings.TrimSuffix(filepath.Base(path), level.TextExt)
	res, err := w.builder.Build(ctx, name)

	w.mu.Lock()
	w.stats.Builds++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("rebuild failed", "level", name, "err", err)
	} else {
		w.logger.Info("rebuilt level", "level", res.Name, "cached", res.Cached, "included", res.Included)
	}
	if w.OnBuild != nil {
		w.OnBuild(path, err)
	}
}

func (w *Watcher) rebuildRegistry(ctx context.Context, path string) {
	order, err := w.builder.BuildRegistry(ctx)

	w.mu.Lock()
	w.stats.RegistryRuns++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("registry rebuild failed", "err", err)
	} else {
		w.logger.Info("level removed; registry rebuilt", "path", path, "levels", len(order))
	}
	if w.OnBuild != nil {
		w.OnBuild(path, err)
	}
}
