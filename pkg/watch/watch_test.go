package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/level"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

type fakeBuilder struct {
	mu       sync.Mutex
	built    []string
	registry int
}

func (f *fakeBuilder) Build(_ context.Context, name string) (*pipeline.BuildResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.built = append(f.built, name)
	return &pipeline.BuildResult{Record: level.Record{Name: name}}, nil
}

func (f *fakeBuilder) BuildRegistry(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry++
	return nil, nil
}

func newTestWatcher(t *testing.T, dir string, b Builder) *Watcher {
	t.Helper()
	w, err := New(dir, b, 100*time.Millisecond, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.watcher.Close() })
	return w
}

func TestDebounce(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"cave.txt", "hall.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("P\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	fb := &fakeBuilder{}
	w := newTestWatcher(t, dir, fb)
	ctx := context.Background()
	t0 := time.Now()

	cave := filepath.Join(dir, "cave.txt")
	w.handleEvent(fsnotify.Event{Name: cave, Op: fsnotify.Create}, t0)
	w.handleEvent(fsnotify.Event{Name: cave, Op: fsnotify.Write}, t0.Add(50*time.Millisecond))
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "hall.txt"), Op: fsnotify.Write}, t0)
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "Cave.h"), Op: fsnotify.Write}, t0)
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "order.cfg"), Op: fsnotify.Write}, t0)
	w.handleEvent(fsnotify.Event{Name: cave, Op: fsnotify.Chmod}, t0)

	w.processSettled(ctx, t0.Add(120*time.Millisecond))
	if diff := cmp.Diff([]string{"hall"}, fb.built); diff != "" {
		t.Errorf("first pass (-want +got):\n%s", diff)
	}

	w.processSettled(ctx, t0.Add(200*time.Millisecond))
	if diff := cmp.Diff([]string{"hall", "cave"}, fb.built); diff != "" {
		t.Errorf("second pass (-want +got):\n%s", diff)
	}

	if st := w.Stats(); st.Events != 3 || st.Builds != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestRemovalRebuildsRegistryOnce(t *testing.T) {
	dir := t.TempDir()
	fb := &fakeBuilder{}
	w := newTestWatcher(t, dir, fb)
	t0 := time.Now()

	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Remove}, t0)
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "b.txt"), Op: fsnotify.Rename}, t0)
	w.processSettled(context.Background(), t0.Add(time.Second))

	if fb.registry != 1 || len(fb.built) != 0 {
		t.Errorf("registry runs = %d, builds = %v", fb.registry, fb.built)
	}
}

func TestWatchRebuildsHeader(t *testing.T) {
	cfg := config.Default()
	cfg.Levels.Root = t.TempDir()
	runner := pipeline.NewRunner(cfg, nil, nil, log.New(io.Discard))

	w, err := New(cfg.Levels.Root, runner, 20*time.Millisecond, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan string, 4)
	w.OnBuild = func(path string, err error) {
		if err != nil {
			t.Errorf("build %s: %v", path, err)
		}
		done <- path
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(cfg.Levels.Root, "pit.txt")
	if err := os.WriteFile(path, []byte("P.E\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-done:
		if got != path {
			t.Errorf("built %s, want %s", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rebuild")
	}

	if _, err := os.Stat(filepath.Join(cfg.Levels.Root, "Pit.h")); err != nil {
		t.Errorf("header not generated: %v", err)
	}
	entries, _ := os.ReadDir(cfg.Levels.Root)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"AllLevels.h", "Pit.h", "order.cfg", "pit.txt"}, names); diff != "" {
		t.Errorf("directory mismatch (-want +got):\n%s", diff)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), &fakeBuilder{}, 0, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
	select {
	case <-w.Done():
	default:
		t.Error("Done should be closed after Stop")
	}
}
