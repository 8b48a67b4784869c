package pipeline

import (
	"bytes"
	"context"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/levelforge/pkg/cache"
	"github.com/matzehuels/levelforge/pkg/codegen"
	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
	"github.com/matzehuels/levelforge/pkg/level"
	"github.com/matzehuels/levelforge/pkg/observability"
	"github.com/matzehuels/levelforge/pkg/registry"
)

// Runner executes level commands against one levels directory.
//
// Commands are serialized: a Runner shared by the HTTP server and the file
// watcher never runs two commands at once. Nothing protects the directory
// against other processes; the last writer wins.
type Runner struct {
	Config *config.Config
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	registry   *registry.Registry
	serializer *level.Serializer
	mu         sync.Mutex
}

// NewRunner creates a runner for cfg.
// A nil cache disables header caching, a nil keyer uses a keyer scoped to
// the levels root, and a nil logger uses log.Default().
func NewRunner(cfg *config.Config, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewScopedKeyer(nil, "root:"+cfg.Levels.Root+":")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config:     cfg,
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		registry:   registry.New(cfg.Levels.Root, cfg.Levels.OrderFile),
		serializer: level.NewSerializer(cfg.GridOptions()...),
	}
}

// Record resolves a raw level name to its record.
func (r *Runner) Record(name string) (level.Record, error) {
	return level.NewRecord(r.Config.Levels.Root, name)
}

// =============================================================================
// Commands
// =============================================================================

// Create adds a level filled with the configured template. The header is
// not built; the level shows up in the order file but not in the aggregate
// header until its first build.
func (r *Runner) Create(ctx context.Context, name string) (level.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.Record(name)
	if err != nil {
		return level.Record{}, err
	}
	if fileExists(rec.TextPath()) {
		return level.Record{}, errors.New(errors.ErrCodeDuplicateName, "level %q already exists", rec.Name)
	}

	doc := grid.Template(r.Config.Grid.Template, r.Config.GridOptions()...)
	if err := r.serializer.Save(rec.TextPath(), doc); err != nil {
		return level.Record{}, err
	}
	r.Logger.Info("created level", "name", rec.Name, "path", rec.TextPath())

	order, err := r.reconcile(ctx)
	if err != nil {
		return level.Record{}, err
	}
	if _, err := r.emit(ctx, order); err != nil {
		return level.Record{}, err
	}
	return rec, nil
}

// Load reads a level into a grid document.
func (r *Runner) Load(ctx context.Context, name string) (*grid.Document, error) {
	rec, err := r.Record(name)
	if err != nil {
		return nil, err
	}
	return r.serializer.Load(rec.TextPath())
}

// Save writes doc as the level's text and builds it.
func (r *Runner) Save(ctx context.Context, name string, doc *grid.Document) (*BuildResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.Record(name)
	if err != nil {
		return nil, err
	}
	if err := r.serializer.Save(rec.TextPath(), doc); err != nil {
		return nil, err
	}
	r.Logger.Debug("saved level", "name", rec.Name, "rows", doc.Rows(), "cols", doc.Cols())
	return r.build(ctx, rec)
}

// Build regenerates a level's header from its text file, then reconciles
// the order and emits the aggregate header.
func (r *Runner) Build(ctx context.Context, name string) (*BuildResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.Record(name)
	if err != nil {
		return nil, err
	}
	return r.build(ctx, rec)
}

// BuildAll regenerates every level's header and the aggregate header.
func (r *Runner) BuildAll(ctx context.Context) (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.reconcile(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Levels: len(order)}
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := level.Record{Name: name, Dir: r.Config.Levels.Root}
		text, err := level.ReadText(rec.TextPath())
		if err != nil {
			return nil, err
		}
		cached, err := r.writeHeader(ctx, rec, text)
		if err != nil {
			return nil, err
		}
		if cached {
			stats.Cached++
		} else {
			stats.Written++
		}
	}

	if stats.Included, err = r.emit(ctx, order); err != nil {
		return nil, err
	}
	return stats, nil
}

// BuildRegistry reconciles the order and regenerates the aggregate header
// without touching level headers. It returns the canonical order.
func (r *Runner) BuildRegistry(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.emit(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes a level's text and header files, then reconciles and
// emits. A missing header is not an error.
func (r *Runner) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.Record(name)
	if err != nil {
		return err
	}
	if !fileExists(rec.TextPath()) {
		return errors.New(errors.ErrCodeNotFound, "level %q does not exist", rec.Name)
	}
	if err := os.Remove(rec.TextPath()); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "remove %s", rec.TextPath())
	}
	if err := os.Remove(rec.HeaderPath()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeIO, err, "remove %s", rec.HeaderPath())
	}
	r.Logger.Info("deleted level", "name", rec.Name)

	order, err := r.reconcile(ctx)
	if err != nil {
		return err
	}
	_, err = r.emit(ctx, order)
	return err
}

// Reorder moves the entry at index one step in dir (-1 up, +1 down) and
// emits the aggregate header. Moves past either end change nothing.
func (r *Runner) Reorder(ctx context.Context, index, dir int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reorder(ctx, index, dir)
}

// Move reorders the named level one step in dir.
func (r *Runner) Move(ctx context.Context, name string, dir int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.Record(name)
	if err != nil {
		return nil, err
	}
	order, err := r.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	index := slices.Index(order, rec.Name)
	if index < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "level %q does not exist", rec.Name)
	}
	return r.reorder(ctx, index, dir)
}

// List reconciles the order, emits the aggregate header and returns the
// levels in canonical order.
func (r *Runner) List(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.emit(ctx, order); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(order))
	for i, name := range order {
		rec := level.Record{Name: name, Dir: r.Config.Levels.Root}
		entries[i] = Entry{Record: rec, Built: fileExists(rec.HeaderPath())}
	}
	return entries, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Stages
// =============================================================================

func (r *Runner) build(ctx context.Context, rec level.Record) (*BuildResult, error) {
	text, err := level.ReadText(rec.TextPath())
	if err != nil {
		return nil, err
	}

	cached, err := r.writeHeader(ctx, rec, text)
	if err != nil {
		return nil, err
	}

	order, err := r.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	included, err := r.emit(ctx, order)
	if err != nil {
		return nil, err
	}

	return &BuildResult{Record: rec, Cached: cached, Order: order, Included: included}, nil
}

// writeHeader writes rec's header. The generated bytes come from the cache
// when an entry for the same text exists. It reports true when the header on
// disk already matched and was left alone.
func (r *Runner) writeHeader(ctx context.Context, rec level.Record, text string) (unchanged bool, err error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnBuildStart(ctx, rec.Name)
	defer func() { hooks.OnBuildComplete(ctx, rec.Name, unchanged, time.Since(start), err) }()

	if codegen.ContainsDelimiter(text) {
		r.Logger.Warn("level text contains the raw literal delimiter; the header will not compile",
			"name", rec.Name, "delimiter", codegen.Delimiter)
	}

	header := r.header(ctx, rec, text)

	if onDisk, rerr := os.ReadFile(rec.HeaderPath()); rerr == nil && bytes.Equal(onDisk, header) {
		r.Logger.Debug("header up to date", "name", rec.Name)
		return true, nil
	}
	if err := os.WriteFile(rec.HeaderPath(), header, 0644); err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, err, "write %s", rec.HeaderPath())
	}
	r.Logger.Info("built header", "name", rec.Name, "path", rec.HeaderPath())
	return false, nil
}

// header returns the generated header for text, consulting the cache first.
func (r *Runner) header(ctx context.Context, rec level.Record, text string) []byte {
	key := r.headerKey(rec.Name, text)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "header")
		return data
	}
	observability.Cache().OnCacheMiss(ctx, "header")

	header := codegen.BuildHeader(rec.Name, text, r.Config.CodegenOptions())
	if err := r.Cache.Set(ctx, key, header, cache.TTLHeader); err == nil {
		observability.Cache().OnCacheSet(ctx, "header", len(header))
	}
	return header
}

// headerKey covers every input of the generated header: the name (through
// the keyer), the namespace and the text.
func (r *Runner) headerKey(name, text string) string {
	ns := r.Config.CodegenOptions().Namespace
	return r.Keyer.HeaderKey(name, cache.Hash([]byte(ns+"\x00"+text)))
}

func (r *Runner) reconcile(ctx context.Context) ([]string, error) {
	start := time.Now()
	order, err := r.registry.Reconcile()
	observability.Pipeline().OnReconcile(ctx, len(order), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("reconciled order", "levels", len(order), "path", r.registry.OrderPath())
	return order, nil
}

func (r *Runner) reorder(ctx context.Context, index, dir int) ([]string, error) {
	order, err := r.registry.Reorder(index, dir)
	if err != nil {
		return nil, err
	}
	if _, err := r.emit(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// emit rewrites the aggregate header from order, listing only levels whose
// header exists. It returns how many levels were listed.
func (r *Runner) emit(ctx context.Context, order []string) (included int, err error) {
	defer func() { observability.Pipeline().OnEmit(ctx, included, len(order), err) }()

	root := r.Config.Levels.Root
	built := func(name string) bool {
		if fileExists(level.Record{Name: name, Dir: root}.HeaderPath()) {
			included++
			return true
		}
		return false
	}
	data := codegen.BuildAggregate(order, built, r.Config.CodegenOptions())

	if err := os.MkdirAll(root, 0755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "create levels dir")
	}
	if err := os.WriteFile(r.Config.AggregatePath(), data, 0644); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "write %s", r.Config.AggregatePath())
	}
	r.Logger.Debug("emitted aggregate", "included", included, "recorded", len(order))
	return included, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
