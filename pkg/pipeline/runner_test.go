package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/levelforge/pkg/cache"
	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
)

func newTestRunner(t *testing.T, c cache.Cache) (*Runner, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "levels")
	cfg := config.Default()
	cfg.Levels.Root = root
	r := NewRunner(cfg, c, nil, log.New(io.Discard))
	t.Cleanup(func() { r.Close() })
	return r, root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeLevel(t *testing.T, root, file, content string) {
	t.Helper()
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, file), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCreateAndBuild(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	rec, err := r.Create(ctx, "test room")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Name != "test_room" {
		t.Fatalf("Name = %q, want test_room", rec.Name)
	}

	wantText := "P.........\n" + strings.Repeat("..........\n", 4) + "##########\n"
	if got := readFile(t, filepath.Join(root, "test_room.txt")); got != wantText {
		t.Errorf("template text mismatch (-want +got):\n%s", cmp.Diff(wantText, got))
	}
	if _, err := os.Stat(filepath.Join(root, "Test_room.h")); !os.IsNotExist(err) {
		t.Error("Create should not build the header")
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "order.cfg")), "test_room") {
		t.Error("order.cfg should record the new level")
	}

	res, err := r.Build(ctx, "test room")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Included != 1 || res.Cached {
		t.Errorf("BuildResult = %+v", res)
	}
	if res.Name != "test_room" || res.Symbol() != "TEST_ROOM" || res.HeaderPath() != filepath.Join(root, "Test_room.h") {
		t.Errorf("BuildResult record = %+v", res.Record)
	}

	wantHeader := "#pragma once\n#include <string>\n\nnamespace Assets {\n" +
		"    constexpr const char* TEST_ROOM = R\"(\n" + wantText + ")\";\n}\n"
	if diff := cmp.Diff(wantHeader, readFile(t, filepath.Join(root, "Test_room.h"))); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(root, "order.cfg")); got != "test_room\n" {
		t.Errorf("order.cfg = %q", got)
	}

	wantAggregate := "#pragma once\n#include <vector>\n#include <string>\n" +
		"#include \"Test_room.h\"\n\n\n" +
		"namespace Assets {\n    const std::vector<std::string> ALL_LEVELS = {\n" +
		"        TEST_ROOM,\n\n    };\n}\n"
	if diff := cmp.Diff(wantAggregate, readFile(t, filepath.Join(root, "AllLevels.h"))); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t, nil)

	if _, err := r.Create(ctx, "Hall"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(ctx, "hall"); !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("Create duplicate error = %v, want DUPLICATE_NAME", err)
	}
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t, nil)

	for _, name := range []string{"", "   ", "../escape", "a/b"} {
		if _, err := r.Create(ctx, name); !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("Create(%q) error = %v, want INVALID_ARGUMENT", name, err)
		}
	}
}

func TestBuildMissingLevel(t *testing.T) {
	r, _ := newTestRunner(t, nil)
	if _, err := r.Build(context.Background(), "ghost"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Build error = %v, want NOT_FOUND", err)
	}
}

func TestSaveBuildsHeader(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	doc, err := grid.New(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.SetCell(0, 0, 'P'); err != nil {
		t.Fatal(err)
	}
	if err := doc.SetCell(1, 2, 'E'); err != nil {
		t.Fatal(err)
	}

	res, err := r.Save(ctx, "cave", doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if diff := cmp.Diff([]string{"cave"}, res.Order); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(root, "cave.txt")); got != "P..\n..E\n" {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "Cave.h")), "CAVE = R\"(\nP..\n..E\n)\";") {
		t.Error("header should embed the saved text")
	}

	loaded, err := r.Load(ctx, "cave")
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Equal(doc) {
		t.Errorf("Load returned %v, want %v", loaded.Lines(), doc.Lines())
	}
}

func TestAggregateSkipsUnbuilt(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	writeLevel(t, root, "alpha.txt", "P\n")
	writeLevel(t, root, "beta.txt", "E\n")
	if _, err := r.Build(ctx, "beta"); err != nil {
		t.Fatal(err)
	}

	aggregate := readFile(t, filepath.Join(root, "AllLevels.h"))
	if strings.Contains(aggregate, "ALPHA") || !strings.Contains(aggregate, "        BETA,\n") {
		t.Errorf("aggregate should list only built levels:\n%s", aggregate)
	}

	entries, err := r.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "alpha" || entries[0].Built || !entries[1].Built {
		t.Errorf("List = %+v", entries)
	}
}

func TestBuildAll(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r, root := newTestRunner(t, fc)

	writeLevel(t, root, "one.txt", "P#\n")
	writeLevel(t, root, "two.txt", "#E\n")
	writeLevel(t, root, "order.cfg", "two\n")

	stats, err := r.BuildAll(ctx)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if diff := cmp.Diff(Stats{Levels: 2, Written: 2, Included: 2}, *stats); diff != "" {
		t.Errorf("first BuildAll stats (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(root, "order.cfg")); got != "two\none\n" {
		t.Errorf("order.cfg = %q", got)
	}

	stats, err = r.BuildAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Cached != 2 || stats.Written != 0 {
		t.Errorf("second BuildAll should hit the cache: %+v", stats)
	}

	// A modified header on disk is regenerated even on a cache hit.
	if err := os.WriteFile(filepath.Join(root, "One.h"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	stats, err = r.BuildAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Written != 1 || stats.Cached != 1 {
		t.Errorf("tampered header should be rewritten: %+v", stats)
	}
	if readFile(t, filepath.Join(root, "One.h")) == "stale" {
		t.Error("One.h was not regenerated")
	}
}

func TestUnchangedHeaderWithoutCache(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)
	writeLevel(t, root, "room.txt", "P.\n")

	first, err := r.Build(ctx, "room")
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first build should write the header")
	}
	second, err := r.Build(ctx, "room")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("identical header on disk should not be rewritten")
	}
}

func TestBuildUsesCachedHeader(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r, root := newTestRunner(t, fc)
	writeLevel(t, root, "room.txt", "P.\n")

	if err := fc.Set(ctx, r.headerKey("room", "P.\n"), []byte("from cache\n"), time.Hour); err != nil {
		t.Fatal(err)
	}
	res, err := r.Build(ctx, "room")
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("missing header should be written")
	}
	if got := readFile(t, filepath.Join(root, "Room.h")); got != "from cache\n" {
		t.Errorf("header = %q, want the cached bytes", got)
	}

	// Other text misses the cache and is generated.
	writeLevel(t, root, "room.txt", "P#\n")
	if _, err := r.Build(ctx, "room"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(root, "Room.h")); !strings.Contains(got, "P#") {
		t.Errorf("header not regenerated: %q", got)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	writeLevel(t, root, "keep.txt", "P\n")
	writeLevel(t, root, "drop.txt", "E\n")
	if _, err := r.BuildAll(ctx); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete(ctx, "drop"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, file := range []string{"drop.txt", "Drop.h"} {
		if _, err := os.Stat(filepath.Join(root, file)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", file)
		}
	}
	if got := readFile(t, filepath.Join(root, "order.cfg")); got != "keep\n" {
		t.Errorf("order.cfg = %q", got)
	}
	if strings.Contains(readFile(t, filepath.Join(root, "AllLevels.h")), "DROP") {
		t.Error("aggregate still lists deleted level")
	}

	if err := r.Delete(ctx, "drop"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Delete error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteWithoutHeader(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	writeLevel(t, root, "draft.txt", "P\n")
	if err := r.Delete(ctx, "draft"); err != nil {
		t.Errorf("Delete of unbuilt level: %v", err)
	}
}

func TestReorderAndMove(t *testing.T) {
	ctx := context.Background()
	r, root := newTestRunner(t, nil)

	for _, name := range []string{"a", "b", "c"} {
		writeLevel(t, root, name+".txt", "P\n")
	}
	if _, err := r.BuildAll(ctx); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		run   func() ([]string, error)
		want  []string
		wantC errors.Code
	}{
		{"down", func() ([]string, error) { return r.Reorder(ctx, 0, 1) }, []string{"b", "a", "c"}, ""},
		{"up past top", func() ([]string, error) { return r.Reorder(ctx, 0, -1) }, []string{"b", "a", "c"}, ""},
		{"down past bottom", func() ([]string, error) { return r.Reorder(ctx, 2, 1) }, []string{"b", "a", "c"}, ""},
		{"move by name", func() ([]string, error) { return r.Move(ctx, "c", -1) }, []string{"b", "c", "a"}, ""},
		{"bad direction", func() ([]string, error) { return r.Reorder(ctx, 0, 2) }, nil, errors.ErrCodeInvalidArgument},
		{"unknown level", func() ([]string, error) { return r.Move(ctx, "zzz", 1) }, nil, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if tt.wantC != "" {
				if !errors.Is(err, tt.wantC) {
					t.Fatalf("error = %v, want %s", err, tt.wantC)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}

	aggregate := readFile(t, filepath.Join(root, "AllLevels.h"))
	if !strings.Contains(aggregate, "        B,\n        C,\n        A,\n") {
		t.Errorf("aggregate not in reordered order:\n%s", aggregate)
	}
}

func TestBuildRegistryOnEmptyRoot(t *testing.T) {
	r, root := newTestRunner(t, nil)

	order, err := r.BuildRegistry(context.Background())
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("order = %v, want empty", order)
	}
	want := "#pragma once\n#include <vector>\n#include <string>\n\n\n" +
		"namespace Assets {\n    const std::vector<std::string> ALL_LEVELS = {\n\n    };\n}\n"
	if diff := cmp.Diff(want, readFile(t, filepath.Join(root, "AllLevels.h"))); diff != "" {
		t.Errorf("empty aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	r, root := newTestRunner(t, nil)
	writeLevel(t, root, "a.txt", "P\n")
	if _, err := r.BuildAll(ctx); err == nil {
		t.Error("BuildAll with expired context should fail")
	}
}
