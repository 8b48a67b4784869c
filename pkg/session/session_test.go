package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

func newRunner(t *testing.T) (*pipeline.Runner, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Levels.Root = t.TempDir()
	cfg.Grid.DefaultRows, cfg.Grid.DefaultCols = 3, 4
	return pipeline.NewRunner(cfg, nil, nil, log.New(io.Discard)), cfg.Levels.Root
}

func TestOpenMissingLevelIsBlank(t *testing.T) {
	r, _ := newRunner(t)
	sess, err := Open(context.Background(), r, "New Level")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sess.Name != "new_level" || sess.ID == "" || sess.Dirty {
		t.Errorf("session = %+v", sess)
	}
	if diff := cmp.Diff([]string{"....", "....", "...."}, sess.Doc.Lines()); diff != "" {
		t.Errorf("blank grid mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenInvalidName(t *testing.T) {
	r, _ := newRunner(t)
	if _, err := Open(context.Background(), r, "../x"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Open error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestEditAndSave(t *testing.T) {
	ctx := context.Background()
	r, root := newRunner(t)

	sess, err := Open(ctx, r, "cave")
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.SetCell(0, 0, '.'); err != nil || sess.Dirty {
		t.Fatalf("painting the same symbol should not dirty the session (err %v)", err)
	}
	if err := sess.SetCell(0, 0, 'P'); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetCell(9, 9, 'X'); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("SetCell out of range error = %v", err)
	}
	if err := sess.Resize(2, 2); err != nil {
		t.Fatal(err)
	}
	if !sess.Dirty {
		t.Fatal("edits should dirty the session")
	}

	res, err := sess.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sess.Dirty || sess.SavedAt.IsZero() {
		t.Error("Save should clear the dirty flag")
	}
	if res.Name != "cave" || res.Included != 1 {
		t.Errorf("BuildResult = %+v", res)
	}

	data, err := os.ReadFile(filepath.Join(root, "cave.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "P.\n..\n" {
		t.Errorf("cave.txt = %q", data)
	}

	reopened, err := Open(ctx, r, "cave")
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Doc.Equal(sess.Doc) {
		t.Errorf("reopened = %v, want %v", reopened.Doc.Lines(), sess.Doc.Lines())
	}
	if reopened.ID == sess.ID {
		t.Error("each session should get its own ID")
	}
}

func TestResizeInvalid(t *testing.T) {
	r, _ := newRunner(t)
	sess, err := Open(context.Background(), r, "room")
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Resize(0, 3); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Resize error = %v, want INVALID_ARGUMENT", err)
	}
	if sess.Dirty {
		t.Error("failed resize should not dirty the session")
	}
}
