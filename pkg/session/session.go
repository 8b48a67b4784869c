// Package session holds the state of one open level editor.
//
// A Session owns a grid document loaded through a pipeline.Runner. Edits are
// applied in memory and marked dirty; Save writes the level and rebuilds its
// header. The terminal editor and the HTTP API each own their sessions, and
// nothing is shared between them.
//
// # Usage
//
//	sess, err := session.Open(ctx, runner, "test room")
//	if err != nil {
//	    return err
//	}
//	sess.SetCell(0, 0, 'P')
//	if _, err := sess.Save(ctx); err != nil {
//	    return err
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

// Session is an open level.
type Session struct {
	ID        string
	Name      string
	Doc       *grid.Document
	Dirty     bool
	CreatedAt time.Time
	SavedAt   time.Time

	runner *pipeline.Runner
}

// Open loads name for editing. A level without a text file opens as the
// default blank grid; it is created on the first Save.
func Open(ctx context.Context, runner *pipeline.Runner, name string) (*Session, error) {
	rec, err := runner.Record(name)
	if err != nil {
		return nil, err
	}

	doc, err := runner.Load(ctx, rec.Name)
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		doc = grid.Blank(runner.Config.GridOptions()...)
	case err != nil:
		return nil, err
	}

	return &Session{
		ID:        uuid.NewString(),
		Name:      rec.Name,
		Doc:       doc,
		CreatedAt: time.Now(),
		runner:    runner,
	}, nil
}

// SetCell paints one tile. Painting a tile with its current symbol does not
// mark the session dirty.
func (s *Session) SetCell(row, col int, symbol rune) error {
	current, err := s.Doc.Cell(row, col)
	if err != nil {
		return err
	}
	if current == symbol {
		return nil
	}
	if err := s.Doc.SetCell(row, col, symbol); err != nil {
		return err
	}
	s.Dirty = true
	return nil
}

// Resize changes the grid dimensions, keeping the overlapping tiles.
func (s *Session) Resize(rows, cols int) error {
	if rows == s.Doc.Rows() && cols == s.Doc.Cols() {
		return nil
	}
	if err := s.Doc.Resize(rows, cols); err != nil {
		return err
	}
	s.Dirty = true
	return nil
}

// Replace swaps in a whole document, as done by the HTTP API's PUT.
func (s *Session) Replace(doc *grid.Document) {
	if doc == nil || doc.Equal(s.Doc) {
		return
	}
	s.Doc = doc
	s.Dirty = true
}

// Save writes the level and rebuilds its header and the aggregate header.
// The session stays dirty when any step fails.
func (s *Session) Save(ctx context.Context) (*pipeline.BuildResult, error) {
	res, err := s.runner.Save(ctx, s.Name, s.Doc)
	if err != nil {
		return nil, err
	}
	s.Dirty = false
	s.SavedAt = time.Now()
	return res, nil
}
