package grid

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/levelforge/pkg/errors"
)

// Defaults used when no options override them.
const (
	// DefaultEmpty is the symbol of an unpainted tile.
	DefaultEmpty = '.'

	// DefaultRows and DefaultCols size the blank grid used when a level has
	// no content yet.
	DefaultRows = 15
	DefaultCols = 20
)

// Document is an R×C matrix of tiles.
type Document struct {
	rows  int
	cols  int
	empty rune
	cells [][]rune
}

// options controls how documents are created.
type options struct {
	empty       rune
	defaultRows int
	defaultCols int
}

// Option configures document construction.
type Option func(*options)

// WithEmpty sets the empty symbol used for blank and padded tiles.
func WithEmpty(r rune) Option {
	return func(o *options) { o.empty = r }
}

// WithDefaultSize sets the dimensions of the fallback blank grid.
// Non-positive values are ignored.
func WithDefaultSize(rows, cols int) Option {
	return func(o *options) {
		if rows > 0 && cols > 0 {
			o.defaultRows, o.defaultCols = rows, cols
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{empty: DefaultEmpty, defaultRows: DefaultRows, defaultCols: DefaultCols}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a rows×cols document with every tile set to the empty symbol.
func New(rows, cols int, opts ...Option) (*Document, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "grid dimensions must be positive, got %dx%d", rows, cols)
	}
	o := buildOptions(opts)
	return blank(rows, cols, o.empty), nil
}

// Blank returns the default blank grid (15×20 unless overridden).
func Blank(opts ...Option) *Document {
	o := buildOptions(opts)
	return blank(o.defaultRows, o.defaultCols, o.empty)
}

func blank(rows, cols int, empty rune) *Document {
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = filledRow(cols, empty)
	}
	return &Document{rows: rows, cols: cols, empty: empty, cells: cells}
}

func filledRow(cols int, empty rune) []rune {
	row := make([]rune, cols)
	for c := range row {
		row[c] = empty
	}
	return row
}

// FromLines builds a document from text lines. Rows equal the number of
// lines and columns equal the longest line in runes; shorter lines are
// right-padded with the empty symbol and nothing is truncated.
//
// With no lines the default blank grid is returned instead of a 0×0 grid.
// When every line is empty the grid gets a single column.
func FromLines(lines []string, opts ...Option) *Document {
	o := buildOptions(opts)
	if len(lines) == 0 {
		return blank(o.defaultRows, o.defaultCols, o.empty)
	}

	cols := 1
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > cols {
			cols = n
		}
	}

	cells := make([][]rune, len(lines))
	for r, line := range lines {
		row := filledRow(cols, o.empty)
		copy(row, []rune(line))
		cells[r] = row
	}
	return &Document{rows: len(lines), cols: cols, empty: o.empty, cells: cells}
}

// Rows returns the number of rows.
func (d *Document) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Document) Cols() int { return d.cols }

// Empty returns the symbol used for blank tiles.
func (d *Document) Empty() rune { return d.empty }

func (d *Document) checkBounds(r, c int) error {
	if r < 0 || r >= d.rows || c < 0 || c >= d.cols {
		return errors.New(errors.ErrCodeOutOfRange, "cell (%d,%d) outside %dx%d grid", r, c, d.rows, d.cols)
	}
	return nil
}

// Cell returns the tile at (r, c).
func (d *Document) Cell(r, c int) (rune, error) {
	if err := d.checkBounds(r, c); err != nil {
		return 0, err
	}
	return d.cells[r][c], nil
}

// SetCell stores symbol at (r, c).
func (d *Document) SetCell(r, c int, symbol rune) error {
	if err := d.checkBounds(r, c); err != nil {
		return err
	}
	d.cells[r][c] = symbol
	return nil
}

// Resize changes the grid to newRows×newCols. Tiles inside the overlap of
// the old and new bounds are kept; every other tile is the empty symbol.
// Tiles outside the new bounds are discarded.
func (d *Document) Resize(newRows, newCols int) error {
	if newRows <= 0 || newCols <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "grid dimensions must be positive, got %dx%d", newRows, newCols)
	}

	next := blank(newRows, newCols, d.empty)
	keepRows := min(d.rows, newRows)
	keepCols := min(d.cols, newCols)
	for r := 0; r < keepRows; r++ {
		copy(next.cells[r][:keepCols], d.cells[r][:keepCols])
	}

	d.rows, d.cols, d.cells = newRows, newCols, next.cells
	return nil
}

// Lines returns each row as a string.
func (d *Document) Lines() []string {
	lines := make([]string, d.rows)
	for r, row := range d.cells {
		lines[r] = string(row)
	}
	return lines
}

// Serialize returns the rows joined by newlines with a trailing newline.
func (d *Document) Serialize() string {
	var b strings.Builder
	for _, row := range d.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	cells := make([][]rune, d.rows)
	for r, row := range d.cells {
		cells[r] = append([]rune(nil), row...)
	}
	return &Document{rows: d.rows, cols: d.cols, empty: d.empty, cells: cells}
}

// Equal reports whether both documents have the same dimensions and tiles.
func (d *Document) Equal(other *Document) bool {
	if other == nil || d.rows != other.rows || d.cols != other.cols {
		return false
	}
	for r := range d.cells {
		for c := range d.cells[r] {
			if d.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}
