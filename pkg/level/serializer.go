package level

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
)

// Serializer converts between level text files and grid documents.
// The zero value uses the grid package defaults.
type Serializer struct {
	GridOptions []grid.Option
}

// NewSerializer creates a serializer that builds documents with opts.
func NewSerializer(opts ...grid.Option) *Serializer {
	return &Serializer{GridOptions: opts}
}

// Save writes doc to path, creating parent directories. The file is
// overwritten in place; the previous content is not backed up.
func (s *Serializer) Save(path string, doc *grid.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create level dir")
	}
	if err := os.WriteFile(path, []byte(doc.Serialize()), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Load reads the level at path. A missing file is NOT_FOUND; an empty file
// yields the default blank grid.
func (s *Serializer) Load(path string) (*grid.Document, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	return grid.FromLines(SplitLines(text), s.GridOptions...), nil
}

// ReadText returns the raw contents of a level text file.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "level file %s does not exist", path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return string(data), nil
}

// SplitLines splits level text into rows. The newline terminating the last
// row does not start a new row, and a carriage return before each newline
// is dropped. Nothing else is trimmed.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
