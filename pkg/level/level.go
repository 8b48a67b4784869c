// Package level maps level names to their on-disk artifacts and reads and
// writes level text files.
//
// A level named "test room" is normalized to "test_room" and owns two files
// in the levels directory:
//
//	test_room.txt   the grid, one line per row
//	Test_room.h     the generated header defining TEST_ROOM
//
// Text file names are lower-cased while header names only capitalize the
// first character. The mismatch is inherited from the existing game build
// and kept so generated includes keep resolving.
package level

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/levelforge/pkg/errors"
)

// File extensions of level artifacts.
const (
	TextExt   = ".txt"
	HeaderExt = ".h"
)

// Normalize lower-cases name and replaces spaces with underscores.
// Surrounding whitespace is dropped first.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Record describes one level and where its files live.
type Record struct {
	Name string // normalized name
	Dir  string // levels directory
}

// NewRecord normalizes and validates rawName.
func NewRecord(dir, rawName string) (Record, error) {
	name := Normalize(rawName)
	if err := errors.ValidateLevelName(name); err != nil {
		return Record{}, err
	}
	return Record{Name: name, Dir: dir}, nil
}

// Symbol returns the C++ identifier of the level's string constant.
func (r Record) Symbol() string { return Symbol(r.Name) }

// TextPath returns the path of the level's text file.
func (r Record) TextPath() string {
	return filepath.Join(r.Dir, TextFile(r.Name))
}

// HeaderPath returns the path of the level's generated header.
func (r Record) HeaderPath() string {
	return filepath.Join(r.Dir, HeaderFile(r.Name))
}

// Symbol upper-cases name.
func Symbol(name string) string { return strings.ToUpper(name) }

// TextFile returns "<lower(name)>.txt".
func TextFile(name string) string { return strings.ToLower(name) + TextExt }

// HeaderFile returns "<Capitalized>.h" where only the first rune is
// upper-cased and the rest lower-cased.
func HeaderFile(name string) string { return capitalize(name) + HeaderExt }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
