// Package codegen renders the C++ headers the game build compiles: one
// header per level embedding its text in a raw string literal, and an
// aggregate header listing every built level in canonical order.
//
// Both generators are pure functions of their inputs, so rebuilding an
// unchanged level reproduces byte-identical output.
//
// # Delimiter contract
//
// Level text is embedded verbatim between R"( and )". The generator does
// not escape or detect the closing sequence; text containing [Delimiter]
// produces a header that does not compile. Callers that want to warn can
// check [ContainsDelimiter] first.
package codegen

import (
	"strings"
)

// Defaults for generated identifiers.
const (
	DefaultNamespace = "Assets"
	DefaultListName  = "ALL_LEVELS"
)

// Delimiter closes the raw string literal that embeds level text.
const Delimiter = `)"`

// Options controls identifiers in generated code.
type Options struct {
	Namespace string
	ListName  string
}

func (o Options) withDefaults() Options {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.ListName == "" {
		o.ListName = DefaultListName
	}
	return o
}

// ContainsDelimiter reports whether text would terminate the raw literal early.
func ContainsDelimiter(text string) bool {
	return strings.Contains(text, Delimiter)
}
