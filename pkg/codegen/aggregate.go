package codegen

import (
	"strings"

	"github.com/matzehuels/levelforge/pkg/level"
)

// BuiltFunc reports whether a level's header currently exists.
type BuiltFunc func(name string) bool

// BuildAggregate returns the aggregate header for order. Levels for which
// built returns false are left out without error.
func BuildAggregate(order []string, built BuiltFunc, opts Options) []byte {
	opts = opts.withDefaults()

	included := make([]string, 0, len(order))
	for _, name := range order {
		if built == nil || built(name) {
			included = append(included, name)
		}
	}

	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("#include <vector>\n")
	b.WriteString("#include <string>\n")
	for _, name := range included {
		b.WriteString("#include \"" + level.HeaderFile(name) + "\"\n")
	}
	b.WriteString("\n\n")
	b.WriteString("namespace " + opts.Namespace + " {\n")
	b.WriteString("    const std::vector<std::string> " + opts.ListName + " = {\n")
	for _, name := range included {
		b.WriteString("        " + level.Symbol(name) + ",\n")
	}
	b.WriteString("\n")
	b.WriteString("    };\n")
	b.WriteString("}\n")
	return []byte(b.String())
}
