package codegen

import (
	"strings"

	"github.com/matzehuels/levelforge/pkg/level"
)

// BuildHeader returns the header defining name's string constant.
//
//	#pragma once
//	#include <string>
//
//	namespace Assets {
//	    constexpr const char* TEST_ROOM = R"(
//	P.........
//	...
//	)";
//	}
func BuildHeader(name, text string, opts Options) []byte {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString("#pragma once\n")
	b.WriteString("#include <string>\n")
	b.WriteString("\n")
	b.WriteString("namespace " + opts.Namespace + " {\n")
	b.WriteString("    constexpr const char* " + level.Symbol(name) + " = R\"(\n")
	b.WriteString(text)
	b.WriteString(Delimiter + ";\n")
	b.WriteString("}\n")
	return []byte(b.String())
}
