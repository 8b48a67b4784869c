package grid

// DefaultTemplate is the content of a freshly created level: a player
// start in the top-left corner above a solid floor.
var DefaultTemplate = []string{
	"P.........",
	"..........",
	"..........",
	"..........",
	"..........",
	"##########",
}

// Template builds a document from template lines, falling back to
// DefaultTemplate when lines is empty.
func Template(lines []string, opts ...Option) *Document {
	if len(lines) == 0 {
		lines = DefaultTemplate
	}
	return FromLines(lines, opts...)
}
