package grid

// Entry describes how editors display one tile symbol.
type Entry struct {
	Symbol rune
	Label  string
	Color  string // ANSI 256 color code or hex, as understood by lipgloss
}

// Palette is an ordered set of display entries.
type Palette []Entry

// DefaultPalette lists the symbols the game engine interprets.
func DefaultPalette() Palette {
	return Palette{
		{Symbol: '#', Label: "Wall", Color: "167"},
		{Symbol: 'P', Label: "Player", Color: "75"},
		{Symbol: '.', Label: "Empty", Color: "255"},
		{Symbol: 'E', Label: "Exit", Color: "35"},
		{Symbol: 'X', Label: "Enemy", Color: "220"},
		{Symbol: 'F', Label: "Follower", Color: "170"},
	}
}

// Lookup returns the entry for symbol. Unknown symbols fall back to the
// entry for empty, so editors can show any rune without rejecting it.
func (p Palette) Lookup(symbol, empty rune) (Entry, bool) {
	for _, e := range p {
		if e.Symbol == symbol {
			return e, true
		}
	}
	for _, e := range p {
		if e.Symbol == empty {
			return Entry{Symbol: symbol, Label: e.Label, Color: e.Color}, false
		}
	}
	return Entry{Symbol: symbol}, false
}
