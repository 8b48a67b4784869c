// Package grid provides the in-memory level model: a rectangular matrix of
// single-rune tiles.
//
// # Invariants
//
// A [Document] always has at least one row and one column, and every row
// holds exactly [Document.Cols] tiles. Loading pads short lines with the
// empty symbol; resizing keeps the overlap region and fills the rest with
// the empty symbol. No operation ever produces jagged rows.
//
// # Tiles
//
// Any rune is a valid tile. The [Palette] only describes how known symbols
// are displayed by editors; it is never used to validate grid contents.
//
// # Usage
//
//	doc := grid.FromLines([]string{"P..", "###"})
//	_ = doc.SetCell(0, 2, 'E')
//	_ = doc.Resize(4, 5)
//	text := doc.Serialize() // "P.E..\n###..\n.....\n.....\n"
package grid
