// Package regrid renders tabular data in a visual order
// that is decoupled from the physical order of the stored
// rows and columns.
//
// A View is the read interface used by the writers in the
// csvtable and htmltable packages. A Grid stores cells in
// physical order and implements View in visual order using
// one indexmap.IndexMapper for rows and one for columns,
// so rows and columns can be moved, hidden, inserted and
// removed without touching the rendering code.
package regrid

// View is a read-only table with named columns.
// Cell returns nil for out of range indexes.
type View interface {
	Title() string
	Columns() []string
	NumRows() int
	Cell(row, col int) any
}
