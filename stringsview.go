package regrid

import "strings"

var _ View = new(StringsView)

// StringsView is a View with string cell values.
//
// A row within Rows can have fewer elements than Cols,
// empty strings are returned for the missing cells.
type StringsView struct {
	// Tit is the title of this view, returned by the Title() method.
	Tit string

	// Cols contains the column names defining both the column headers
	// and the number of columns in this view.
	Cols []string

	// Rows contains the data rows, where each row is a slice of strings.
	Rows [][]string
}

// NewStringsView returns a StringsView with the passed columns,
// or with the first row as columns if no columns are passed.
// Column names are trimmed.
//
//	view := regrid.NewStringsView(
//	    "Products",
//	    [][]string{
//	        {"ID", "Name", "Price"},
//	        {"1", "Widget", "9.99"},
//	        {"2", "Gadget", "19.99"},
//	    },
//	)
//	fmt.Println(view.Cell(0, 1)) // Output: Widget
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: cols, Rows: rows}
}

func (view *StringsView) Title() string     { return view.Tit }
func (view *StringsView) Columns() []string { return view.Cols }
func (view *StringsView) NumRows() int      { return len(view.Rows) }

func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}

var _ View = new(HeaderView)

// HeaderView is a View with a single row
// containing the column names.
type HeaderView struct {
	Tit  string
	Cols []string
}

// NewHeaderViewFrom returns a HeaderView
// with the title and columns of source.
func NewHeaderViewFrom(source View) *HeaderView {
	return &HeaderView{Tit: source.Title(), Cols: source.Columns()}
}

func (view *HeaderView) Title() string     { return view.Tit }
func (view *HeaderView) Columns() []string { return view.Cols }
func (view *HeaderView) NumRows() int      { return 1 }

func (view *HeaderView) Cell(row, col int) any {
	if row != 0 || col < 0 || col >= len(view.Cols) {
		return nil
	}
	return view.Cols[col]
}
