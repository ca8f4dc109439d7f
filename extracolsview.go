package regrid

var _ View = ExtraColsView(nil)

// ExtraColsView concatenates the columns of multiple views.
//
// The title is the title of the first view and the number
// of rows is the maximum of all views, shorter views have
// nil cells in their extra rows.
//
//	combined := regrid.ExtraColsView{people, locations}
//	combined.Columns() // ["Name", "Age", "City", "Country"]
type ExtraColsView []View

func (e ExtraColsView) Title() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Title()
}

func (e ExtraColsView) Columns() []string {
	var columns []string
	for _, view := range e {
		columns = append(columns, view.Columns()...)
	}
	return columns
}

func (e ExtraColsView) NumRows() int {
	numRows := 0
	for _, view := range e {
		numRows = max(numRows, view.NumRows())
	}
	return numRows
}

func (e ExtraColsView) Cell(row, col int) any {
	if row < 0 || col < 0 {
		return nil
	}
	for _, view := range e {
		numCols := len(view.Columns())
		if col < numCols {
			if row >= view.NumRows() {
				return nil
			}
			return view.Cell(row, col)
		}
		col -= numCols
	}
	return nil
}
