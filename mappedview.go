package regrid

import "github.com/domonda/go-regrid/indexmap"

var _ View = new(MappedView)

// MappedView renders a Source view, whose rows and columns
// are in physical order, in the visual order of its mappers.
// A nil mapper keeps the physical order of its axis.
//
// The mappers must be initialized to the number of
// rows and columns of Source.
type MappedView struct {
	Source View
	Rows   *indexmap.IndexMapper
	Cols   *indexmap.IndexMapper
}

// NewMappedView returns a MappedView with new mappers
// initialized to the rows and columns of source.
// The options are applied to both mappers after
// naming them "rows" and "columns".
func NewMappedView(source View, options ...indexmap.Option) *MappedView {
	view := &MappedView{
		Source: source,
		Rows:   indexmap.New(append([]indexmap.Option{indexmap.WithName("rows")}, options...)...),
		Cols:   indexmap.New(append([]indexmap.Option{indexmap.WithName("columns")}, options...)...),
	}
	// Lengths are never negative
	_ = view.Rows.InitToLength(source.NumRows())
	_ = view.Cols.InitToLength(len(source.Columns()))
	return view
}

func (view *MappedView) Title() string { return view.Source.Title() }

func (view *MappedView) Columns() []string {
	sourceCols := view.Source.Columns()
	if view.Cols == nil {
		return sourceCols
	}
	cols := make([]string, 0, view.Cols.NotSkippedIndexesLength())
	for _, physical := range view.Cols.NotSkippedIndexes() {
		if physical < len(sourceCols) {
			cols = append(cols, sourceCols[physical])
		}
	}
	return cols
}

func (view *MappedView) NumRows() int {
	if view.Rows == nil {
		return view.Source.NumRows()
	}
	return view.Rows.NotSkippedIndexesLength()
}

func (view *MappedView) Cell(row, col int) any {
	row, ok := physicalIndex(view.Rows, row)
	if !ok {
		return nil
	}
	col, ok = physicalIndex(view.Cols, col)
	if !ok {
		return nil
	}
	return view.Source.Cell(row, col)
}

func physicalIndex(mapper *indexmap.IndexMapper, visualIndex int) (int, bool) {
	if mapper == nil {
		return visualIndex, visualIndex >= 0
	}
	return mapper.PhysicalIndex(visualIndex)
}
