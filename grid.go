package regrid

import (
	"fmt"
	"slices"

	"github.com/domonda/go-regrid/indexmap"
)

var _ View = new(Grid)

// Grid stores cells in physical row and column order
// and implements View in visual order.
//
// Row and column indexes of the View methods and of all
// structural edits are visual indexes.
// Use RowMapper and ColumnMapper to translate between
// visual and physical indexes or to register additional
// skip and value maps.
type Grid struct {
	data *AnyValuesView
	view *MappedView
}

// NewGrid returns a Grid with the passed columns and rows
// in identity order.
// Rows are copied and padded with nil or truncated
// to the number of columns.
// The options are applied to both the row and the column mapper,
// use indexmap.IfNamed with "rows" or "columns" to configure only one of them.
func NewGrid(title string, cols []string, rows [][]any, options ...indexmap.Option) *Grid {
	data := &AnyValuesView{
		Tit:  title,
		Cols: slices.Clone(cols),
		Rows: make([][]any, len(rows)),
	}
	for i, row := range rows {
		data.Rows[i] = make([]any, len(cols))
		copy(data.Rows[i], row)
	}
	return &Grid{data: data, view: NewMappedView(data, options...)}
}

// NewGridFromView returns a Grid with all cells of source.
func NewGridFromView(source View, options ...indexmap.Option) *Grid {
	return NewGrid(source.Title(), source.Columns(), NewAnyValuesViewFrom(source).Rows, options...)
}

func (g *Grid) Title() string { return g.view.Title() }

// Columns returns the names of the visible columns in visual order.
func (g *Grid) Columns() []string { return g.view.Columns() }

// NumRows returns the number of visible rows.
func (g *Grid) NumRows() int { return g.view.NumRows() }

// Cell returns the value at the visual row and column
// or nil if row or col is out of range.
func (g *Grid) Cell(row, col int) any { return g.view.Cell(row, col) }

// SetCell sets the value at the visual row and column.
func (g *Grid) SetCell(row, col int, value any) error {
	physicalRow, ok := g.view.Rows.PhysicalIndex(row)
	if !ok {
		return fmt.Errorf("visual row %d: %w", row, indexmap.ErrIndexOutOfRange)
	}
	physicalCol, ok := g.view.Cols.PhysicalIndex(col)
	if !ok {
		return fmt.Errorf("visual column %d: %w", col, indexmap.ErrIndexOutOfRange)
	}
	g.data.Rows[physicalRow][physicalCol] = value
	return nil
}

// PhysicalCell returns the value at the physical row and column
// or nil if row or col is out of range.
func (g *Grid) PhysicalCell(row, col int) any { return g.data.Cell(row, col) }

// NumPhysicalRows returns the number of all rows including hidden ones.
func (g *Grid) NumPhysicalRows() int { return g.data.NumRows() }

// PhysicalColumns returns the names of all columns in physical order.
func (g *Grid) PhysicalColumns() []string { return slices.Clone(g.data.Cols) }

// RowMapper returns the IndexMapper of the rows.
func (g *Grid) RowMapper() *indexmap.IndexMapper { return g.view.Rows }

// ColumnMapper returns the IndexMapper of the columns.
func (g *Grid) ColumnMapper() *indexmap.IndexMapper { return g.view.Cols }

// InsertRows inserts count empty rows before the visual row.
// If row is not a visual index, the rows are appended.
func (g *Grid) InsertRows(row, count int) error {
	physical, ok := g.view.Rows.PhysicalIndex(row)
	if !ok {
		physical = len(g.data.Rows)
	}
	err := g.view.Rows.UpdateIndexesAfterInsertion(row, physical, count)
	if err != nil || count == 0 {
		return err
	}
	inserted := make([][]any, count)
	for i := range inserted {
		inserted[i] = make([]any, len(g.data.Cols))
	}
	g.data.Rows = slices.Insert(g.data.Rows, physical, inserted...)
	return nil
}

// RemoveRows removes the rows at the visual indexes.
// Nothing is removed if any of the indexes is out of range.
func (g *Grid) RemoveRows(rows ...int) error {
	physical, err := physicalIndexes(g.view.Rows, rows)
	if err != nil {
		return fmt.Errorf("remove rows: %w", err)
	}
	err = g.view.Rows.UpdateIndexesAfterRemoval(physical)
	if err != nil {
		return err
	}
	g.data.Rows = deleteIndexes(g.data.Rows, physical)
	return nil
}

// MoveRows moves the visual rows so that the first of them
// is rendered at the visual target row.
func (g *Grid) MoveRows(rows []int, target int) {
	g.view.Rows.MoveIndexes(rows, target)
}

// InsertColumns inserts empty columns with the passed names
// before the visual column.
// If col is not a visual index, the columns are appended.
func (g *Grid) InsertColumns(col int, names ...string) error {
	physical, ok := g.view.Cols.PhysicalIndex(col)
	if !ok {
		physical = len(g.data.Cols)
	}
	err := g.view.Cols.UpdateIndexesAfterInsertion(col, physical, len(names))
	if err != nil || len(names) == 0 {
		return err
	}
	g.data.Cols = slices.Insert(g.data.Cols, physical, names...)
	for i, row := range g.data.Rows {
		g.data.Rows[i] = slices.Insert(row, physical, make([]any, len(names))...)
	}
	return nil
}

// RemoveColumns removes the columns at the visual indexes.
// Nothing is removed if any of the indexes is out of range.
func (g *Grid) RemoveColumns(cols ...int) error {
	physical, err := physicalIndexes(g.view.Cols, cols)
	if err != nil {
		return fmt.Errorf("remove columns: %w", err)
	}
	err = g.view.Cols.UpdateIndexesAfterRemoval(physical)
	if err != nil {
		return err
	}
	g.data.Cols = deleteIndexes(g.data.Cols, physical)
	for i, row := range g.data.Rows {
		g.data.Rows[i] = deleteIndexes(row, physical)
	}
	return nil
}

// MoveColumns moves the visual columns so that the first of them
// is rendered at the visual target column.
func (g *Grid) MoveColumns(cols []int, target int) {
	g.view.Cols.MoveIndexes(cols, target)
}

func physicalIndexes(mapper *indexmap.IndexMapper, visualIndexes []int) ([]int, error) {
	physical := make([]int, len(visualIndexes))
	for i, visualIndex := range visualIndexes {
		p, ok := mapper.PhysicalIndex(visualIndex)
		if !ok {
			return nil, fmt.Errorf("visual index %d: %w", visualIndex, indexmap.ErrIndexOutOfRange)
		}
		physical[i] = p
	}
	return physical, nil
}

// deleteIndexes removes the elements at the passed positions from s.
func deleteIndexes[S ~[]E, E any](s S, indexes []int) S {
	kept := s[:0]
	for i, e := range s {
		if !slices.Contains(indexes, i) {
			kept = append(kept, e)
		}
	}
	clear(s[len(kept):])
	return kept
}
