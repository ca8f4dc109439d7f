package regrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappedView(t *testing.T) {
	source := NewStringsView("Source", [][]string{
		{"A", "B", "C"},
		{"a0", "b0", "c0"},
		{"a1", "b1", "c1"},
		{"a2", "b2", "c2"},
	})
	view := NewMappedView(source)
	require.Equal(t, "Source", view.Title())
	require.Equal(t, []string{"A", "B", "C"}, view.Columns())
	require.Equal(t, 3, view.NumRows())

	view.Rows.MoveIndexes([]int{2}, 0)
	view.Cols.MoveIndexes([]int{0}, 3)
	require.Equal(t, []string{"B", "C", "A"}, view.Columns())
	require.Equal(t, []any{"b2", "c2", "a2"}, rowValues(view, 0))

	hiddenCols, err := NewHiddenIndexes(view.Cols, HiddenColumnsKey)
	require.NoError(t, err)
	require.NoError(t, hiddenCols.Hide(1))
	require.Equal(t, []string{"C", "A"}, view.Columns())
	require.Equal(t, []any{"c0", "a0"}, rowValues(view, 1))
	require.Nil(t, view.Cell(0, 2))
	require.Nil(t, view.Cell(3, 0))
	require.Equal(t, source.Cell(0, 0), view.Source.Cell(0, 0), "source is not changed")
}

func TestMappedView_NilMappers(t *testing.T) {
	source := &AnyValuesView{Cols: []string{"A", "B"}, Rows: [][]any{{1, 2}, {3, 4}}}
	view := &MappedView{Source: source}
	require.Equal(t, []string{"A", "B"}, view.Columns())
	require.Equal(t, 2, view.NumRows())
	require.Equal(t, 4, view.Cell(1, 1))
	require.Nil(t, view.Cell(-1, 0))
}

func TestExtraColsView(t *testing.T) {
	left := &AnyValuesView{Tit: "Left", Cols: []string{"A", "B"}, Rows: [][]any{{1, 2}, {3, 4}, {5, 6}}}
	right := &AnyValuesView{Tit: "Right", Cols: []string{"C"}, Rows: [][]any{{"x"}}}
	tests := []struct {
		name     string
		view     ExtraColsView
		wantCols []string
		wantRows int
		wantRow1 []any
	}{
		{name: "empty", view: nil, wantCols: nil, wantRows: 0, wantRow1: []any{}},
		{name: "left right", view: ExtraColsView{left, right}, wantCols: []string{"A", "B", "C"}, wantRows: 3, wantRow1: []any{3, 4, nil}},
		{name: "right left", view: ExtraColsView{right, left}, wantCols: []string{"C", "A", "B"}, wantRows: 3, wantRow1: []any{nil, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantCols, tt.view.Columns())
			require.Equal(t, tt.wantRows, tt.view.NumRows())
			require.Equal(t, tt.wantRow1, rowValues(tt.view, 1))
			require.Nil(t, tt.view.Cell(0, 3))
		})
	}
	require.Equal(t, "Left", ExtraColsView{left, right}.Title())
	require.Equal(t, "", ExtraColsView{}.Title())
}

func rowValues(view View, row int) []any {
	values := make([]any, len(view.Columns()))
	for col := range values {
		values[col] = view.Cell(row, col)
	}
	return values
}
