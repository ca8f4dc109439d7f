package regrid

import (
	"slices"

	"github.com/domonda/go-regrid/indexmap"
)

// BindRowsWithHeadersKey is the key of the value map
// registered by BindHeaders.
const BindRowsWithHeadersKey = "bindRowsWithHeaders"

// HeaderBinding binds header labels to physical rows
// so that a row keeps its header when rows are
// moved, hidden, inserted or removed.
//
// Labels start as the initial physical index of a row,
// inserted rows get labels greater than all existing labels.
type HeaderBinding struct {
	mapper *indexmap.IndexMapper
	key    string
	labels *indexmap.ValueMap[int]
}

// BindHeaders registers a value map under key in the
// value maps of mapper.
func BindHeaders(mapper *indexmap.IndexMapper, key string) (*HeaderBinding, error) {
	b := &HeaderBinding{mapper: mapper, key: key}
	// offset 0 starts every insertion
	next := 0
	labels := indexmap.NewIndexValueMap().WithInsertedValues(func(_, offset int) int {
		if offset == 0 {
			next = b.nextLabel()
		}
		return next + offset
	})
	var err error
	b.labels, err = indexmap.RegisterMap(mapper.ValueMaps(), key, labels)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *HeaderBinding) nextLabel() int {
	labels := b.labels.Values()
	if len(labels) == 0 {
		return 0
	}
	return slices.Max(labels) + 1
}

// Header returns the label bound to the row
// rendered at visualRow.
func (b *HeaderBinding) Header(visualRow int) (int, bool) {
	physical, ok := b.mapper.PhysicalIndex(visualRow)
	if !ok {
		return 0, false
	}
	return b.labels.ValueAtIndex(physical)
}

// Headers returns the labels of all visual rows.
func (b *HeaderBinding) Headers() []int {
	headers := make([]int, b.mapper.NotSkippedIndexesLength())
	for row := range headers {
		headers[row], _ = b.Header(row)
	}
	return headers
}

// Unbind removes the value map from the mapper.
func (b *HeaderBinding) Unbind() bool {
	return b.mapper.ValueMaps().Unregister(b.key)
}

// View returns a View with a leading column named title
// holding the 1-based row number of the bound label
// of every row of source.
// The rows of source must be in the visual order of the mapper,
// like the rows of a Grid using the mapper.
func (b *HeaderBinding) View(source View, title string) View {
	return ExtraColsView{&headerColumnView{source: source, binding: b, title: title}, source}
}

// headerColumnView is the single column of labels
// for the rows of source.
type headerColumnView struct {
	source  View
	binding *HeaderBinding
	title   string
}

func (v *headerColumnView) Title() string     { return v.source.Title() }
func (v *headerColumnView) Columns() []string { return []string{v.title} }
func (v *headerColumnView) NumRows() int      { return v.source.NumRows() }

func (v *headerColumnView) Cell(row, col int) any {
	if col != 0 || row >= v.source.NumRows() {
		return nil
	}
	label, ok := v.binding.Header(row)
	if !ok {
		return nil
	}
	return label + 1
}
