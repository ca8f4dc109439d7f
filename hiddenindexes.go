package regrid

import (
	"fmt"

	"github.com/domonda/go-regrid/indexmap"
)

const (
	// HiddenRowsKey is the key of the SkipMap
	// registered for rows hidden by the user.
	HiddenRowsKey = "hiddenRows"

	// HiddenColumnsKey is the key of the SkipMap
	// registered for columns hidden by the user.
	HiddenColumnsKey = "hiddenColumns"
)

// HiddenIndexes hides physical rows or columns
// by registering a SkipMap with an IndexMapper.
type HiddenIndexes struct {
	mapper *indexmap.IndexMapper
	key    string
	hidden *indexmap.SkipMap
}

// NewHiddenIndexes registers a SkipMap under key
// in the skip maps of mapper.
func NewHiddenIndexes(mapper *indexmap.IndexMapper, key string) (*HiddenIndexes, error) {
	hidden, err := indexmap.RegisterMap(mapper.SkipMaps(), key, indexmap.NewSkipMap())
	if err != nil {
		return nil, err
	}
	return &HiddenIndexes{mapper: mapper, key: key, hidden: hidden}, nil
}

// Hide hides the physical indexes.
func (h *HiddenIndexes) Hide(physicalIndexes ...int) error {
	return h.hidden.SetSkippedIndexes(physicalIndexes, true)
}

// HideVisual hides the indexes currently rendered
// at the visual indexes.
func (h *HiddenIndexes) HideVisual(visualIndexes ...int) error {
	physical, err := physicalIndexes(h.mapper, visualIndexes)
	if err != nil {
		return fmt.Errorf("hide: %w", err)
	}
	return h.hidden.SetSkippedIndexes(physical, true)
}

// Show shows the physical indexes if they were hidden.
func (h *HiddenIndexes) Show(physicalIndexes ...int) error {
	return h.hidden.SetSkippedIndexes(physicalIndexes, false)
}

// ShowAll shows all hidden indexes.
func (h *HiddenIndexes) ShowAll() error {
	return h.hidden.SetSkippedIndexes(h.hidden.SkippedIndexes(), false)
}

// IsHidden returns if the physical index is hidden.
// An index can still be skipped by other skip maps
// of the mapper when it is not hidden.
func (h *HiddenIndexes) IsHidden(physicalIndex int) bool {
	return h.hidden.IsSkipped(physicalIndex)
}

// Hidden returns the hidden physical indexes in ascending order.
func (h *HiddenIndexes) Hidden() []int {
	return h.hidden.SkippedIndexes()
}

// Unregister removes the SkipMap from the mapper,
// which shows all indexes hidden by it.
func (h *HiddenIndexes) Unregister() bool {
	return h.mapper.SkipMaps().Unregister(h.key)
}
