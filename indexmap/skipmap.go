package indexmap

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

var _ IndexMap = new(SkipMap)

// SkipMap marks physical indexes as skipped for one reason,
// for example because they were hidden by the user.
// The skipped physical indexes are kept in a roaring bitmap.
type SkipMap struct {
	changeHooks
	length  int
	skipped *roaring.Bitmap
}

// NewSkipMap returns an empty SkipMap.
func NewSkipMap() *SkipMap {
	return &SkipMap{skipped: roaring.New()}
}

func (m *SkipMap) kind() mapKind { return skipKind }

func (m *SkipMap) bitmap() *roaring.Bitmap {
	if m.skipped == nil {
		m.skipped = roaring.New()
	}
	return m.skipped
}

// Init resets the map to length not skipped indexes.
func (m *SkipMap) Init(length int) {
	m.length = max(length, 0)
	m.bitmap().Clear()
	m.changed()
}

func (m *SkipMap) Len() int { return m.length }

// IsSkipped returns if physicalIndex is marked as skipped.
// Out of range indexes are never skipped.
func (m *SkipMap) IsSkipped(physicalIndex int) bool {
	if physicalIndex < 0 || physicalIndex >= m.length {
		return false
	}
	return m.bitmap().Contains(uint32(physicalIndex))
}

// SetSkipped marks or unmarks physicalIndex as skipped.
func (m *SkipMap) SetSkipped(physicalIndex int, skipped bool) error {
	return m.SetSkippedIndexes([]int{physicalIndex}, skipped)
}

// SetSkippedIndexes marks or unmarks all physicalIndexes as skipped.
// Nothing is changed if any of the indexes is out of range.
func (m *SkipMap) SetSkippedIndexes(physicalIndexes []int, skipped bool) error {
	for _, index := range physicalIndexes {
		if index < 0 || index >= m.length {
			return fmt.Errorf("physical index %d not in [0..%d): %w", index, m.length, ErrIndexOutOfRange)
		}
	}
	bm := m.bitmap()
	changed := false
	for _, index := range physicalIndexes {
		if skipped {
			changed = bm.CheckedAdd(uint32(index)) || changed
		} else {
			changed = bm.CheckedRemove(uint32(index)) || changed
		}
	}
	if changed {
		m.changed()
	}
	return nil
}

// SkippedIndexes returns the skipped physical indexes in ascending order.
func (m *SkipMap) SkippedIndexes() []int {
	return toInts(m.bitmap().ToArray())
}

// Values returns one boolean per physical index.
func (m *SkipMap) Values() []bool {
	values := make([]bool, m.length)
	it := m.bitmap().Iterator()
	for it.HasNext() {
		values[it.Next()] = true
	}
	return values
}

// SetValues replaces all skip flags,
// len(values) must match the length of the map.
func (m *SkipMap) SetValues(values []bool) error {
	if len(values) != m.length {
		return fmt.Errorf("%d skip values for %d indexes: %w", len(values), m.length, ErrLengthMismatch)
	}
	bm := m.bitmap()
	bm.Clear()
	for i, skipped := range values {
		if skipped {
			bm.Add(uint32(i))
		}
	}
	m.changed()
	return nil
}

// UpdateIndexesAfterInsertion shifts skipped indexes greater or equal
// to the first inserted index by the number of inserted indexes.
// Inserted indexes are not skipped.
func (m *SkipMap) UpdateIndexesAfterInsertion(insertionIndex int, insertedIndexes []int) {
	if len(insertedIndexes) == 0 {
		return
	}
	m.skipped = roaring.BitmapOf(toUint32s(increaseIndexes(m.SkippedIndexes(), insertedIndexes))...)
	m.length += len(insertedIndexes)
	m.changed()
}

// UpdateIndexesAfterRemoval drops the removed indexes
// and compacts the remaining skipped indexes.
func (m *SkipMap) UpdateIndexesAfterRemoval(removedIndexes []int) {
	removed := inRange(removedIndexes, m.length)
	if len(removed) == 0 {
		return
	}
	m.skipped = roaring.BitmapOf(toUint32s(decreaseIndexes(filterIndexes(m.SkippedIndexes(), removed), removed))...)
	m.length -= len(removed)
	m.changed()
}

// inRange returns the sorted unique indexes within [0..length).
func inRange(indexes []int, length int) []int {
	return slices.DeleteFunc(sortedUnique(indexes), func(index int) bool {
		return index < 0 || index >= length
	})
}

func toInts(values []uint32) []int {
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v)
	}
	return ints
}

func toUint32s(values []int) []uint32 {
	u := make([]uint32, len(values))
	for i, v := range values {
		u[i] = uint32(v)
	}
	return u
}
