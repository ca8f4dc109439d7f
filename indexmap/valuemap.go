package indexmap

import (
	"fmt"
	"slices"
)

var _ IndexMap = new(ValueMap[any])

// ValueMap binds one value of type T to every physical index.
// Values stay attached to their physical element when indexes
// are moved, skipped, inserted or removed.
type ValueMap[T any] struct {
	changeHooks
	values   []T
	init     func(index int) T
	inserted func(length, offset int) T
}

// NewValueMap returns an empty ValueMap that uses init
// to create the value for every index on Init.
// A nil init creates zero values.
func NewValueMap[T any](init func(index int) T) *ValueMap[T] {
	if init == nil {
		init = func(int) (zero T) { return zero }
	}
	return &ValueMap[T]{init: init}
}

// NewConstValueMap returns an empty ValueMap
// that initializes every index with value.
func NewConstValueMap[T any](value T) *ValueMap[T] {
	return NewValueMap(func(int) T { return value })
}

// NewIndexValueMap returns an empty ValueMap that initializes
// every index with the index itself.
func NewIndexValueMap() *ValueMap[int] {
	return NewValueMap(identity)
}

// WithInsertedValues sets the function creating the values
// for inserted indexes.
// It is called with the length of the map before the insertion
// and the offset of the inserted index from the first inserted index.
// By default the init function of the map is called
// with length+offset.
func (m *ValueMap[T]) WithInsertedValues(inserted func(length, offset int) T) *ValueMap[T] {
	m.inserted = inserted
	return m
}

func (m *ValueMap[T]) kind() mapKind { return valueKind }

func (m *ValueMap[T]) Init(length int) {
	m.values = make([]T, max(length, 0))
	for i := range m.values {
		m.values[i] = m.init(i)
	}
	m.changed()
}

func (m *ValueMap[T]) Len() int { return len(m.values) }

// Values returns a copy of all values in physical index order.
func (m *ValueMap[T]) Values() []T { return slices.Clone(m.values) }

// SetValues replaces all values,
// len(values) must match the length of the map.
func (m *ValueMap[T]) SetValues(values []T) error {
	if len(values) != len(m.values) {
		return fmt.Errorf("%d values for %d indexes: %w", len(values), len(m.values), ErrLengthMismatch)
	}
	m.values = slices.Clone(values)
	m.changed()
	return nil
}

// ValueAtIndex returns the value bound to physicalIndex
// or false if physicalIndex is out of range.
func (m *ValueMap[T]) ValueAtIndex(physicalIndex int) (value T, ok bool) {
	if physicalIndex < 0 || physicalIndex >= len(m.values) {
		return value, false
	}
	return m.values[physicalIndex], true
}

// SetValueAtIndex binds value to physicalIndex.
func (m *ValueMap[T]) SetValueAtIndex(physicalIndex int, value T) error {
	if physicalIndex < 0 || physicalIndex >= len(m.values) {
		return fmt.Errorf("physical index %d not in [0..%d): %w", physicalIndex, len(m.values), ErrIndexOutOfRange)
	}
	m.values[physicalIndex] = value
	m.changed()
	return nil
}

// UpdateIndexesAfterInsertion inserts the values for the inserted
// indexes at the physical position of the first inserted index.
func (m *ValueMap[T]) UpdateIndexesAfterInsertion(insertionIndex int, insertedIndexes []int) {
	if len(insertedIndexes) == 0 {
		return
	}
	length := len(m.values)
	newValues := make([]T, len(insertedIndexes))
	for offset := range newValues {
		if m.inserted != nil {
			newValues[offset] = m.inserted(length, offset)
		} else {
			newValues[offset] = m.init(length + offset)
		}
	}
	position := min(max(insertedIndexes[0], 0), length)
	m.values = slices.Insert(m.values, position, newValues...)
	m.changed()
}

// UpdateIndexesAfterRemoval drops the values of the removed indexes.
// The values of the remaining indexes move with their
// compacted physical indexes.
func (m *ValueMap[T]) UpdateIndexesAfterRemoval(removedIndexes []int) {
	removed := inRange(removedIndexes, len(m.values))
	if len(removed) == 0 {
		return
	}
	kept := m.values[:0]
	for i, value := range m.values {
		if _, found := slices.BinarySearch(removed, i); !found {
			kept = append(kept, value)
		}
	}
	clear(m.values[len(kept):])
	m.values = kept
	m.changed()
}
