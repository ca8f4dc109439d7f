package indexmap

import "slices"

// IndexList is an ordered, mutable sequence of indexes
// with structural edit operations that keep the indexes dense
// when the index space grows or shrinks.
type IndexList struct {
	list   []int
	initFn func(index int) int
}

// NewIndexList returns an empty IndexList that uses initFn
// to generate the values of Init.
// A nil initFn generates the identity sequence.
func NewIndexList(initFn func(index int) int) *IndexList {
	if initFn == nil {
		initFn = identity
	}
	return &IndexList{initFn: initFn}
}

func identity(index int) int { return index }

// Init resets the list to length values generated
// by the init function of the list.
func (l *IndexList) Init(length int) *IndexList {
	if l.initFn == nil {
		l.initFn = identity
	}
	l.list = make([]int, max(length, 0))
	for i := range l.list {
		l.list[i] = l.initFn(i)
	}
	return l
}

// Indexes returns a copy of the list.
func (l *IndexList) Indexes() []int {
	return slices.Clone(l.list)
}

// SetIndexes replaces the list with a copy of indexes.
func (l *IndexList) SetIndexes(indexes []int) {
	l.list = slices.Clone(indexes)
}

// Len returns the number of indexes in the list.
func (l *IndexList) Len() int { return len(l.list) }

// InsertAt inserts the indexes at position after increasing
// all existing indexes greater or equal to the first inserted index
// by the number of inserted indexes.
func (l *IndexList) InsertAt(position int, inserted []int) {
	if len(inserted) == 0 {
		return
	}
	l.list = insertIndexes(increaseIndexes(l.list, inserted), position, inserted)
}

// RemoveAndReorganize removes all occurrences of the removed indexes
// and decreases every remaining index by the number
// of removed indexes smaller than it.
func (l *IndexList) RemoveAndReorganize(removed []int) {
	if len(removed) == 0 {
		return
	}
	l.list = decreaseIndexes(filterIndexes(l.list, removed), removed)
}

// increaseIndexes shifts every index >= inserted[0] up by len(inserted).
// The list is modified in place.
func increaseIndexes(list, inserted []int) []int {
	if len(inserted) == 0 {
		return list
	}
	first, count := inserted[0], len(inserted)
	for i, index := range list {
		if index >= first {
			list[i] = index + count
		}
	}
	return list
}

// insertIndexes splices inserted into list at position,
// position is clamped to the bounds of list.
func insertIndexes(list []int, position int, inserted []int) []int {
	position = min(max(position, 0), len(list))
	return slices.Insert(list, position, inserted...)
}

// filterIndexes drops every index contained in removed.
// The list is modified in place.
func filterIndexes(list, removed []int) []int {
	if len(removed) == 0 {
		return list
	}
	sorted := sortedUnique(removed)
	return slices.DeleteFunc(list, func(index int) bool {
		_, found := slices.BinarySearch(sorted, index)
		return found
	})
}

// decreaseIndexes shifts every index down by the number
// of removed indexes smaller than it.
// The list is modified in place.
func decreaseIndexes(list, removed []int) []int {
	if len(removed) == 0 {
		return list
	}
	sorted := sortedUnique(removed)
	for i, index := range list {
		smaller, _ := slices.BinarySearch(sorted, index)
		list[i] = index - smaller
	}
	return list
}

func sortedUnique(indexes []int) []int {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
