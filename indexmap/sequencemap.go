package indexmap

var _ IndexMap = new(SequenceMap)

// SequenceMap holds the order of all physical indexes
// before skipped indexes are filtered out.
// Position i of the sequence is the rank of the physical
// index stored at i.
type SequenceMap struct {
	changeHooks
	list IndexList
}

// NewSequenceMap returns an empty SequenceMap
// that initializes to the identity sequence.
func NewSequenceMap() *SequenceMap {
	return &SequenceMap{list: IndexList{initFn: identity}}
}

func (m *SequenceMap) kind() mapKind { return sequenceKind }

func (m *SequenceMap) Init(length int) {
	m.list.Init(length)
	m.changed()
}

func (m *SequenceMap) Len() int { return m.list.Len() }

// Values returns a copy of the sequence.
func (m *SequenceMap) Values() []int { return m.list.Indexes() }

// SetValues replaces the sequence.
// It is not validated that values is a permutation.
func (m *SequenceMap) SetValues(values []int) {
	m.list.SetIndexes(values)
	m.changed()
}

// ValueAtIndex returns the physical index at position
// of the sequence or false if position is out of range.
func (m *SequenceMap) ValueAtIndex(position int) (int, bool) {
	if position < 0 || position >= len(m.list.list) {
		return 0, false
	}
	return m.list.list[position], true
}

// IndexOf returns the position of physicalIndex
// within the sequence or -1.
func (m *SequenceMap) IndexOf(physicalIndex int) int {
	for i, index := range m.list.list {
		if index == physicalIndex {
			return i
		}
	}
	return -1
}

func (m *SequenceMap) UpdateIndexesAfterInsertion(insertionIndex int, insertedIndexes []int) {
	if len(insertedIndexes) == 0 {
		return
	}
	m.list.InsertAt(insertionIndex, insertedIndexes)
	m.changed()
}

func (m *SequenceMap) UpdateIndexesAfterRemoval(removedIndexes []int) {
	if len(removedIndexes) == 0 {
		return
	}
	m.list.RemoveAndReorganize(removedIndexes)
	m.changed()
}

// FilterIndexes drops the passed physical indexes from the sequence
// without renumbering the remaining ones.
func (m *SequenceMap) FilterIndexes(indexes []int) {
	if len(indexes) == 0 {
		return
	}
	m.list.list = filterIndexes(m.list.list, indexes)
	m.changed()
}

// InsertIndexes splices the physical indexes into the sequence
// at position without renumbering existing ones.
func (m *SequenceMap) InsertIndexes(position int, indexes []int) {
	if len(indexes) == 0 {
		return
	}
	m.list.list = insertIndexes(m.list.list, position, indexes)
	m.changed()
}
