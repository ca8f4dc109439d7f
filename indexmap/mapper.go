package indexmap

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexMapper translates between physical and visual indexes
// of one dimension (rows or columns) of a grid.
//
// The order of all physical indexes is kept in a SequenceMap,
// the SkipMaps registered in SkipMaps decide which indexes
// are not visible, and maps registered in ValueMaps keep
// arbitrary values attached to physical indexes.
//
// Lookups are served from caches that are rebuilt after
// every change, or once at the end of a Batch.
type IndexMapper struct {
	sequence  *SequenceMap
	skipMaps  *MapCollection
	valueMaps *MapCollection

	batchDepth int

	notSkippedCache []int
	skippedCache    *roaring.Bitmap
	visualCache     []int // physical to visual index, -1 if skipped

	name     string
	logger   *slog.Logger
	observer Observer
}

// New returns an IndexMapper with an empty index space,
// call InitToLength to initialize it.
func New(options ...Option) *IndexMapper {
	m := &IndexMapper{
		sequence:     NewSequenceMap(),
		skipMaps:     NewMapCollection(),
		valueMaps:    NewMapCollection(),
		skippedCache: roaring.New(),
		logger:       slog.New(slog.DiscardHandler),
		observer:     NoopObserver{},
	}
	for _, option := range options {
		option(m)
	}
	if m.name != "" {
		m.logger = m.logger.With("mapper", m.name)
	}
	m.skipMaps.accept = isSkipMap
	m.sequence.OnChange(m.rebuildCache)
	m.skipMaps.OnChange(m.rebuildCache)
	return m
}

// SkipMaps returns the collection of maps deciding
// which physical indexes are skipped.
// An index is skipped if any registered SkipMap
// or ValueMap[bool] marks it.
// Registering any other map kind returns ErrUnsupportedMap.
func (m *IndexMapper) SkipMaps() *MapCollection { return m.skipMaps }

// ValueMaps returns the collection of maps attaching
// values to physical indexes.
func (m *IndexMapper) ValueMaps() *MapCollection { return m.valueMaps }

// InitToLength resets the index space to length not skipped
// indexes in identity order.
func (m *IndexMapper) InitToLength(length int) error {
	if length < 0 {
		return fmt.Errorf("negative length %d: %w", length, ErrIndexOutOfRange)
	}
	return m.Batch(func(m *IndexMapper) error {
		m.valueMaps.InitToLength(length)
		m.skipMaps.InitToLength(length)
		m.sequence.Init(length)
		return nil
	})
}

// NumberOfIndexes returns the number of all physical indexes.
func (m *IndexMapper) NumberOfIndexes() int { return m.sequence.Len() }

// PhysicalIndex returns the physical index rendered at visualIndex.
func (m *IndexMapper) PhysicalIndex(visualIndex int) (int, bool) {
	if visualIndex < 0 || visualIndex >= len(m.notSkippedCache) {
		return 0, false
	}
	return m.notSkippedCache[visualIndex], true
}

// VisualIndex returns the visual index of physicalIndex.
// Skipped indexes have no visual index.
func (m *IndexMapper) VisualIndex(physicalIndex int) (int, bool) {
	if physicalIndex < 0 || physicalIndex >= len(m.visualCache) {
		return 0, false
	}
	visualIndex := m.visualCache[physicalIndex]
	return visualIndex, visualIndex >= 0
}

// IndexesSequence returns the order of all physical indexes
// including skipped ones.
func (m *IndexMapper) IndexesSequence() []int { return m.sequence.Values() }

// SetIndexesSequence replaces the order of all physical indexes.
// The sequence must be a permutation of the current physical indexes,
// else ErrInvalidPermutation is returned and nothing is changed.
func (m *IndexMapper) SetIndexesSequence(sequence []int) error {
	n := m.NumberOfIndexes()
	if len(sequence) != n {
		return fmt.Errorf("sequence of %d indexes for %d indexes: %w", len(sequence), n, ErrInvalidPermutation)
	}
	seen := make([]bool, n)
	for _, index := range sequence {
		if index < 0 || index >= n {
			return fmt.Errorf("index %d not in [0..%d): %w", index, n, ErrInvalidPermutation)
		}
		if seen[index] {
			return fmt.Errorf("index %d contained more than once: %w", index, ErrInvalidPermutation)
		}
		seen[index] = true
	}
	m.sequence.SetValues(sequence)
	return nil
}

// SkippedIndexes returns all skipped physical indexes in ascending order.
func (m *IndexMapper) SkippedIndexes() []int {
	return toInts(m.skippedCache.ToArray())
}

// NotSkippedIndexes returns all not skipped physical indexes
// in the order of the indexes sequence.
// The position of a physical index in the result is its visual index.
func (m *IndexMapper) NotSkippedIndexes() []int {
	return slices.Clone(m.notSkippedCache)
}

// NotSkippedIndexesLength returns the number of visual indexes.
func (m *IndexMapper) NotSkippedIndexesLength() int {
	return len(m.notSkippedCache)
}

// IsSkipped returns if physicalIndex is skipped.
func (m *IndexMapper) IsSkipped(physicalIndex int) bool {
	if physicalIndex < 0 || physicalIndex >= len(m.visualCache) {
		return false
	}
	return m.skippedCache.Contains(uint32(physicalIndex))
}

// MoveIndexes moves the indexes at movedVisualIndexes so that the first
// of them ends up at targetVisualIndex.
// Visual indexes without a physical index are ignored.
// A target beyond the last visual index moves the indexes to the end.
func (m *IndexMapper) MoveIndexes(movedVisualIndexes []int, targetVisualIndex int) {
	moved := make([]int, 0, len(movedVisualIndexes))
	for _, visualIndex := range movedVisualIndexes {
		physicalIndex, ok := m.PhysicalIndex(visualIndex)
		if ok && !slices.Contains(moved, physicalIndex) {
			moved = append(moved, physicalIndex)
		}
	}
	if len(moved) == 0 {
		return
	}
	targetVisualIndex = max(targetVisualIndex, 0)

	_ = m.Batch(func(m *IndexMapper) error {
		m.sequence.FilterIndexes(moved)

		sequence := m.sequence.list.list
		position := len(sequence)
		visualIndex := 0
		for i, physicalIndex := range sequence {
			if m.IsSkipped(physicalIndex) {
				continue
			}
			if visualIndex == targetVisualIndex {
				position = i
				break
			}
			visualIndex++
		}

		// Skipped indexes take positions in the sequence
		// that are not counted by the visual target.
		skippedBefore := 0
		for _, physicalIndex := range sequence[:position] {
			if m.IsSkipped(physicalIndex) {
				skippedBefore++
			}
		}

		m.sequence.InsertIndexes(min(targetVisualIndex+skippedBefore, len(sequence)), moved)
		return nil
	})

	m.logger.Debug("moved indexes", "physical", moved, "target", targetVisualIndex)
	m.observer.IndexesMoved(len(moved))
}

// UpdateIndexesAfterInsertion inserts count new physical indexes
// starting at firstPhysicalIndex into the index space.
// Existing physical indexes greater or equal to firstPhysicalIndex
// are shifted up by count.
// The new indexes are placed in the sequence before the index
// currently rendered at firstVisualIndex, or at the end
// if there is no such index.
func (m *IndexMapper) UpdateIndexesAfterInsertion(firstVisualIndex, firstPhysicalIndex, count int) error {
	n := m.NumberOfIndexes()
	if count < 0 {
		return fmt.Errorf("negative count %d: %w", count, ErrIndexOutOfRange)
	}
	if firstPhysicalIndex < 0 || firstPhysicalIndex > n {
		return fmt.Errorf("first physical index %d not in [0..%d]: %w", firstPhysicalIndex, n, ErrIndexOutOfRange)
	}
	if count == 0 {
		return nil
	}

	// Within a Batch the cache can reference indexes
	// that were already removed from the sequence.
	insertionIndex := n
	if physicalIndex, ok := m.PhysicalIndex(firstVisualIndex); ok {
		if i := m.sequence.IndexOf(physicalIndex); i >= 0 {
			insertionIndex = i
		}
	}
	inserted := make([]int, count)
	for i := range inserted {
		inserted[i] = firstPhysicalIndex + i
	}

	err := m.Batch(func(m *IndexMapper) error {
		m.sequence.UpdateIndexesAfterInsertion(insertionIndex, inserted)
		m.valueMaps.UpdateIndexesAfterInsertion(insertionIndex, inserted)
		m.skipMaps.UpdateIndexesAfterInsertion(insertionIndex, inserted)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("inserted indexes", "physical", firstPhysicalIndex, "count", count, "position", insertionIndex)
	m.observer.IndexesInserted(count)
	return nil
}

// UpdateIndexesAfterRemoval removes the physical indexes
// from the index space and compacts the remaining ones.
// Nothing is changed if any of the indexes is out of range.
func (m *IndexMapper) UpdateIndexesAfterRemoval(removedPhysicalIndexes []int) error {
	n := m.NumberOfIndexes()
	for _, index := range removedPhysicalIndexes {
		if index < 0 || index >= n {
			return fmt.Errorf("removed physical index %d not in [0..%d): %w", index, n, ErrIndexOutOfRange)
		}
	}
	removed := sortedUnique(removedPhysicalIndexes)
	if len(removed) == 0 {
		return nil
	}

	err := m.Batch(func(m *IndexMapper) error {
		m.sequence.UpdateIndexesAfterRemoval(removed)
		m.valueMaps.UpdateIndexesAfterRemoval(removed)
		m.skipMaps.UpdateIndexesAfterRemoval(removed)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("removed indexes", "physical", removed)
	m.observer.IndexesRemoved(len(removed))
	return nil
}

// Batch calls fn and rebuilds the caches once after fn returned
// instead of after every change made by fn.
// Lookups within fn see the caches from before the batch.
// Batches can be nested, the caches are rebuilt when
// the outermost batch ends, also if fn returns an error or panics.
func (m *IndexMapper) Batch(fn func(*IndexMapper) error) error {
	m.batchDepth++
	defer func() {
		m.batchDepth--
		if m.batchDepth == 0 {
			m.rebuildCache()
		}
	}()
	return fn(m)
}

// InBatch returns if a Batch is in progress.
func (m *IndexMapper) InBatch() bool { return m.batchDepth > 0 }

func (m *IndexMapper) rebuildCache() {
	if m.batchDepth > 0 {
		return
	}
	start := time.Now()

	m.skippedCache = m.computeSkippedIndexes()
	m.notSkippedCache = m.computeNotSkippedIndexes(m.skippedCache)
	m.visualCache = slices.Repeat([]int{-1}, m.sequence.Len())
	for visualIndex, physicalIndex := range m.notSkippedCache {
		m.visualCache[physicalIndex] = visualIndex
	}

	duration := time.Since(start)
	skipped := int(m.skippedCache.GetCardinality())
	m.logger.Debug("rebuilt cache", "notSkipped", len(m.notSkippedCache), "skipped", skipped, "duration", duration)
	m.observer.CacheRebuilt(len(m.notSkippedCache), skipped, duration)
}

func isSkipMap(m IndexMap) bool {
	switch m.(type) {
	case *SkipMap, *ValueMap[bool]:
		return true
	}
	return false
}

// computeSkippedIndexes ORs all skip maps without using the cache.
func (m *IndexMapper) computeSkippedIndexes() *roaring.Bitmap {
	skipped := roaring.New()
	for _, skipMap := range m.skipMaps.Maps() {
		switch s := skipMap.(type) {
		case *SkipMap:
			skipped.Or(s.bitmap())
		case *ValueMap[bool]:
			for physicalIndex, isSkipped := range s.values {
				if isSkipped {
					skipped.Add(uint32(physicalIndex))
				}
			}
		}
	}
	return skipped
}

// computeNotSkippedIndexes filters the sequence by skipped
// without using the cache.
func (m *IndexMapper) computeNotSkippedIndexes(skipped *roaring.Bitmap) []int {
	sequence := m.sequence.list.list
	notSkipped := make([]int, 0, max(len(sequence)-int(skipped.GetCardinality()), 0))
	for _, physicalIndex := range sequence {
		if !skipped.Contains(uint32(physicalIndex)) {
			notSkipped = append(notSkipped, physicalIndex)
		}
	}
	return notSkipped
}
