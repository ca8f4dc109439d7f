package indexmap

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	rebuilds int
	moved    int
	inserted int
	removed  int
}

func (o *countingObserver) CacheRebuilt(int, int, time.Duration) { o.rebuilds++ }
func (o *countingObserver) IndexesMoved(count int)              { o.moved += count }
func (o *countingObserver) IndexesInserted(count int)           { o.inserted += count }
func (o *countingObserver) IndexesRemoved(count int)            { o.removed += count }

func newTestMapper(t *testing.T, length int, options ...Option) (*IndexMapper, *SkipMap) {
	t.Helper()
	m := New(options...)
	require.NoError(t, m.InitToLength(length))
	hidden, err := RegisterMap(m.SkipMaps(), "hidden", NewSkipMap())
	require.NoError(t, err)
	return m, hidden
}

// requireConsistent checks the invariants that must hold
// after every operation.
func requireConsistent(t *testing.T, m *IndexMapper) {
	t.Helper()

	n := m.NumberOfIndexes()
	sequence := m.IndexesSequence()
	sorted := slices.Sorted(slices.Values(sequence))
	for i, index := range sorted {
		require.Equal(t, i, index, "sequence %v must be a permutation", sequence)
	}

	for _, skipMap := range m.SkipMaps().Maps() {
		require.Equal(t, n, skipMap.Len(), "skip map length")
	}
	for _, valueMap := range m.ValueMaps().Maps() {
		require.Equal(t, n, valueMap.Len(), "value map length")
	}

	notSkipped := m.NotSkippedIndexes()
	skipped := m.SkippedIndexes()
	require.Len(t, slices.Concat(notSkipped, skipped), n)
	for _, index := range skipped {
		require.NotContains(t, notSkipped, index)
		require.True(t, m.IsSkipped(index))
		_, ok := m.VisualIndex(index)
		require.False(t, ok, "skipped index %d has no visual index", index)
	}

	wantNotSkipped := slices.DeleteFunc(slices.Clone(sequence), m.IsSkipped)
	require.Equal(t, wantNotSkipped, notSkipped, "not skipped indexes in sequence order")

	for visualIndex := range m.NotSkippedIndexesLength() {
		physicalIndex, ok := m.PhysicalIndex(visualIndex)
		require.True(t, ok)
		roundTrip, ok := m.VisualIndex(physicalIndex)
		require.True(t, ok)
		require.Equal(t, visualIndex, roundTrip)
	}
}

func TestIndexMapper_InitToLength(t *testing.T) {
	m := New()
	require.Zero(t, m.NumberOfIndexes())
	_, ok := m.PhysicalIndex(0)
	require.False(t, ok)

	values, err := RegisterMap(m.ValueMaps(), "values", NewIndexValueMap())
	require.NoError(t, err)

	require.NoError(t, m.InitToLength(5))
	require.Equal(t, []int{0, 1, 2, 3, 4}, m.IndexesSequence())
	require.Equal(t, []int{0, 1, 2, 3, 4}, m.NotSkippedIndexes())
	require.Empty(t, m.SkippedIndexes())
	require.Equal(t, []int{0, 1, 2, 3, 4}, values.Values())
	requireConsistent(t, m)

	require.ErrorIs(t, m.InitToLength(-1), ErrIndexOutOfRange)
	require.Equal(t, 5, m.NumberOfIndexes())
}

func TestIndexMapper_Lookups(t *testing.T) {
	m, hidden := newTestMapper(t, 5)
	require.NoError(t, hidden.SetSkippedIndexes([]int{0, 3}, true))

	require.Equal(t, 3, m.NotSkippedIndexesLength())
	require.Equal(t, []int{1, 2, 4}, m.NotSkippedIndexes())
	require.Equal(t, []int{0, 3}, m.SkippedIndexes())

	tests := []struct {
		visualIndex  int
		physicalIdx  int
		wantPhysical bool
	}{
		{visualIndex: -1, wantPhysical: false},
		{visualIndex: 0, physicalIdx: 1, wantPhysical: true},
		{visualIndex: 1, physicalIdx: 2, wantPhysical: true},
		{visualIndex: 2, physicalIdx: 4, wantPhysical: true},
		{visualIndex: 3, wantPhysical: false},
	}
	for _, tt := range tests {
		physicalIndex, ok := m.PhysicalIndex(tt.visualIndex)
		require.Equal(t, tt.wantPhysical, ok, "visual index %d", tt.visualIndex)
		if ok {
			require.Equal(t, tt.physicalIdx, physicalIndex)
		}
	}

	for _, physicalIndex := range []int{-1, 5, 1 << 32} {
		require.False(t, m.IsSkipped(physicalIndex), "physical index %d", physicalIndex)
	}

	for _, physicalIndex := range []int{-1, 0, 3, 5} {
		_, ok := m.VisualIndex(physicalIndex)
		require.False(t, ok, "physical index %d", physicalIndex)
	}
	visualIndex, ok := m.VisualIndex(4)
	require.True(t, ok)
	require.Equal(t, 2, visualIndex)

	notSkipped := m.NotSkippedIndexes()
	notSkipped[0] = 99
	require.Equal(t, []int{1, 2, 4}, m.NotSkippedIndexes(), "returned slice must be a copy")
}

func TestIndexMapper_MoveIndexes(t *testing.T) {
	tests := []struct {
		name         string
		length       int
		hidden       []int
		moved        []int
		target       int
		wantSequence []int
	}{
		{name: "block to front", length: 5, moved: []int{2, 3, 4}, target: 0, wantSequence: []int{2, 3, 4, 0, 1}},
		{name: "after hidden index", length: 5, hidden: []int{0}, moved: []int{2, 3, 4}, target: 0, wantSequence: []int{0, 3, 4, 1, 2}},
		{name: "forward", length: 5, moved: []int{0}, target: 2, wantSequence: []int{1, 2, 0, 3, 4}},
		{name: "to end", length: 5, moved: []int{0}, target: 4, wantSequence: []int{1, 2, 3, 4, 0}},
		{name: "target beyond end", length: 5, moved: []int{1}, target: 10, wantSequence: []int{0, 2, 3, 4, 1}},
		{name: "behind trailing hidden index", length: 5, hidden: []int{4}, moved: []int{0}, target: 3, wantSequence: []int{1, 2, 3, 4, 0}},
		{name: "between hidden indexes", length: 6, hidden: []int{1, 2}, moved: []int{3}, target: 1, wantSequence: []int{0, 1, 2, 5, 3, 4}},
		{name: "unordered moved indexes", length: 5, moved: []int{4, 1}, target: 0, wantSequence: []int{4, 1, 0, 2, 3}},
		{name: "duplicate moved index", length: 3, moved: []int{2, 2}, target: 0, wantSequence: []int{2, 0, 1}},
		{name: "onto itself", length: 5, moved: []int{1, 2}, target: 1, wantSequence: []int{0, 1, 2, 3, 4}},
		{name: "out of range ignored", length: 3, moved: []int{5, -1}, target: 0, wantSequence: []int{0, 1, 2}},
		{name: "nothing moved", length: 3, moved: nil, target: 1, wantSequence: []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, hidden := newTestMapper(t, tt.length)
			require.NoError(t, hidden.SetSkippedIndexes(tt.hidden, true))

			m.MoveIndexes(tt.moved, tt.target)

			require.Equal(t, tt.wantSequence, m.IndexesSequence())
			for _, index := range tt.hidden {
				require.True(t, m.IsSkipped(index), "hidden index %d stays skipped", index)
			}
			requireConsistent(t, m)
		})
	}
}

func TestIndexMapper_MoveIndexes_Scenarios(t *testing.T) {
	t.Run("block to front", func(t *testing.T) {
		m, _ := newTestMapper(t, 5)
		m.MoveIndexes([]int{2, 3, 4}, 0)
		require.Equal(t, []int{2, 3, 4, 0, 1}, m.IndexesSequence())
		physicalIndex, ok := m.PhysicalIndex(0)
		require.True(t, ok)
		require.Equal(t, 2, physicalIndex)
	})

	t.Run("with hidden first index", func(t *testing.T) {
		m, hidden := newTestMapper(t, 5)
		require.NoError(t, hidden.SetSkipped(0, true))
		m.MoveIndexes([]int{2, 3, 4}, 0)
		require.Equal(t, 0, m.IndexesSequence()[0], "hidden index keeps its position")
		require.True(t, m.IsSkipped(0))
		require.Equal(t, []int{3, 4, 1, 2}, m.NotSkippedIndexes())
	})

	t.Run("moved block lands on target", func(t *testing.T) {
		m, hidden := newTestMapper(t, 8)
		require.NoError(t, hidden.SetSkippedIndexes([]int{1, 4, 6}, true))
		// visual: 0 2 3 5 7
		m.MoveIndexes([]int{0, 1}, 2)
		physicalIndex, _ := m.PhysicalIndex(2)
		require.Equal(t, 0, physicalIndex)
		physicalIndex, _ = m.PhysicalIndex(3)
		require.Equal(t, 2, physicalIndex)
		requireConsistent(t, m)
	})
}

func TestIndexMapper_MoveIndexes_OntoItself(t *testing.T) {
	m, hidden := newTestMapper(t, 8)
	require.NoError(t, hidden.SetSkippedIndexes([]int{2, 5}, true))
	m.MoveIndexes([]int{4, 3}, 1)
	want := m.NotSkippedIndexes()

	for start := range m.NotSkippedIndexesLength() {
		for end := start + 1; end <= m.NotSkippedIndexesLength(); end++ {
			block := make([]int, 0, end-start)
			for visualIndex := start; visualIndex < end; visualIndex++ {
				block = append(block, visualIndex)
			}
			m.MoveIndexes(block, start)
			require.Equal(t, want, m.NotSkippedIndexes(), "moving %v onto itself", block)
		}
	}
}

func TestIndexMapper_SkipAggregation(t *testing.T) {
	m, a := newTestMapper(t, 5)
	b, err := RegisterMap(m.SkipMaps(), "filtered", NewSkipMap())
	require.NoError(t, err)

	require.NoError(t, a.SetSkipped(2, true))
	require.True(t, m.IsSkipped(2))

	require.NoError(t, b.SetSkipped(2, true))
	require.NoError(t, a.SetSkipped(2, false))
	require.True(t, m.IsSkipped(2), "still skipped by the other map")

	require.NoError(t, b.SetSkipped(2, false))
	require.False(t, m.IsSkipped(2))

	flags, err := RegisterMap(m.SkipMaps(), "flags", NewConstValueMap(false))
	require.NoError(t, err)
	require.NoError(t, flags.SetValueAtIndex(4, true))
	require.Equal(t, []int{4}, m.SkippedIndexes(), "boolean value maps are skip predicates")

	require.True(t, m.SkipMaps().Unregister("flags"))
	require.Empty(t, m.SkippedIndexes())
	requireConsistent(t, m)

	_, err = RegisterMap(m.SkipMaps(), "labels", NewConstValueMap("x"))
	require.ErrorIs(t, err, ErrUnsupportedMap)
	_, err = RegisterMap(m.SkipMaps(), "sequence", NewSequenceMap())
	require.ErrorIs(t, err, ErrUnsupportedMap)
	_, ok := m.SkipMaps().Get("labels")
	require.False(t, ok)

	_, err = RegisterMap(m.ValueMaps(), "labels", NewConstValueMap("x"))
	require.NoError(t, err, "value maps accept any kind")
}

func TestIndexMapper_UpdateIndexesAfterInsertion(t *testing.T) {
	t.Run("inside index space", func(t *testing.T) {
		m, hidden := newTestMapper(t, 5)
		values, err := RegisterMap(m.ValueMaps(), "values", NewIndexValueMap())
		require.NoError(t, err)

		require.NoError(t, m.UpdateIndexesAfterInsertion(2, 5, 2))

		require.Equal(t, 7, m.NumberOfIndexes())
		require.Equal(t, []int{0, 1, 5, 6, 2, 3, 4}, m.IndexesSequence())
		require.Equal(t, 7, hidden.Len())
		require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, values.Values())
		requireConsistent(t, m)
	})

	t.Run("shift existing indexes", func(t *testing.T) {
		m, hidden := newTestMapper(t, 5)
		require.NoError(t, hidden.SetSkipped(0, true))

		require.NoError(t, m.UpdateIndexesAfterInsertion(0, 0, 1))

		require.Equal(t, []int{1, 0, 2, 3, 4, 5}, m.IndexesSequence())
		require.Equal(t, []int{1}, m.SkippedIndexes(), "hidden element keeps being hidden")
		require.Equal(t, []int{0, 2, 3, 4, 5}, m.NotSkippedIndexes())
		requireConsistent(t, m)
	})

	t.Run("anchor out of range appends", func(t *testing.T) {
		m, _ := newTestMapper(t, 3)
		m.MoveIndexes([]int{2}, 0)
		require.NoError(t, m.UpdateIndexesAfterInsertion(10, 3, 2))
		require.Equal(t, []int{2, 0, 1, 3, 4}, m.IndexesSequence())
		requireConsistent(t, m)
	})

	t.Run("append after removal in one batch", func(t *testing.T) {
		m, _ := newTestMapper(t, 5)
		err := m.Batch(func(m *IndexMapper) error {
			err := m.UpdateIndexesAfterRemoval([]int{4})
			if err != nil {
				return err
			}
			return m.UpdateIndexesAfterInsertion(4, 4, 1)
		})
		require.NoError(t, err)
		require.Equal(t, []int{0, 1, 2, 3, 4}, m.IndexesSequence())
		requireConsistent(t, m)
	})

	t.Run("invalid", func(t *testing.T) {
		m, _ := newTestMapper(t, 5)
		require.ErrorIs(t, m.UpdateIndexesAfterInsertion(0, 0, -1), ErrIndexOutOfRange)
		require.ErrorIs(t, m.UpdateIndexesAfterInsertion(0, 6, 1), ErrIndexOutOfRange)
		require.ErrorIs(t, m.UpdateIndexesAfterInsertion(0, -1, 1), ErrIndexOutOfRange)
		require.NoError(t, m.UpdateIndexesAfterInsertion(0, 0, 0))
		require.Equal(t, []int{0, 1, 2, 3, 4}, m.IndexesSequence())
	})
}

func TestIndexMapper_UpdateIndexesAfterRemoval(t *testing.T) {
	m, hidden := newTestMapper(t, 5)
	values, err := RegisterMap(m.ValueMaps(), "values", NewIndexValueMap())
	require.NoError(t, err)
	require.NoError(t, hidden.SetSkipped(2, true))

	require.NoError(t, m.UpdateIndexesAfterRemoval([]int{3, 1}))

	require.Equal(t, []int{0, 1, 2}, m.IndexesSequence())
	require.Equal(t, 3, hidden.Len())
	require.Equal(t, []int{1}, m.SkippedIndexes(), "former physical index 2 is now 1")
	require.Equal(t, []int{0, 2, 4}, values.Values())
	requireConsistent(t, m)

	err = m.UpdateIndexesAfterRemoval([]int{0, 3})
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.Equal(t, []int{0, 1, 2}, m.IndexesSequence(), "nothing removed on error")
	require.Equal(t, 3, values.Len())

	require.NoError(t, m.UpdateIndexesAfterRemoval(nil))
	require.Equal(t, 3, m.NumberOfIndexes())
}

func TestIndexMapper_SetIndexesSequence(t *testing.T) {
	tests := []struct {
		name     string
		sequence []int
		wantErr  bool
	}{
		{name: "valid", sequence: []int{3, 1, 0, 2}},
		{name: "too short", sequence: []int{0, 1, 2}, wantErr: true},
		{name: "too long", sequence: []int{0, 1, 2, 3, 4}, wantErr: true},
		{name: "duplicate", sequence: []int{0, 1, 1, 3}, wantErr: true},
		{name: "out of range", sequence: []int{0, 1, 2, 4}, wantErr: true},
		{name: "negative", sequence: []int{0, 1, 2, -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, hidden := newTestMapper(t, 4)
			require.NoError(t, hidden.SetSkipped(1, true))

			err := m.SetIndexesSequence(tt.sequence)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPermutation)
				require.Equal(t, []int{0, 1, 2, 3}, m.IndexesSequence())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.sequence, m.IndexesSequence())
			require.Equal(t, []int{3, 0, 2}, m.NotSkippedIndexes())
			requireConsistent(t, m)
		})
	}
}

func TestIndexMapper_Batch(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		observer := new(countingObserver)
		m, hidden := newTestMapper(t, 5, WithObserver(observer))
		observer.rebuilds = 0

		err := m.Batch(func(m *IndexMapper) error {
			err := m.Batch(func(m *IndexMapper) error {
				return hidden.SetSkipped(1, true)
			})
			require.NoError(t, err)
			require.True(t, m.InBatch())
			require.False(t, m.IsSkipped(1), "cache is stale until the outermost batch ends")
			return hidden.SetSkipped(2, true)
		})
		require.NoError(t, err)
		require.False(t, m.InBatch())
		require.Equal(t, 1, observer.rebuilds)
		require.Equal(t, []int{1, 2}, m.SkippedIndexes())
	})

	t.Run("error", func(t *testing.T) {
		m, hidden := newTestMapper(t, 5)
		errTest := errors.New("test")
		err := m.Batch(func(m *IndexMapper) error {
			require.NoError(t, hidden.SetSkipped(1, true))
			return errTest
		})
		require.ErrorIs(t, err, errTest)
		require.True(t, m.IsSkipped(1), "caches rebuilt on error")
	})

	t.Run("panic", func(t *testing.T) {
		m, hidden := newTestMapper(t, 5)
		require.Panics(t, func() {
			_ = m.Batch(func(m *IndexMapper) error {
				require.NoError(t, hidden.SetSkipped(3, true))
				panic("test")
			})
		})
		require.False(t, m.InBatch())
		require.True(t, m.IsSkipped(3), "caches rebuilt on panic")
	})

	t.Run("one rebuild per operation", func(t *testing.T) {
		observer := new(countingObserver)
		m, _ := newTestMapper(t, 5, WithObserver(observer))
		observer.rebuilds = 0

		m.MoveIndexes([]int{0, 1}, 3)
		require.NoError(t, m.UpdateIndexesAfterInsertion(0, 0, 2))
		require.NoError(t, m.UpdateIndexesAfterRemoval([]int{1, 2}))
		require.NoError(t, m.InitToLength(4))
		require.Equal(t, 4, observer.rebuilds)
		require.Equal(t, 2, observer.moved)
		require.Equal(t, 2, observer.inserted)
		require.Equal(t, 2, observer.removed)
	})
}

func TestIndexMapper_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, _ := newTestMapper(t, 3, WithLogger(logger), WithName("rows"))

	m.MoveIndexes([]int{2}, 0)

	require.Contains(t, buf.String(), `"msg":"moved indexes"`)
	require.Contains(t, buf.String(), `"msg":"rebuilt cache"`)
	require.Contains(t, buf.String(), `"mapper":"rows"`)
}

func TestIfNamed(t *testing.T) {
	var (
		rowsObserver    = new(countingObserver)
		columnsObserver = new(countingObserver)
		options         = []Option{
			IfNamed("rows", WithObserver(rowsObserver)),
			IfNamed("columns", WithObserver(columnsObserver)),
		}
	)
	rows, _ := newTestMapper(t, 3, append([]Option{WithName("rows")}, options...)...)
	columns, _ := newTestMapper(t, 3, append([]Option{WithName("columns")}, options...)...)

	rows.MoveIndexes([]int{2}, 0)
	require.Equal(t, 1, rowsObserver.moved)
	require.Equal(t, 0, columnsObserver.moved)

	require.NoError(t, columns.UpdateIndexesAfterRemoval([]int{0}))
	require.Equal(t, 1, columnsObserver.removed)
	require.Equal(t, 0, rowsObserver.removed)
}

func TestIndexMapper_RandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	m, hidden := newTestMapper(t, 10)
	labels, err := RegisterMap(m.ValueMaps(), "labels", NewIndexValueMap())
	require.NoError(t, err)

	for range 500 {
		n := m.NumberOfIndexes()
		switch op := rnd.IntN(5); {
		case op == 0 && m.NotSkippedIndexesLength() > 0:
			moved := []int{rnd.IntN(m.NotSkippedIndexesLength())}
			if rnd.IntN(2) == 0 {
				moved = append(moved, rnd.IntN(m.NotSkippedIndexesLength()))
			}
			m.MoveIndexes(moved, rnd.IntN(m.NotSkippedIndexesLength()+1))
		case op == 1 && n > 0:
			require.NoError(t, hidden.SetSkipped(rnd.IntN(n), rnd.IntN(3) > 0))
		case op == 2:
			require.NoError(t, m.UpdateIndexesAfterInsertion(rnd.IntN(n+1), rnd.IntN(n+1), 1+rnd.IntN(3)))
		case op == 3 && n > 1:
			require.NoError(t, m.UpdateIndexesAfterRemoval([]int{rnd.IntN(n), rnd.IntN(n)}))
		case op == 4 && n > 0:
			sequence := m.IndexesSequence()
			rnd.Shuffle(len(sequence), func(i, j int) { sequence[i], sequence[j] = sequence[j], sequence[i] })
			require.NoError(t, m.SetIndexesSequence(sequence))
		}
		requireConsistent(t, m)
		require.Equal(t, m.NumberOfIndexes(), labels.Len())
	}
}
