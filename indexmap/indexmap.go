package indexmap

// IndexMap is implemented by all maps that bind something
// to the indexes of an index space and follow structural changes
// of that space.
//
// The set of implementations is closed:
// SequenceMap, SkipMap and ValueMap.
type IndexMap interface {
	// Init resets the map to length indexes
	// using the initializer of the map.
	Init(length int)

	// Len returns the number of indexes of the map.
	Len() int

	// UpdateIndexesAfterInsertion reconciles the map after
	// insertedIndexes were inserted at insertionIndex
	// of the indexes sequence.
	UpdateIndexesAfterInsertion(insertionIndex int, insertedIndexes []int)

	// UpdateIndexesAfterRemoval reconciles the map after
	// the physical removedIndexes were removed.
	UpdateIndexesAfterRemoval(removedIndexes []int)

	// OnChange registers fn to be called once after every
	// operation that changed the map.
	// The returned function removes the registration.
	OnChange(fn func()) (remove func())

	kind() mapKind
}

type mapKind int

const (
	sequenceKind mapKind = iota
	skipKind
	valueKind
)

func (k mapKind) String() string {
	switch k {
	case sequenceKind:
		return "sequence"
	case skipKind:
		return "skip"
	case valueKind:
		return "value"
	}
	return "unknown"
}

type changeHook struct {
	id int
	fn func()
}

// changeHooks implements the OnChange part of IndexMap.
type changeHooks struct {
	hooks  []changeHook
	nextID int
}

func (h *changeHooks) OnChange(fn func()) (remove func()) {
	id := h.nextID
	h.nextID++
	h.hooks = append(h.hooks, changeHook{id: id, fn: fn})
	return func() {
		for i, hook := range h.hooks {
			if hook.id == id {
				h.hooks = append(h.hooks[:i], h.hooks[i+1:]...)
				return
			}
		}
	}
}

func (h *changeHooks) changed() {
	for _, hook := range h.hooks {
		hook.fn()
	}
}
