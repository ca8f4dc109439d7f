package indexmap

import (
	"fmt"
	"slices"
)

// MapCollection is a registry of IndexMaps sharing one index space.
// Structural changes of the index space are forwarded
// to every registered map.
type MapCollection struct {
	changeHooks
	keys         []string
	maps         map[string]IndexMap
	unhook       map[string]func()
	length       int
	broadcasting bool
	accept       func(IndexMap) bool
}

// NewMapCollection returns an empty MapCollection.
func NewMapCollection() *MapCollection {
	return &MapCollection{
		maps:   make(map[string]IndexMap),
		unhook: make(map[string]func()),
	}
}

// RegisterMap registers m under key in c and returns m
// so that callers can keep a typed handle.
func RegisterMap[M IndexMap](c *MapCollection, key string, m M) (M, error) {
	err := c.Register(key, m)
	if err != nil {
		var zero M
		return zero, err
	}
	return m, nil
}

// Register adds m under key and initializes it
// to the length of the collection.
// Registering a key twice returns ErrDuplicateKey
// and keeps the former registration.
func (c *MapCollection) Register(key string, m IndexMap) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, exists := c.maps[key]; exists {
		return fmt.Errorf("%s map %q: %w", m.kind(), key, ErrDuplicateKey)
	}
	if c.accept != nil && !c.accept(m) {
		return fmt.Errorf("%s map %q (%T): %w", m.kind(), key, m, ErrUnsupportedMap)
	}
	if c.maps == nil {
		c.maps = make(map[string]IndexMap)
		c.unhook = make(map[string]func())
	}
	m.Init(c.length)
	c.keys = append(c.keys, key)
	c.maps[key] = m
	c.unhook[key] = m.OnChange(c.memberChanged)
	c.changed()
	return nil
}

// Unregister removes the map registered under key
// and returns if there was one.
func (c *MapCollection) Unregister(key string) bool {
	if _, exists := c.maps[key]; !exists {
		return false
	}
	c.unhook[key]()
	delete(c.unhook, key)
	delete(c.maps, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	c.changed()
	return true
}

// Get returns the map registered under key.
func (c *MapCollection) Get(key string) (IndexMap, bool) {
	m, ok := c.maps[key]
	return m, ok
}

// Maps returns all registered maps in registration order.
func (c *MapCollection) Maps() []IndexMap {
	maps := make([]IndexMap, len(c.keys))
	for i, key := range c.keys {
		maps[i] = c.maps[key]
	}
	return maps
}

// Keys returns the keys of all registered maps in registration order.
func (c *MapCollection) Keys() []string { return slices.Clone(c.keys) }

// NumMaps returns the number of registered maps.
func (c *MapCollection) NumMaps() int { return len(c.keys) }

// Length returns the length of the index space of the collection.
func (c *MapCollection) Length() int { return c.length }

// InitToLength initializes all maps to length.
func (c *MapCollection) InitToLength(length int) {
	c.broadcast(func(m IndexMap) { m.Init(length) })
	c.length = max(length, 0)
	c.changed()
}

// UpdateIndexesAfterInsertion forwards the insertion to all maps.
func (c *MapCollection) UpdateIndexesAfterInsertion(insertionIndex int, insertedIndexes []int) {
	if len(insertedIndexes) == 0 {
		return
	}
	c.broadcast(func(m IndexMap) { m.UpdateIndexesAfterInsertion(insertionIndex, insertedIndexes) })
	c.length += len(insertedIndexes)
	c.changed()
}

// UpdateIndexesAfterRemoval forwards the removal to all maps.
func (c *MapCollection) UpdateIndexesAfterRemoval(removedIndexes []int) {
	removed := inRange(removedIndexes, c.length)
	if len(removed) == 0 {
		return
	}
	c.broadcast(func(m IndexMap) { m.UpdateIndexesAfterRemoval(removed) })
	c.length -= len(removed)
	c.changed()
}

func (c *MapCollection) broadcast(fn func(IndexMap)) {
	c.broadcasting = true
	defer func() { c.broadcasting = false }()

	for _, key := range c.keys {
		fn(c.maps[key])
	}
}

func (c *MapCollection) memberChanged() {
	if !c.broadcasting {
		c.changed()
	}
}
