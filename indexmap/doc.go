// Package indexmap maps between the physical storage order
// of grid rows or columns and their visual order.
//
// An IndexMapper owns a SequenceMap holding the order of all
// physical indexes, a MapCollection of SkipMaps deciding which
// indexes are not rendered, and a MapCollection of arbitrary
// value maps that stay attached to physical indexes while
// indexes are moved, hidden, inserted or removed.
//
// Example:
//
//	mapper := indexmap.New()
//	mapper.InitToLength(5)
//
//	hidden, _ := indexmap.RegisterMap(mapper.SkipMaps(), "hidden", indexmap.NewSkipMap())
//	hidden.SetSkipped(0, true)
//
//	mapper.MoveIndexes([]int{2, 3}, 0)
//	physical, ok := mapper.PhysicalIndex(0) // 3, true
//
// An IndexMapper is not safe for concurrent use.
package indexmap
