package indexmap

import "errors"

var (
	// ErrIndexOutOfRange is returned by commands that reference
	// an index outside of the current index space.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidPermutation is returned when a new indexes sequence
	// is not a permutation of the existing physical indexes.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrDuplicateKey is returned when a map is registered
	// in a MapCollection under a key that is already taken.
	ErrDuplicateKey = errors.New("duplicate map key")

	// ErrEmptyKey is returned when a map is registered
	// in a MapCollection without a key.
	ErrEmptyKey = errors.New("empty map key")

	// ErrUnsupportedMap is returned when a map is registered
	// in a collection that can't use its kind, for example
	// a ValueMap[string] in the skip maps of an IndexMapper.
	ErrUnsupportedMap = errors.New("unsupported map")

	// ErrLengthMismatch is returned when values are set
	// that don't match the length of the index space.
	ErrLengthMismatch = errors.New("length mismatch")
)
