package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidEdit is returned for edit flag values that can't be parsed.
var ErrInvalidEdit = errors.New("invalid edit")

// moveEdit moves the visual indexes so that the first of them
// ends up at target.
type moveEdit struct {
	indexes []int
	target  int
}

// insertEdit inserts count indexes before the visual index at.
type insertEdit struct {
	at    int
	count int
}

// parseIndexes parses a comma separated list of indexes like "1,3,4".
// An empty string returns nil.
func parseIndexes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	indexes := make([]int, len(parts))
	for i, part := range parts {
		index, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", part, ErrInvalidEdit)
		}
		indexes[i] = index
	}
	return indexes, nil
}

// parseMove parses "indexes:target" like "2,3:0".
func parseMove(s string) (*moveEdit, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	indexesStr, targetStr, found := strings.Cut(s, ":")
	if !found {
		return nil, fmt.Errorf("move %q needs the form indexes:target: %w", s, ErrInvalidEdit)
	}
	indexes, err := parseIndexes(indexesStr)
	if err != nil {
		return nil, err
	}
	target, err := strconv.Atoi(strings.TrimSpace(targetStr))
	if err != nil {
		return nil, fmt.Errorf("move target %q: %w", targetStr, ErrInvalidEdit)
	}
	return &moveEdit{indexes: indexes, target: target}, nil
}

// parseInsert parses "at:count" like "2:3".
func parseInsert(s string) (*insertEdit, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	atStr, countStr, found := strings.Cut(s, ":")
	if !found {
		return nil, fmt.Errorf("insert %q needs the form at:count: %w", s, ErrInvalidEdit)
	}
	at, err := strconv.Atoi(strings.TrimSpace(atStr))
	if err != nil {
		return nil, fmt.Errorf("insert position %q: %w", atStr, ErrInvalidEdit)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countStr))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("insert count %q: %w", countStr, ErrInvalidEdit)
	}
	return &insertEdit{at: at, count: count}, nil
}
