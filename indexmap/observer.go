package indexmap

import (
	"log/slog"
	"time"
)

// Observer is notified about the work done by an IndexMapper.
// Implement this interface to integrate with monitoring systems,
// see package indexmetrics for a Prometheus implementation.
type Observer interface {
	// CacheRebuilt is called after the skip caches were rebuilt.
	CacheRebuilt(notSkipped, skipped int, duration time.Duration)

	// IndexesMoved is called after count indexes were moved.
	IndexesMoved(count int)

	// IndexesInserted is called after count indexes were inserted.
	IndexesInserted(count int)

	// IndexesRemoved is called after count indexes were removed.
	IndexesRemoved(count int)
}

// NoopObserver is an Observer that does nothing.
type NoopObserver struct{}

func (NoopObserver) CacheRebuilt(int, int, time.Duration) {}
func (NoopObserver) IndexesMoved(int)                    {}
func (NoopObserver) IndexesInserted(int)                 {}
func (NoopObserver) IndexesRemoved(int)                  {}

// Option configures an IndexMapper.
type Option func(*IndexMapper)

// WithLogger sets the logger of the IndexMapper.
// Structural changes are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *IndexMapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver sets the Observer of the IndexMapper.
func WithObserver(observer Observer) Option {
	return func(m *IndexMapper) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// WithName sets a name that is added to all log records
// to tell row and column mappers apart.
func WithName(name string) Option {
	return func(m *IndexMapper) {
		m.name = name
	}
}

// IfNamed applies the options only to a mapper whose name
// was set to name by a preceding WithName option.
func IfNamed(name string, options ...Option) Option {
	return func(m *IndexMapper) {
		if m.name != name {
			return
		}
		for _, option := range options {
			option(m)
		}
	}
}
