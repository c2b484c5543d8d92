package engine

import (
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
	DefaultMergeWindow    = 750 * time.Millisecond
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithDefaultStyle sets the style given to unstyled text.
func WithDefaultStyle(id StyleID) Option {
	return func(e *Engine) {
		e.defaultStyle = id
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoEntries = n
		}
	}
}

// WithMergeWindow sets how close together insertions must be to merge
// into one undo step. Zero disables merging.
func WithMergeWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.mergeWindow = d
		}
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithLogger sets the engine's logger. The default is a child of the
// global logger named "engine".
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}
