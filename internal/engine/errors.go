package engine

import (
	"errors"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	ErrInvalidBoundary = buffer.ErrInvalidBoundary
	ErrInvalidEncoding = buffer.ErrInvalidEncoding
	ErrOutOfRange      = buffer.ErrOutOfRange
	ErrStateMismatch   = buffer.ErrStateMismatch

	ErrNothingToUndo = history.ErrNothingToUndo
	ErrNothingToRedo = history.ErrNothingToRedo
)
