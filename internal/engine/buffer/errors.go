package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrInvalidBoundary indicates an edit position is not a valid character index.
	ErrInvalidBoundary = errors.New("invalid character boundary")

	// ErrInvalidEncoding indicates inserted data is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

	// ErrOutOfRange indicates a position or range exceeds the buffer length.
	ErrOutOfRange = errors.New("position out of range")

	// ErrStateMismatch indicates the text and style buffers disagree in length.
	ErrStateMismatch = errors.New("text and style buffer lengths differ")
)
