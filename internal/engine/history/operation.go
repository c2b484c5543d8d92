package history

import (
	"time"
	"unicode/utf8"
)

// Operation records a single undoable edit.
// Pos and the lengths derived from the texts are character counts.
type Operation struct {
	Pos     int    // Character position where the edit began
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)

	// Style ids, one per character of the matching text.
	OldStyles []byte
	NewStyles []byte

	// Cursor position before and after the edit
	CursorBefore int
	CursorAfter  int

	Timestamp time.Time
}

// NewInsertOperation creates an operation for an insertion.
func NewInsertOperation(pos int, text string, styles []byte) *Operation {
	return &Operation{
		Pos:       pos,
		NewText:   text,
		NewStyles: styles,
		Timestamp: time.Now(),
	}
}

// NewDeleteOperation creates an operation for a deletion.
func NewDeleteOperation(pos int, deleted string, styles []byte) *Operation {
	return &Operation{
		Pos:       pos,
		OldText:   deleted,
		OldStyles: styles,
		Timestamp: time.Now(),
	}
}

// NewReplaceOperation creates an operation for a replacement.
func NewReplaceOperation(pos int, oldText, newText string, oldStyles, newStyles []byte) *Operation {
	return &Operation{
		Pos:       pos,
		OldText:   oldText,
		NewText:   newText,
		OldStyles: oldStyles,
		NewStyles: newStyles,
		Timestamp: time.Now(),
	}
}

// OldLen returns the number of characters the edit removed.
func (op *Operation) OldLen() int {
	return utf8.RuneCountInString(op.OldText)
}

// NewLen returns the number of characters the edit inserted.
func (op *Operation) NewLen() int {
	return utf8.RuneCountInString(op.NewText)
}

// IsInsert returns true if this operation is a pure insertion.
func (op *Operation) IsInsert() bool {
	return op.OldText == "" && op.NewText != ""
}

// IsDelete returns true if this operation is a pure deletion.
func (op *Operation) IsDelete() bool {
	return op.OldText != "" && op.NewText == ""
}

// IsReplace returns true if this operation replaces text.
func (op *Operation) IsReplace() bool {
	return op.OldText != "" && op.NewText != ""
}

// IsNoop returns true if this operation makes no changes.
func (op *Operation) IsNoop() bool {
	return op.OldText == "" && op.NewText == ""
}

// CharsDelta returns the change in document length.
func (op *Operation) CharsDelta() int {
	return op.NewLen() - op.OldLen()
}

// Invert returns an operation that undoes this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Pos:          op.Pos,
		OldText:      op.NewText,
		NewText:      op.OldText,
		OldStyles:    op.NewStyles,
		NewStyles:    op.OldStyles,
		CursorBefore: op.CursorAfter,
		CursorAfter:  op.CursorBefore,
		Timestamp:    time.Now(),
	}
}

// WithCursor sets the cursor positions and returns the operation for chaining.
func (op *Operation) WithCursor(before, after int) *Operation {
	op.CursorBefore = before
	op.CursorAfter = after
	return op
}

// Apply performs the edit on t.
func (op *Operation) Apply(t Target) error {
	return t.ApplyEdit(op.Pos, op.Pos+op.OldLen(), op.NewText, op.NewStyles)
}

// Merge appends next to op when next continues typing right after op.
// It reports whether the merge happened.
func (op *Operation) Merge(next *Operation, window time.Duration) bool {
	if !op.IsInsert() || !next.IsInsert() {
		return false
	}
	if next.Pos != op.Pos+op.NewLen() || next.Timestamp.Sub(op.Timestamp) > window {
		return false
	}
	op.NewText += next.NewText
	op.NewStyles = append(op.NewStyles, next.NewStyles...)
	op.CursorAfter = next.CursorAfter
	op.Timestamp = next.Timestamp
	return true
}

// OperationInfo provides read-only info about an undo entry.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	CharsDelta  int // Positive for insertions, negative for deletions
}
