package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when NewHistory is given a non-positive limit.
const DefaultMaxEntries = 1000

// undoEntry wraps a command with metadata.
type undoEntry struct {
	command   Command
	timestamp time.Time
}

// History manages undo/redo state for a document.
// It is not safe for concurrent use.
type History struct {
	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	maxEntries  int
	mergeWindow time.Duration
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// SetMergeWindow enables coalescing of consecutive insertions made within
// d of each other into one undo entry. Zero disables coalescing.
func (h *History) SetMergeWindow(d time.Duration) {
	h.mergeWindow = d
}

// Execute runs a command against t and adds it to the undo stack.
func (h *History) Execute(cmd Command, t Target) error {
	if err := cmd.Execute(t); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push adds an already executed command to the undo stack and clears the
// redo stack.
func (h *History) Push(cmd Command) {
	if h.grouping {
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.push(cmd)
}

func (h *History) push(cmd Command) {
	h.redoStack = nil

	if h.merge(cmd) {
		return
	}

	h.undoStack = append(h.undoStack, &undoEntry{
		command:   cmd,
		timestamp: time.Now(),
	})

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

func (h *History) merge(cmd Command) bool {
	if h.mergeWindow <= 0 || len(h.undoStack) == 0 {
		return false
	}
	next, ok := cmd.(*EditCommand)
	if !ok {
		return false
	}
	top := h.undoStack[len(h.undoStack)-1]
	prev, ok := top.command.(*EditCommand)
	if !ok {
		return false
	}
	if !prev.Op.Merge(next.Op, h.mergeWindow) {
		return false
	}
	top.timestamp = time.Now()
	return true
}

// Undo reverts the last command and returns it.
func (h *History) Undo(t Target) (Command, error) {
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	entry := h.undoStack[len(h.undoStack)-1]
	if err := entry.command.Undo(t); err != nil {
		return nil, err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return entry.command, nil
}

// Redo re-applies the last undone command and returns it.
func (h *History) Redo(t Target) (Command, error) {
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	entry := h.redoStack[len(h.redoStack)-1]
	if err := entry.command.Execute(t); err != nil {
		return nil, err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return entry.command, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// BeginGroup starts a command group. Commands pushed until EndGroup are
// combined into a single undo unit. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group.
func (h *History) EndGroup() {
	if !h.grouping {
		return
	}
	h.grouping = false
	cmds := h.groupCmds
	h.groupCmds = nil
	if len(cmds) == 0 {
		return
	}
	h.push(NewCompoundCommand(h.groupName, cmds...))
}

// CancelGroup drops the current group without adding it to history.
// Commands already executed still affect the document.
func (h *History) CancelGroup() {
	h.grouping = false
	h.groupCmds = nil
}

// IsGrouping returns true if currently in a command group.
func (h *History) IsGrouping() bool {
	return h.grouping
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupCmds = nil
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return info(h.undoStack[len(h.undoStack)-1]), true
}

// PeekRedo returns info about the next redo entry without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return info(h.redoStack[len(h.redoStack)-1]), true
}

func info(e *undoEntry) OperationInfo {
	return OperationInfo{
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
		CharsDelta:  e.command.CharsDelta(),
	}
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.maxEntries = n
	if len(h.undoStack) > n {
		h.undoStack = h.undoStack[len(h.undoStack)-n:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
