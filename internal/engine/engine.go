package engine

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/engine/history"
	"github.com/dshills/textview/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// StyleID indexes the style table.
	StyleID = buffer.StyleID

	// Command is an undoable edit command.
	Command = history.Command
)

// ChangeKind categorizes a Change.
type ChangeKind uint8

const (
	// ChangeEdit replaces a character range with new text.
	ChangeEdit ChangeKind = iota
	// ChangeReset replaces the whole document.
	ChangeReset
	// ChangeRestyle alters styles without touching text.
	ChangeRestyle
)

// Change describes one modification, delivered to listeners after the
// buffers are updated. Positions are characters.
type Change struct {
	Kind     ChangeKind
	Pos      int
	Removed  int
	Inserted int
	Revision uint64
}

// End returns the end of the inserted text.
func (c Change) End() int {
	return c.Pos + c.Inserted
}

// Listener is notified of every change.
type Listener func(Change)

// Engine pairs a TextBuffer with its StyleBuffer and keeps them the same
// length. Every edit goes through the engine so that styles, undo history
// and listeners stay consistent.
//
// Engine is not safe for concurrent use.
type Engine struct {
	text    *buffer.TextBuffer
	styles  *buffer.StyleBuffer
	history *history.History

	listeners []listenerEntry
	nextID    int

	// Configuration
	defaultStyle   StyleID
	maxUndoEntries int
	mergeWindow    time.Duration
	readOnly       bool
	log            *zap.Logger

	initContent string
}

type listenerEntry struct {
	id int
	fn Listener
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
		mergeWindow:    DefaultMergeWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.Named("engine")
	}

	e.text = buffer.NewTextBuffer()
	e.styles = buffer.NewStyleBuffer()
	e.history = history.NewHistory(e.maxUndoEntries)
	e.history.SetMergeWindow(e.mergeWindow)

	if e.initContent != "" {
		if err := e.text.SetText(e.initContent); err != nil {
			e.log.Warn("ignoring initial content", zap.Error(err))
		}
	}
	e.styles.Fill(e.text.Len(), e.defaultStyle)
	e.initContent = ""

	return e
}

// NewFromReader creates an Engine holding the content of r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

// Read Operations

// TextBuffer returns the text storage. Callers must not edit it directly.
func (e *Engine) TextBuffer() *buffer.TextBuffer {
	return e.text
}

// StyleBuffer returns the style storage. Callers must not edit it directly.
func (e *Engine) StyleBuffer() *buffer.StyleBuffer {
	return e.styles
}

// Text returns the full document.
func (e *Engine) Text() string {
	return e.text.Text()
}

// TextRange returns the characters in [start, end), clamped.
func (e *Engine) TextRange(start, end int) string {
	return e.text.Range(start, end)
}

// Len returns the document length in characters.
func (e *Engine) Len() int {
	return e.text.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.text.LineCount()
}

// StyleAt returns the style of the character at pos.
func (e *Engine) StyleAt(pos int) StyleID {
	return e.styles.At(pos)
}

// Revision returns the text buffer's revision counter.
func (e *Engine) Revision() uint64 {
	return e.text.Revision()
}

// DefaultStyle returns the style given to unstyled insertions.
func (e *Engine) DefaultStyle() StyleID {
	return e.defaultStyle
}

// SetDefaultStyle changes the style given to unstyled insertions.
func (e *Engine) SetDefaultStyle(id StyleID) {
	e.defaultStyle = id
}

// IsReadOnly returns true if the engine rejects edits.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// SetReadOnly toggles edit rejection.
func (e *Engine) SetReadOnly(ro bool) {
	e.readOnly = ro
}

// CheckLockstep returns ErrStateMismatch if the text and style buffers
// disagree in length.
func (e *Engine) CheckLockstep() error {
	if e.text.Len() != e.styles.Len() {
		return fmt.Errorf("%w: text %d, styles %d", ErrStateMismatch, e.text.Len(), e.styles.Len())
	}
	return nil
}

// Write Operations

// SetText replaces the whole document with s in the default style and
// clears undo history.
func (e *Engine) SetText(s string) error {
	if e.readOnly {
		return ErrReadOnly
	}
	old := e.text.Len()
	if err := e.text.SetText(s); err != nil {
		return err
	}
	e.styles.Fill(e.text.Len(), e.defaultStyle)
	e.history.Clear()

	e.log.Debug("set text", zap.Int("chars", e.text.Len()), zap.Int("lines", e.text.LineCount()))
	e.notify(Change{Kind: ChangeReset, Removed: old, Inserted: e.text.Len(), Revision: e.text.Revision()})
	return nil
}

// Insert inserts s at pos in the default style.
// Returns the position after the inserted text.
func (e *Engine) Insert(pos int, s string) (int, error) {
	return e.InsertStyled(pos, s, e.defaultStyle)
}

// InsertStyled inserts s at pos with every character given style id.
func (e *Engine) InsertStyled(pos int, s string, id StyleID) (int, error) {
	return e.edit(pos, pos, s, repeatStyle(utf8.RuneCountInString(s), id))
}

// InsertWithStyles inserts s at pos with one explicit style per character.
func (e *Engine) InsertWithStyles(pos int, s string, styles []byte) (int, error) {
	return e.edit(pos, pos, s, styles)
}

// Remove deletes the characters in [start, end).
func (e *Engine) Remove(start, end int) error {
	_, err := e.edit(start, end, "", nil)
	return err
}

// Replace replaces [start, end) with s in the default style.
// Returns the position after the inserted text.
func (e *Engine) Replace(start, end int, s string) (int, error) {
	return e.edit(start, end, s, repeatStyle(utf8.RuneCountInString(s), e.defaultStyle))
}

// SetStyle restyles [start, end). Bounds are clamped. Restyling is not
// recorded in undo history. It fails with ErrStateMismatch when the
// buffers disagree in length, and then changes nothing.
func (e *Engine) SetStyle(start, end int, id StyleID) error {
	if err := e.CheckLockstep(); err != nil {
		return err
	}
	start = max(start, 0)
	end = min(end, e.styles.Len())
	if start >= end {
		return nil
	}
	if err := e.styles.SetRange(start, end, id); err != nil {
		return err
	}
	e.notify(Change{Kind: ChangeRestyle, Pos: start, Removed: end - start, Inserted: end - start, Revision: e.text.Revision()})
	return nil
}

// Restyle replaces every style id at once. ids must have one entry per
// character.
func (e *Engine) Restyle(ids []byte) error {
	if len(ids) != e.text.Len() {
		return fmt.Errorf("%w: text %d, styles %d", ErrStateMismatch, e.text.Len(), len(ids))
	}
	e.styles.SetBytes(ids)
	e.notify(Change{Kind: ChangeRestyle, Removed: len(ids), Inserted: len(ids), Revision: e.text.Revision()})
	return nil
}

func (e *Engine) edit(start, end int, s string, styles []byte) (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	if start == end && s == "" && start >= 0 && start <= e.text.Len() {
		return start, nil
	}
	oldText := e.text.Range(start, end)
	oldStyles := e.styles.Range(start, end)

	if err := e.apply(start, end, s, styles); err != nil {
		return 0, err
	}

	n := utf8.RuneCountInString(s)
	op := history.NewReplaceOperation(start, oldText, s, oldStyles, styles).WithCursor(end, start+n)
	e.history.Push(history.NewEditCommand(op))
	return start + n, nil
}

// apply performs a validated edit on both buffers and notifies listeners.
// Either both buffers change or neither does.
func (e *Engine) apply(start, end int, s string, styles []byte) error {
	if err := e.CheckLockstep(); err != nil {
		return err
	}
	length := e.text.Len()
	if start == end && (start < 0 || start > length) {
		return fmt.Errorf("insert at %d (length %d): %w", start, length, ErrInvalidBoundary)
	}
	if start < 0 || end > length || start > end {
		return fmt.Errorf("edit [%d, %d) (length %d): %w", start, end, length, ErrOutOfRange)
	}
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	n := utf8.RuneCountInString(s)
	if styles == nil {
		styles = repeatStyle(n, e.defaultStyle)
	}
	if len(styles) != n {
		return fmt.Errorf("%w: %d characters, %d styles", ErrStateMismatch, n, len(styles))
	}

	if err := e.text.Replace(start, end, s); err != nil {
		return err
	}
	if err := e.styles.Remove(start, end); err != nil {
		return err
	}
	if err := e.styles.InsertBytes(start, styles); err != nil {
		return err
	}

	e.log.Debug("edit",
		zap.Int("pos", start),
		zap.Int("removed", end-start),
		zap.Int("inserted", n),
		zap.Uint64("revision", e.text.Revision()),
	)
	e.notify(Change{Kind: ChangeEdit, Pos: start, Removed: end - start, Inserted: n, Revision: e.text.Revision()})
	return nil
}

func repeatStyle(n int, id StyleID) []byte {
	if n == 0 {
		return nil
	}
	s := make([]byte, n)
	for i := range s {
		s[i] = byte(id)
	}
	return s
}

// target lets history replay edits through apply without re-recording them.
type target struct {
	e *Engine
}

func (t target) ApplyEdit(start, end int, s string, styles []byte) error {
	return t.e.apply(start, end, s, styles)
}

// Undo/Redo Operations

// Undo undoes the last edit and returns the cursor position it recorded
// before the edit.
func (e *Engine) Undo() (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	cmd, err := e.history.Undo(target{e})
	if err != nil {
		return 0, err
	}
	return cursorOf(cmd, true), nil
}

// Redo redoes the last undone edit and returns the cursor position after it.
func (e *Engine) Redo() (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	cmd, err := e.history.Redo(target{e})
	if err != nil {
		return 0, err
	}
	return cursorOf(cmd, false), nil
}

func cursorOf(cmd Command, before bool) int {
	switch c := cmd.(type) {
	case *history.EditCommand:
		if before {
			return c.Op.CursorBefore
		}
		return c.Op.CursorAfter
	case *history.CompoundCommand:
		if len(c.Commands) == 0 {
			return 0
		}
		if before {
			return cursorOf(c.Commands[0], true)
		}
		return cursorOf(c.Commands[len(c.Commands)-1], false)
	}
	return 0
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// BeginUndoGroup starts a new undo group.
// All edits until EndUndoGroup are undone as a single unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.history.EndGroup()
}

// CancelUndoGroup cancels the current undo group without recording.
func (e *Engine) CancelUndoGroup() {
	e.history.CancelGroup()
}

// Transaction runs fn as one undo unit. If fn returns an error, the edits
// it made are reverted, listeners see the reverting edits, and the error
// is returned.
func (e *Engine) Transaction(name string, fn func() error) error {
	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Transaction(name, target{e}, fn)
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// Listeners

// Subscribe registers fn for every subsequent change and returns a
// function that removes it.
func (e *Engine) Subscribe(fn Listener) (cancel func()) {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify(c Change) {
	for _, l := range e.listeners {
		l.fn(c)
	}
}
