package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/textview/internal/engine"
	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/logging"
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/cursor"
	"github.com/dshills/textview/internal/renderer/gutter"
	"github.com/dshills/textview/internal/renderer/layout"
	"github.com/dshills/textview/internal/renderer/selection"
	"github.com/dshills/textview/internal/renderer/style"
	"github.com/dshills/textview/internal/renderer/viewport"
)

// Colors holds the display's own colors. Style table entries override
// Text and Background per character.
type Colors struct {
	Text       core.Color
	Background core.Color
	Cursor     core.Color
	Grammar    core.Color
	Spelling   core.Color
	Selection  selection.Palette
}

// DefaultColors returns black text on white.
func DefaultColors() Colors {
	return Colors{
		Text:       core.ColorBlack,
		Background: core.ColorWhite,
		Cursor:     core.ColorBlack,
		Grammar:    core.ColorBlue,
		Spelling:   core.ColorRed,
		Selection:  selection.DefaultPalette(),
	}
}

// Options configures a Display.
type Options struct {
	// Font is used for characters without a style table entry.
	Font core.Font

	// TabWidth is the tab stop distance in spaces.
	TabWidth int

	Colors      Colors
	LineNumbers gutter.Config

	CursorStyle   cursor.Style
	CursorVisible bool

	// WrapMode and WrapMargin set how long lines wrap; see SetWrapMode.
	WrapMode   WrapMode
	WrapMargin int

	// Logger overrides the package logger.
	Logger *zap.Logger
}

// DefaultOptions returns the default display options.
func DefaultOptions() Options {
	return Options{
		Font:          core.Font{Face: core.FontSans, Size: 14},
		TabWidth:      layout.DefaultTabWidth,
		Colors:        DefaultColors(),
		LineNumbers:   gutter.DefaultConfig(),
		CursorStyle:   cursor.Normal,
		CursorVisible: true,
	}
}

// dirtyFlags marks derived state for recomputation on the next access.
type dirtyFlags uint8

const (
	dirtyMetrics dirtyFlags = 1 << iota
	dirtyLayout
)

// Display renders a text buffer and its style buffer onto a backend and
// maps between buffer positions and pixels.
//
// Setters only record the change; fonts, margins and visible line starts
// are recomputed the next time the display is drawn or queried. Display
// is not safe for concurrent use.
type Display struct {
	log *zap.Logger

	text   *buffer.TextBuffer
	styles *buffer.StyleBuffer
	cancel func()

	table  *style.Table
	font   core.Font
	colors Colors
	gutter gutter.Config

	cursorStyle   cursor.Style
	cursorVisible bool

	rect   core.Rect
	view   *viewport.Viewport
	starts layout.Starts
	tabs   *layout.TabExpander

	wrapMode   WrapMode
	wrapMargin int

	insertPos int
	// prefX is the content x vertical moves aim for, or -1.
	prefX float64

	sel  selection.Set
	drag dragState

	dirty        dirtyFlags
	metricsFor   backend.Metrics
	lineHeight   int
	maxFontWidth int
	columnWidth  float64
	margin       int
	layoutRev    uint64
}

// New creates a display covering rect with an empty buffer attached.
func New(rect core.Rect, opts Options) *Display {
	log := opts.Logger
	if log == nil {
		log = logging.Named("display")
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = layout.DefaultTabWidth
	}
	d := &Display{
		log:           log,
		text:          buffer.NewTextBuffer(),
		styles:        buffer.NewStyleBuffer(),
		font:          opts.Font,
		colors:        opts.Colors,
		gutter:        opts.LineNumbers,
		cursorStyle:   opts.CursorStyle,
		cursorVisible: opts.CursorVisible,
		rect:          rect,
		view:          viewport.New(rect, 0),
		tabs:          layout.NewTabExpander(opts.TabWidth, 1),
		wrapMode:      opts.WrapMode,
		wrapMargin:    max(opts.WrapMargin, 0),
		prefX:         -1,
		dirty:         dirtyMetrics | dirtyLayout,
	}
	return d
}

// SetBuffers shows text styled by styles. The buffers must have the same
// length whenever the display is drawn or queried. A nil text buffer is
// replaced by an empty one; a nil style buffer leaves every character
// unstyled.
func (d *Display) SetBuffers(text *buffer.TextBuffer, styles *buffer.StyleBuffer) {
	d.Detach()
	if text == nil {
		text = buffer.NewTextBuffer()
	}
	if styles == nil {
		styles = buffer.NewStyleBuffer()
		styles.Fill(text.Len(), 0)
	}
	d.text, d.styles = text, styles
	d.resetPositions()
	d.view.ScrollTo(0, 0)
	d.dirty |= dirtyLayout
	d.log.Debug("buffers set",
		zap.Stringer("buffer", text.ID()),
		zap.Int("length", text.Len()))
}

// Attach shows the engine's buffers and follows its edits: the insert
// position and selections move with the text.
func (d *Display) Attach(e *engine.Engine) {
	d.SetBuffers(e.TextBuffer(), e.StyleBuffer())
	d.cancel = e.Subscribe(d.onChange)
}

// Detach stops following the attached engine. The buffers stay shown.
func (d *Display) Detach() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Display) onChange(c engine.Change) {
	switch c.Kind {
	case engine.ChangeReset:
		d.resetPositions()
	case engine.ChangeEdit:
		d.sel.Shift(c.Pos, c.Removed, c.Inserted)
		d.insertPos = shiftPos(d.insertPos, c.Pos, c.Removed, c.Inserted)
		d.prefX = -1
	}
	d.dirty |= dirtyLayout
}

// shiftPos moves pos past an edit that replaced removed characters at at
// with inserted ones. Positions inside the removed text collapse to at.
func shiftPos(pos, at, removed, inserted int) int {
	switch {
	case pos < at:
		return pos
	case pos < at+removed:
		return at
	default:
		return pos - removed + inserted
	}
}

func (d *Display) resetPositions() {
	d.insertPos = 0
	d.prefX = -1
	d.sel.ClearAll()
	d.drag = dragState{}
}

// TextBuffer returns the displayed text.
func (d *Display) TextBuffer() *buffer.TextBuffer { return d.text }

// StyleBuffer returns the displayed styles.
func (d *Display) StyleBuffer() *buffer.StyleBuffer { return d.styles }

// SetStyleTable replaces the style table. Characters whose id has no
// entry use the display font and colors.
func (d *Display) SetStyleTable(t *style.Table) {
	d.table = t
	d.dirty |= dirtyMetrics
	d.log.Debug("style table set", zap.Int("entries", t.Len()))
}

// StyleTable returns the current style table, which may be nil.
func (d *Display) StyleTable() *style.Table { return d.table }

// SetFont sets the font of unstyled characters.
func (d *Display) SetFont(f core.Font) {
	d.font = f
	d.dirty |= dirtyMetrics
}

// Font returns the font of unstyled characters.
func (d *Display) Font() core.Font { return d.font }

// SetLineNumbers configures the line number margin.
func (d *Display) SetLineNumbers(c gutter.Config) {
	d.gutter = c
	d.dirty |= dirtyLayout
}

// LineNumbers returns the line number margin configuration.
func (d *Display) LineNumbers() gutter.Config { return d.gutter }

// SetCursorStyle sets the cursor shape.
func (d *Display) SetCursorStyle(s cursor.Style) { d.cursorStyle = s }

// CursorStyle returns the cursor shape.
func (d *Display) CursorStyle() cursor.Style { return d.cursorStyle }

// SetCursorColor sets the cursor color.
func (d *Display) SetCursorColor(c core.Color) { d.colors.Cursor = c }

// SetCursorVisible shows or hides the cursor.
func (d *Display) SetCursorVisible(visible bool) { d.cursorVisible = visible }

// CursorVisible reports whether the cursor is drawn.
func (d *Display) CursorVisible() bool { return d.cursorVisible }

// SetTabWidth sets the tab stop distance in spaces. Values below one are
// treated as one.
func (d *Display) SetTabWidth(n int) {
	d.tabs.SetTabWidth(n)
}

// TabWidth returns the tab stop distance in spaces.
func (d *Display) TabWidth() int { return d.tabs.TabWidth() }

// SetColors replaces the display colors.
func (d *Display) SetColors(c Colors) { d.colors = c }

// Colors returns the display colors.
func (d *Display) Colors() Colors { return d.colors }

// Rect returns the area the display covers, margin included.
func (d *Display) Rect() core.Rect { return d.rect }

// Resize moves the display to rect.
func (d *Display) Resize(rect core.Rect) {
	if rect == d.rect {
		return
	}
	d.rect = rect
	d.dirty |= dirtyLayout
}

// checkLockstep reports a length mismatch between the buffers.
func (d *Display) checkLockstep() error {
	if n, m := d.text.Len(), d.styles.Len(); n != m {
		err := fmt.Errorf("%w: text %d, styles %d", buffer.ErrStateMismatch, n, m)
		d.log.Error("buffers out of step", zap.Error(err))
		return err
	}
	return nil
}

// update brings metrics and layout up to date for b.
func (d *Display) update(m backend.Metrics) error {
	if err := d.checkLockstep(); err != nil {
		return err
	}
	if d.dirty&dirtyMetrics != 0 || d.metricsFor != m {
		d.updateMetrics(m)
	}

	lines := d.text.LineCount()
	if margin := d.gutter.MarginWidth(m, lines); margin != d.margin {
		d.margin = margin
		d.dirty |= dirtyLayout
	}
	if rev := d.text.Revision(); rev != d.layoutRev {
		d.layoutRev = rev
		d.dirty |= dirtyLayout
	}
	if d.dirty&dirtyLayout == 0 {
		return nil
	}

	d.view.SetArea(d.rect.Inset(d.margin, 0, 0, 0))
	d.view.SetLineHeight(d.lineHeight)
	d.view.SetLineCount(lines)
	d.insertPos = min(max(d.insertPos, 0), d.text.Len())
	d.sel.Clamp(d.text.Len())
	d.starts.Rebuild(d.text, d.view.TopLine(), d.view.Rows(), d.breakFunc(m))
	d.dirty &^= dirtyLayout

	d.log.Debug("layout",
		zap.Int("top", d.view.TopLine()),
		zap.Int("rows", d.view.Rows()),
		zap.Int("margin", d.margin))
	return nil
}

// updateMetrics derives line height and character widths from m. The
// line height fits the tallest font in use.
func (d *Display) updateMetrics(m backend.Metrics) {
	h := m.Measure("", d.font).Height
	for _, f := range d.table.Fonts() {
		h = max(h, m.Measure("", f).Height)
	}
	d.lineHeight = h
	d.columnWidth = m.Measure("Mitg", d.font).Width / 4
	d.maxFontWidth = max(int(d.columnWidth), 1)
	d.tabs.SetSpaceWidth(m.Measure(" ", d.font).Width)
	d.metricsFor = m
	d.dirty &^= dirtyMetrics
	d.dirty |= dirtyLayout
}

// LineHeight returns the row height computed by the last update, or zero
// before the display has seen a backend.
func (d *Display) LineHeight() int { return d.lineHeight }

// TextArea returns the part of the display right of the line number margin.
func (d *Display) TextArea(m backend.Metrics) (core.Rect, error) {
	if err := d.update(m); err != nil {
		return core.Rect{}, err
	}
	return d.view.Area(), nil
}

// VisibleRows returns the number of whole rows that fit in the text area.
func (d *Display) VisibleRows(m backend.Metrics) (int, error) {
	if err := d.update(m); err != nil {
		return 0, err
	}
	return d.view.Rows(), nil
}

// RowStart returns the first character shown on visible row, or -1 when
// the row is past the end of the buffer.
func (d *Display) RowStart(m backend.Metrics, row int) (int, error) {
	if err := d.update(m); err != nil {
		return -1, err
	}
	return d.starts.Start(row), nil
}

// entry returns the style table entry for id and whether it exists.
func (d *Display) entry(id style.ID) (style.Entry, bool) {
	return d.table.Lookup(id)
}

// fontOf returns the font of characters with style id.
func (d *Display) fontOf(id style.ID) core.Font {
	if e, ok := d.entry(id); ok {
		return e.Font
	}
	return d.font
}
