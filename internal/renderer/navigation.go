package renderer

import (
	"github.com/dshills/textview/internal/renderer/backend"
)

// PositionKind selects how a pixel maps to a buffer position.
type PositionKind uint8

const (
	// CharacterPos returns the character under the pixel.
	CharacterPos PositionKind = iota
	// CursorPos returns the character boundary nearest to the pixel.
	CursorPos
)

func (k PositionKind) mode() lineMode {
	if k == CursorPos {
		return modeCursor
	}
	return modeHitTest
}

// lineBounds returns the first character of line and the offset of its
// newline, or the buffer length for the last line.
func (d *Display) lineBounds(line int) (int, int, error) {
	start, err := d.text.LineStart(line)
	if err != nil {
		return 0, 0, err
	}
	return start, d.text.LineEnd(start), nil
}

// MeasureLine returns the width in pixels of line, tabs expanded. The
// line is measured unwrapped.
func (d *Display) MeasureLine(b backend.Backend, line int) (float64, error) {
	if err := d.update(b); err != nil {
		return 0, err
	}
	start, end, err := d.lineBounds(line)
	if err != nil {
		return 0, err
	}
	return d.handleLine(b, lineQuery{mode: modeMeasure, start: start, end: end, stop: end}).width, nil
}

// HitTest returns the character of line whose glyph spans x, where x is
// measured from the start of the line. Positions left of the line give
// its first character and positions past its end the last one. An empty
// line yields its start.
func (d *Display) HitTest(b backend.Backend, line int, x float64) (int, error) {
	if err := d.update(b); err != nil {
		return 0, err
	}
	start, end, err := d.lineBounds(line)
	if err != nil {
		return 0, err
	}
	idx := d.handleLine(b, lineQuery{mode: modeHitTest, start: start, end: end, target: x}).index
	if idx >= end && end > start {
		idx = end - 1
	}
	return idx, nil
}

// PositionCursor returns the character boundary of line nearest to x.
// The result may equal the line end.
func (d *Display) PositionCursor(b backend.Backend, line int, x float64) (int, error) {
	if err := d.update(b); err != nil {
		return 0, err
	}
	start, end, err := d.lineBounds(line)
	if err != nil {
		return 0, err
	}
	return d.handleLine(b, lineQuery{mode: modeCursor, start: start, end: end, target: x}).index, nil
}

// XYToPosition maps a window pixel to a buffer position. y is clamped to
// the visible rows; rows past the end of the buffer give the buffer
// length. CharacterPos past the end of a row gives its last character,
// like HitTest; CursorPos may give the offset of the row's newline.
func (d *Display) XYToPosition(b backend.Backend, x, y int, kind PositionKind) (int, error) {
	if err := d.update(b); err != nil {
		return 0, err
	}
	return d.xyToPosition(b, x, y, kind), nil
}

func (d *Display) xyToPosition(b backend.Backend, x, y int, kind PositionKind) int {
	if d.view.Rows() == 0 {
		return 0
	}
	row := d.view.RowAt(y)
	start := d.starts.Start(row)
	if start < 0 {
		return d.text.Len()
	}
	end := d.starts.End(row)
	q := lineQuery{
		mode:   kind.mode(),
		start:  start,
		end:    end,
		target: float64(d.view.ContentX(x)),
	}
	idx := d.handleLine(b, q).index
	// Past the last character: the character under the pixel is the last
	// one, as in HitTest, and a cursor stays on a wrapped row.
	if idx >= end && end > start && (kind == CharacterPos || d.starts.Wrapped(row)) {
		idx = end - 1
	}
	return idx
}

// PositionToXY returns the window pixel where the cursor would be drawn
// for pos: x is the left edge of the character and y the top of its row.
// ok is false when pos is not on a visible row.
func (d *Display) PositionToXY(b backend.Backend, pos int) (x, y int, ok bool, err error) {
	if err := d.update(b); err != nil {
		return 0, 0, false, err
	}
	x, y, ok = d.positionToXY(b, pos)
	return x, y, ok, nil
}

func (d *Display) positionToXY(b backend.Backend, pos int) (int, int, bool) {
	row, ok := d.starts.RowOf(pos)
	if !ok {
		return 0, 0, false
	}
	start, end := d.starts.Start(row), d.starts.End(row)
	w := d.handleLine(b, lineQuery{mode: modeMeasure, start: start, end: end, stop: pos}).width
	return d.windowX(w), d.view.RowY(row), true
}

// Scroll shows topLine at the top and scrolls hOffset pixels to the
// right. Both are clamped.
func (d *Display) Scroll(topLine, hOffset int) {
	d.view.SetLineCount(d.text.LineCount())
	if d.wrapMode == WrapAtBounds {
		hOffset = 0
	}
	if d.view.ScrollTo(topLine, hOffset) {
		d.dirty |= dirtyLayout
	}
}

// ScrollBy moves the top line by lines, which may be negative.
func (d *Display) ScrollBy(lines int) {
	d.Scroll(d.view.TopLine()+lines, d.view.HOffset())
}

// PageDown scrolls forward one screen, keeping one line of overlap. With
// wrapping the line of the last visible row becomes the top line.
func (d *Display) PageDown(b backend.Backend) error {
	if err := d.update(b); err != nil {
		return err
	}
	if d.wrapMode != WrapNone {
		top := d.view.TopLine()
		line := top + 1
		if last := d.starts.LastStart(); last >= 0 {
			line = max(d.text.CountLines(0, last), line)
		}
		d.Scroll(line, d.view.HOffset())
		return nil
	}
	if d.view.PageDown() {
		d.dirty |= dirtyLayout
	}
	return nil
}

// PageUp scrolls back one screen, keeping one line of overlap.
func (d *Display) PageUp(b backend.Backend) error {
	if err := d.update(b); err != nil {
		return err
	}
	if d.view.PageUp() {
		d.dirty |= dirtyLayout
	}
	return nil
}

// TopLine returns the first visible line.
func (d *Display) TopLine() int { return d.view.TopLine() }

// HOffset returns the horizontal scroll in pixels.
func (d *Display) HOffset() int { return d.view.HOffset() }

// ShowInsertPosition scrolls the least amount that puts the insert
// position on a visible row with two glyph widths of space on either side.
func (d *Display) ShowInsertPosition(b backend.Backend) error {
	if err := d.update(b); err != nil {
		return err
	}
	line := d.text.CountLines(0, d.insertPos)
	changed := d.view.RevealLine(line)
	if d.wrapMode != WrapNone && d.revealWrapped(b, d.insertPos) {
		changed = true
	}
	if d.wrapMode != WrapAtBounds {
		x := int(d.offsetInRow(b, d.insertPos))
		if d.view.RevealX(x, 2*d.maxFontWidth) {
			changed = true
		}
	}
	if changed {
		d.dirty |= dirtyLayout
	}
	return nil
}

// InsertPosition returns the cursor position.
func (d *Display) InsertPosition() int { return d.insertPos }

// SetInsertPosition moves the cursor, clamped to the buffer.
func (d *Display) SetInsertPosition(pos int) {
	d.insertPos = min(max(pos, 0), d.text.Len())
	d.prefX = -1
}

// MoveRight moves the cursor one character forward. It reports whether
// the cursor moved.
func (d *Display) MoveRight() bool {
	if d.insertPos >= d.text.Len() {
		return false
	}
	d.SetInsertPosition(d.insertPos + 1)
	return true
}

// MoveLeft moves the cursor one character back.
func (d *Display) MoveLeft() bool {
	if d.insertPos <= 0 {
		return false
	}
	d.SetInsertPosition(d.insertPos - 1)
	return true
}

// MoveUp moves the cursor to the previous row, as close as possible to
// the column it held when vertical movement began. Without wrapping a
// row is a line.
func (d *Display) MoveUp(b backend.Backend) (bool, error) {
	return d.moveVertical(b, -1)
}

// MoveDown moves the cursor to the next row.
func (d *Display) MoveDown(b backend.Backend) (bool, error) {
	return d.moveVertical(b, 1)
}

func (d *Display) moveVertical(b backend.Backend, dir int) (bool, error) {
	if err := d.update(b); err != nil {
		return false, err
	}
	pos := d.insertPos
	start, end, wrapped := d.rowBounds(b, pos)
	var target int
	switch {
	case dir < 0 && start == 0:
		return false, nil
	case dir < 0:
		target = start - 1
	case wrapped:
		target = end
	case end >= d.text.Len():
		return false, nil
	default:
		target = end + 1
	}

	x := d.prefX
	if x < 0 {
		x = d.offsetInRow(b, pos)
	}
	ts, te, twrapped := d.rowBounds(b, target)
	idx := d.handleLine(b, lineQuery{mode: modeCursor, start: ts, end: te, target: x}).index
	if twrapped && idx >= te && te > ts {
		idx = te - 1
	}
	d.insertPos = idx
	d.prefX = x
	return true, nil
}

// NextWord moves the cursor past the end of the current word and any
// separators after it.
func (d *Display) NextWord() {
	pos := d.text.WordEnd(d.insertPos)
	for pos < d.text.Len() && d.text.IsWordSeparator(pos) {
		pos++
	}
	d.SetInsertPosition(pos)
}

// PreviousWord moves the cursor to the start of the previous word.
func (d *Display) PreviousWord() {
	pos := d.insertPos
	if pos > 0 && !d.text.IsWordSeparator(pos) {
		pos = d.text.WordStart(pos)
		if pos == 0 {
			d.SetInsertPosition(0)
			return
		}
		pos--
	}
	for pos > 0 && d.text.IsWordSeparator(pos) {
		pos--
	}
	if pos > 0 {
		pos = d.text.WordStart(pos)
	}
	d.SetInsertPosition(pos)
}
