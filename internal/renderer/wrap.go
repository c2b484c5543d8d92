package renderer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/textview/internal/renderer/backend"
)

// WrapMode selects how lines longer than the wrap width are shown.
type WrapMode uint8

const (
	// WrapNone shows every line on one row and scrolls horizontally.
	WrapNone WrapMode = iota
	// WrapAtColumn wraps after margin columns of the widest default-font
	// character.
	WrapAtColumn
	// WrapAtPixel wraps at margin pixels.
	WrapAtPixel
	// WrapAtBounds wraps at the right edge of the text area.
	WrapAtBounds
)

var wrapModeNames = [...]string{"none", "column", "pixel", "bounds"}

func (m WrapMode) String() string {
	if int(m) < len(wrapModeNames) {
		return wrapModeNames[m]
	}
	return fmt.Sprintf("WrapMode(%d)", uint8(m))
}

// ParseWrapMode converts "none", "column", "pixel" or "bounds".
func ParseWrapMode(name string) (WrapMode, error) {
	for i, n := range wrapModeNames {
		if strings.EqualFold(name, n) {
			return WrapMode(i), nil
		}
	}
	return WrapNone, fmt.Errorf("unknown wrap mode %q", name)
}

// maxWrapLookBack bounds how far a break moves back to find a word
// separator.
const maxWrapLookBack = 10

// wrapSlack absorbs rounding in fractional widths, so a row that should
// end exactly at the wrap width is not broken one character early.
const wrapSlack = 1e-3

// SetWrapMode sets how long lines wrap. margin is a column count for
// WrapAtColumn and a pixel width for WrapAtPixel; other modes ignore it.
// Wrapping disables horizontal scrolling for WrapAtBounds.
func (d *Display) SetWrapMode(mode WrapMode, margin int) {
	d.wrapMode, d.wrapMargin = mode, max(margin, 0)
	if mode == WrapAtBounds {
		d.view.ScrollTo(d.view.TopLine(), 0)
	}
	d.prefX = -1
	d.dirty |= dirtyLayout
}

// WrapMode returns the wrap mode and margin.
func (d *Display) WrapMode() (WrapMode, int) { return d.wrapMode, d.wrapMargin }

// wrapWidth returns the content width rows are broken at, or zero when
// lines do not wrap.
func (d *Display) wrapWidth() float64 {
	switch d.wrapMode {
	case WrapAtColumn:
		return float64(d.wrapMargin) * d.columnWidth
	case WrapAtPixel:
		return float64(d.wrapMargin)
	case WrapAtBounds:
		return float64(d.view.Area().W)
	}
	return 0
}

// breakFunc returns the row breaker for the current wrap mode, or nil.
func (d *Display) breakFunc(m backend.Metrics) func(start, lineEnd int) int {
	if d.wrapMode == WrapNone {
		return nil
	}
	return func(start, lineEnd int) int {
		return d.rowBreak(m, start, lineEnd)
	}
}

// rowBreak returns where the row beginning at start ends. The first
// character that would cross the wrap width goes to the next row; when a
// word separator lies a few characters before it the row ends after the
// separator instead. A row always holds at least one character.
func (d *Display) rowBreak(m backend.Metrics, start, lineEnd int) int {
	if d.wrapMode == WrapNone || lineEnd <= start {
		return lineEnd
	}
	w := d.wrapWidth()
	q := lineQuery{mode: modeHitTest, start: start, end: lineEnd, target: w + wrapSlack}
	brk := d.handleLine(m, q).index
	if brk >= lineEnd {
		return lineEnd
	}
	if brk <= start {
		return start + 1
	}
	// A separator at the break hangs off the end of the row.
	if r, err := d.text.CharAt(brk); err == nil && unicode.IsSpace(r) {
		return brk + 1
	}
	lookBack := min(maxWrapLookBack, (brk-start)/4)
	for p := brk - 1; p >= brk-lookBack && p > start; p-- {
		if d.text.IsWordSeparator(p) {
			return p + 1
		}
	}
	return brk
}

// rowBounds returns the start and end of the row holding pos, computed
// from its line without the visible row cache. A position where a line
// wraps belongs to the row it starts. wrapped reports whether the row
// ends at a wrap point rather than a newline.
func (d *Display) rowBounds(m backend.Metrics, pos int) (start, end int, wrapped bool) {
	start = d.text.LineStartOf(pos)
	lineEnd := d.text.LineEnd(start)
	for {
		end = d.rowBreak(m, start, lineEnd)
		if end >= lineEnd || pos < end {
			return start, end, end < lineEnd
		}
		start = end
	}
}

// offsetInRow returns the pen advance from the start of pos's row to pos.
func (d *Display) offsetInRow(m backend.Metrics, pos int) float64 {
	start, end, _ := d.rowBounds(m, pos)
	return d.handleLine(m, lineQuery{mode: modeMeasure, start: start, end: end, stop: pos}).width
}

// revealWrapped scrolls forward line by line until pos's row is among the
// visible rows. The top line never passes pos's line.
func (d *Display) revealWrapped(m backend.Metrics, pos int) bool {
	line := d.text.CountLines(0, pos)
	changed := false
	for {
		d.starts.Rebuild(d.text, d.view.TopLine(), d.view.Rows(), d.breakFunc(m))
		if _, ok := d.starts.RowOf(pos); ok || d.view.TopLine() >= line {
			return changed
		}
		if !d.view.ScrollBy(1) {
			return changed
		}
		changed = true
	}
}
