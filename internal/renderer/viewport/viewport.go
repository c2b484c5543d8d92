// Package viewport tracks the scroll position and row geometry of the
// text area.
package viewport

import "github.com/dshills/textview/internal/renderer/core"

// Viewport maps buffer lines to pixel rows. Lines are 0-based. The zero
// value has no area and shows no rows.
type Viewport struct {
	area       core.Rect
	lineHeight int
	lineCount  int
	topLine    int
	hOffset    int
}

// New returns a viewport over area with rows lineHeight pixels tall.
func New(area core.Rect, lineHeight int) *Viewport {
	v := &Viewport{lineCount: 1}
	v.SetArea(area)
	v.SetLineHeight(lineHeight)
	return v
}

// Area returns the text area.
func (v *Viewport) Area() core.Rect { return v.area }

// SetArea changes the text area.
func (v *Viewport) SetArea(area core.Rect) {
	area.W = max(area.W, 0)
	area.H = max(area.H, 0)
	v.area = area
}

// LineHeight returns the row height.
func (v *Viewport) LineHeight() int { return v.lineHeight }

// SetLineHeight changes the row height.
func (v *Viewport) SetLineHeight(h int) { v.lineHeight = max(h, 0) }

// LineCount returns the number of lines scrolling is clamped to.
func (v *Viewport) LineCount() int { return v.lineCount }

// SetLineCount sets the buffer line count and clamps the scroll position.
func (v *Viewport) SetLineCount(n int) {
	v.lineCount = max(n, 1)
	v.topLine = v.clampTop(v.topLine)
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int { return v.topLine }

// HOffset returns the horizontal scroll in pixels.
func (v *Viewport) HOffset() int { return v.hOffset }

// Rows returns the number of whole rows that fit in the area. It is zero
// when the area is shorter than one row.
func (v *Viewport) Rows() int {
	if v.lineHeight <= 0 {
		return 0
	}
	return v.area.H / v.lineHeight
}

// RowY returns the top of row.
func (v *Viewport) RowY(row int) int {
	return v.area.Y + row*v.lineHeight
}

// RowAt returns the row containing y, clamped to the visible rows.
func (v *Viewport) RowAt(y int) int {
	rows := v.Rows()
	if rows == 0 {
		return 0
	}
	row := 0
	if y > v.area.Y {
		row = (y - v.area.Y) / v.lineHeight
	}
	return min(row, rows-1)
}

// ContentX converts a window x to a position along the unscrolled line.
func (v *Viewport) ContentX(x int) int {
	return x - v.area.X + v.hOffset
}

// WindowX converts a position along the unscrolled line to a window x.
func (v *Viewport) WindowX(x int) int {
	return x + v.area.X - v.hOffset
}

// LineVisible reports whether line is on a visible row.
func (v *Viewport) LineVisible(line int) bool {
	return line >= v.topLine && line < v.topLine+v.Rows()
}

// ScrollTo moves the top line and horizontal offset. It reports whether
// anything changed.
func (v *Viewport) ScrollTo(topLine, hOffset int) bool {
	topLine = v.clampTop(topLine)
	hOffset = max(hOffset, 0)
	if topLine == v.topLine && hOffset == v.hOffset {
		return false
	}
	v.topLine, v.hOffset = topLine, hOffset
	return true
}

// ScrollBy moves the top line by delta lines.
func (v *Viewport) ScrollBy(delta int) bool {
	return v.ScrollTo(v.topLine+delta, v.hOffset)
}

// PageDown scrolls forward by one screen less one line of overlap.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(max(v.Rows()-1, 1))
}

// PageUp scrolls back by one screen less one line of overlap.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-max(v.Rows()-1, 1))
}

// RevealLine scrolls the least amount that makes line visible.
func (v *Viewport) RevealLine(line int) bool {
	rows := v.Rows()
	top := v.topLine
	switch {
	case line < top:
		top = line
	case rows > 0 && line >= top+rows:
		top = line - rows + 1
	}
	return v.ScrollTo(top, v.hOffset)
}

// RevealX scrolls horizontally so content x lies at least margin pixels
// inside the area.
func (v *Viewport) RevealX(x, margin int) bool {
	h := v.hOffset
	switch visible := x - h; {
	case visible < margin:
		h = x - margin
	case visible > v.area.W-margin:
		h = x - v.area.W + margin
	}
	return v.ScrollTo(v.topLine, h)
}

func (v *Viewport) clampTop(top int) int {
	return min(max(top, 0), v.lineCount-1)
}
