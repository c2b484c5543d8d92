package renderer

import (
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/selection"
)

// DragKind is the unit a mouse drag extends the selection by.
type DragKind uint8

const (
	DragChar DragKind = iota
	DragWord
	DragLine
)

type dragState struct {
	active bool
	kind   DragKind
	// anchor is the fixed end of the selection.
	anchor int
}

// Press starts a mouse selection at window pixel (x, y). clicks counts
// consecutive clicks: 1 places the cursor, 2 selects a word and 3 selects
// the whole line including its newline. With shift held the primary
// selection is extended from the cursor instead. It reports whether the
// press was handled.
func (d *Display) Press(b backend.Backend, x, y int, shift bool, clicks int) (bool, error) {
	if err := d.update(b); err != nil {
		return false, err
	}
	pos := d.xyToPosition(b, x, y, CursorPos)

	if shift {
		d.drag = dragState{active: true, kind: DragChar, anchor: d.insertPos}
		d.extendDrag(pos)
		return true, d.ShowInsertPosition(b)
	}

	d.drag = dragState{active: true, anchor: pos}
	switch {
	case clicks == 2:
		d.drag.kind = DragWord
		start, end := d.text.WordStart(pos), d.text.WordEnd(pos)
		d.sel.Select(selection.Primary, start, end)
		d.drag.anchor = start
		d.SetInsertPosition(end)
	case clicks >= 3:
		d.drag.kind = DragLine
		start, end := d.lineSpan(pos, pos)
		d.sel.Select(selection.Primary, start, end)
		d.drag.anchor = start
		d.SetInsertPosition(end)
	default:
		d.drag.kind = DragChar
		d.sel.Clear(selection.Primary)
		d.SetInsertPosition(pos)
	}
	return true, d.ShowInsertPosition(b)
}

// Drag extends the selection started by Press to window pixel (x, y).
func (d *Display) Drag(b backend.Backend, x, y int) (bool, error) {
	if !d.drag.active {
		return false, nil
	}
	if err := d.update(b); err != nil {
		return false, err
	}
	d.extendDrag(d.xyToPosition(b, x, y, CursorPos))
	return true, d.ShowInsertPosition(b)
}

// Release ends a mouse selection. Later drags extend by characters.
func (d *Display) Release() bool {
	if !d.drag.active {
		return false
	}
	d.drag.active = false
	d.drag.kind = DragChar
	return true
}

// Dragging reports whether a mouse selection is in progress.
func (d *Display) Dragging() bool { return d.drag.active }

func (d *Display) extendDrag(pos int) {
	a := d.drag.anchor
	var start, end int
	switch d.drag.kind {
	case DragWord:
		if pos >= a {
			start, end = d.text.WordStart(a), d.text.WordEnd(pos)
		} else {
			start, end = d.text.WordStart(pos), d.text.WordEnd(a)
		}
	case DragLine:
		if pos >= a {
			start, end = d.lineSpan(a, pos)
		} else {
			start, end = d.lineSpan(pos, a)
		}
	default:
		start, end = min(a, pos), max(a, pos)
	}
	d.sel.Select(selection.Primary, start, end)
	if pos >= a {
		d.SetInsertPosition(end)
	} else {
		d.SetInsertPosition(start)
	}
}

// lineSpan returns the start of from's line and the position after the
// newline ending to's line.
func (d *Display) lineSpan(from, to int) (int, int) {
	start := d.text.LineStartOf(from)
	end := d.text.LineEnd(to)
	if end < d.text.Len() {
		end++
	}
	return start, end
}

// InSelection reports whether the character at window pixel (x, y) is
// inside the primary selection.
func (d *Display) InSelection(b backend.Backend, x, y int) (bool, error) {
	if err := d.update(b); err != nil {
		return false, err
	}
	pos := d.xyToPosition(b, x, y, CharacterPos)
	return d.sel.Get(selection.Primary).Contains(pos), nil
}

// Select sets a selection range. An empty range clears it.
func (d *Display) Select(k selection.Kind, start, end int) {
	n := d.text.Len()
	d.sel.Select(k, min(max(start, 0), n), min(max(end, 0), n))
}

// Unselect clears a selection range.
func (d *Display) Unselect(k selection.Kind) { d.sel.Clear(k) }

// Selection returns a selection range.
func (d *Display) Selection(k selection.Kind) selection.Range { return d.sel.Get(k) }

// SelectedText returns the text of the primary selection.
func (d *Display) SelectedText() string {
	r := d.sel.Get(selection.Primary)
	if !r.Selected {
		return ""
	}
	return d.text.Range(r.Start, r.End)
}
