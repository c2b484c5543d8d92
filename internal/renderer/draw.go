package renderer

import (
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/cursor"
	"github.com/dshills/textview/internal/renderer/gutter"
)

// Draw paints the whole display.
func (d *Display) Draw(b backend.Backend) error {
	return d.DrawRegion(b, d.rect)
}

// DrawRegion repaints the part of the display inside clip. Rows that lie
// wholly outside clip are skipped. Nothing is drawn when the text area is
// shorter than one line.
func (d *Display) DrawRegion(b backend.Backend, clip core.Rect) error {
	if err := d.update(b); err != nil {
		return err
	}
	clip = clip.Intersection(d.rect)
	rows := d.view.Rows()
	if clip.IsEmpty() || rows == 0 {
		return nil
	}

	area := d.view.Area()
	lh := d.lineHeight
	if textClip := clip.Intersection(area); !textClip.IsEmpty() {
		b.PushClip(textClip)
		for row := 0; row < rows; row++ {
			y := d.view.RowY(row)
			if !textClip.Intersects(core.Rect{X: area.X, Y: y, W: area.W, H: lh}) {
				continue
			}
			d.drawRow(b, row, y)
		}
		// Partial row below the last whole one.
		if y := d.view.RowY(rows); y < area.Bottom() {
			b.SetColor(d.colors.Selection.Fill(b, d.colors.Background, 0))
			b.FillRect(core.Rect{X: area.X, Y: y, W: area.W, H: area.Bottom() - y})
		}
		d.drawCursor(b)
		b.PopClip()
	}

	if d.margin > 0 {
		d.drawGutter(b, clip)
	}
	return nil
}

func (d *Display) drawRow(b backend.Backend, row, y int) {
	start := d.starts.Start(row)
	if start < 0 {
		area := d.view.Area()
		b.SetColor(d.colors.Selection.Fill(b, d.colors.Background, 0))
		b.FillRect(core.Rect{X: area.X, Y: y, W: area.W, H: d.lineHeight})
		return
	}
	d.handleLine(b, lineQuery{mode: modeDraw, start: start, end: d.starts.End(row), b: b, y: y})
}

// drawCursor draws the insert position when it is on a visible row and
// no further than one pixel outside the text area.
func (d *Display) drawCursor(b backend.Backend) {
	if !d.cursorVisible {
		return
	}
	x, y, ok := d.positionToXY(b, d.insertPos)
	if !ok {
		return
	}
	area := d.view.Area()
	if x < area.X-1 || x > area.Right() {
		return
	}
	if cp, ok := b.(backend.CaretPainter); ok {
		cp.PaintCaret(x, y, d.lineHeight)
		return
	}
	shape := d.cursorStyle
	if !b.HasFocus() {
		shape = cursor.Dim
	}
	b.SetColor(d.decorationColor(b, d.colors.Cursor))
	cursor.Draw(b, shape, cursor.Geometry{X: x, Y: y, Height: d.lineHeight, CellWidth: d.maxFontWidth})
}

func (d *Display) drawGutter(b backend.Backend, clip core.Rect) {
	area := core.Rect{X: d.rect.X, Y: d.rect.Y, W: d.margin, H: d.rect.H}
	gclip := clip.Intersection(area)
	if gclip.IsEmpty() {
		return
	}
	rows := make([]gutter.Row, d.view.Rows())
	for r := range rows {
		// Only the first row of a wrapped line is numbered.
		line := -1
		if d.starts.FirstOfLine(r) {
			line = d.starts.Line(r)
		}
		rows[r] = gutter.Row{Line: line, Y: d.view.RowY(r), Height: d.lineHeight}
	}
	current := d.text.CountLines(0, d.insertPos)

	b.PushClip(gclip)
	d.gutter.Draw(b, area, rows, current)
	b.PopClip()
}
