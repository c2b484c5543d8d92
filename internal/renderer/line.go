package renderer

import (
	"math"
	"unicode/utf8"

	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/selection"
	"github.com/dshills/textview/internal/renderer/style"
)

// lineMode selects what handleLine does with a line.
type lineMode uint8

const (
	// modeDraw paints the line.
	modeDraw lineMode = iota
	// modeMeasure returns the pen advance up to lineQuery.stop.
	modeMeasure
	// modeHitTest returns the character whose glyph contains target.
	modeHitTest
	// modeCursor returns the character boundary nearest to target.
	modeCursor
)

// lineQuery describes one pass over the characters [start, end) of a
// line. end is the offset of the newline or the buffer length.
type lineQuery struct {
	mode       lineMode
	start, end int
	// b receives the draw calls of modeDraw and y is the top of the row.
	b backend.Backend
	y int
	// target is a content x for the hit modes.
	target float64
	// stop ends a measurement early at that character offset.
	stop int
}

// lineResult is the outcome of handleLine. width is the pen advance in
// modeMeasure and modeDraw; index is the absolute character offset found
// by the hit modes, which may equal the line end.
type lineResult struct {
	width float64
	index int
}

// segment is a run of characters sharing a style and selection mask, or
// a single tab. x and w are content coordinates.
type segment struct {
	start, end int
	text       string
	id         style.ID
	mask       selection.Mask
	x, w       float64
	tab        bool
}

// handleLine walks a line once, grouping characters into segments that
// a backend can draw with one call. Every mode shares the same pen so
// that drawing, measuring and hit-testing always agree.
func (d *Display) handleLine(m backend.Metrics, q lineQuery) lineResult {
	text := d.text.Range(q.start, q.end)
	ids := d.styles.Range(q.start, q.end)
	if q.mode != modeMeasure {
		q.stop = q.end
	}
	q.stop = min(max(q.stop, q.start), q.end)

	var segs []segment
	pen := 0.0
	i, bi := 0, 0
	for bi < len(text) && q.start+i < q.stop {
		id := style.ID(ids[i])
		mask := d.sel.Mask(q.start + i)
		r, size := utf8.DecodeRuneInString(text[bi:])

		if r == '\t' {
			next := d.tabs.Next(pen)
			seg := segment{start: q.start + i, end: q.start + i + 1, id: id, mask: mask, x: pen, w: next - pen, tab: true}
			switch q.mode {
			case modeHitTest:
				if q.target < next {
					return lineResult{index: seg.start}
				}
			case modeCursor:
				if q.target < (pen+next)/2 {
					return lineResult{index: seg.start}
				}
			case modeDraw:
				segs = append(segs, seg)
			}
			pen = next
			i++
			bi += size
			continue
		}

		j, bj := i+1, bi+size
		for bj < len(text) && q.start+j < q.stop {
			r2, s2 := utf8.DecodeRuneInString(text[bj:])
			if r2 == '\t' || ids[j] != ids[i] || d.sel.Mask(q.start+j) != mask {
				break
			}
			j++
			bj += s2
		}

		s := text[bi:bj]
		font := d.fontOf(id)
		w := m.Measure(s, font).Width
		switch q.mode {
		case modeHitTest, modeCursor:
			if q.target < pen+w {
				return lineResult{index: q.start + i + findX(m, s, font, pen, q)}
			}
		case modeDraw:
			segs = append(segs, segment{start: q.start + i, end: q.start + j, text: s, id: id, mask: mask, x: pen, w: w})
		}
		pen += w
		i, bi = j, bj
	}

	switch q.mode {
	case modeHitTest, modeCursor:
		return lineResult{index: q.end}
	case modeDraw:
		d.paintLine(q.b, q, segs, pen)
	}
	return lineResult{width: pen}
}

// findX returns the index within s of the character q.target falls on,
// or in modeCursor the nearest boundary. pen is where s starts.
func findX(m backend.Metrics, s string, f core.Font, pen float64, q lineQuery) int {
	prev := pen
	k := 0
	for off, r := range s {
		cx := pen + m.Measure(s[:off+utf8.RuneLen(r)], f).Width
		if q.mode == modeCursor {
			if q.target < (prev+cx)/2 {
				return k
			}
		} else if q.target < cx {
			return k
		}
		prev = cx
		k++
	}
	return k
}

// paintLine draws the segments of one row: every background first, then
// text and decorations, then the space after the last character.
func (d *Display) paintLine(b backend.Backend, q lineQuery, segs []segment, width float64) {
	lh := d.lineHeight
	for _, seg := range segs {
		_, bg := d.segmentColors(b, seg.id, seg.mask)
		x0, x1 := d.windowX(seg.x), d.windowX(seg.x+seg.w)
		b.SetColor(bg)
		b.FillRect(core.Rect{X: x0, Y: q.y, W: x1 - x0, H: lh})
	}

	for _, seg := range segs {
		if seg.tab {
			continue
		}
		fg, _ := d.segmentColors(b, seg.id, seg.mask)
		font := d.fontOf(seg.id)
		ext := b.Measure("", font)
		x0, x1 := d.windowX(seg.x), d.windowX(seg.x+seg.w)
		baseline := q.y + lh - ext.Descent

		b.SetFont(font)
		b.SetColor(fg)
		b.DrawText(seg.text, x0, baseline)

		e, ok := d.entry(seg.id)
		if !ok {
			continue
		}
		switch e.Attr.Decoration() {
		case core.AttrUnderline:
			b.DrawLine(x0, baseline+ext.Descent/2, x1, baseline+ext.Descent/2)
		case core.AttrGrammar:
			b.SetColor(d.decorationColor(b, d.colors.Grammar))
			b.DrawLine(x0, baseline+ext.Descent/2, x1, baseline+ext.Descent/2)
		case core.AttrSpelling:
			b.SetColor(d.decorationColor(b, d.colors.Spelling))
			b.DrawLine(x0, baseline+ext.Descent/2, x1, baseline+ext.Descent/2)
		case core.AttrStrikethrough:
			sy := baseline - (ext.Height-ext.Descent)/3
			b.DrawLine(x0, sy, x1, sy)
		}
	}

	// Clear to the right edge. A style that extends its background past
	// the line keeps coloring the rest of the row.
	area := d.view.Area()
	x := d.windowX(width)
	if x >= area.Right() {
		return
	}
	base := d.colors.Background
	if q.end > q.start {
		if e, ok := d.entry(d.styles.At(q.end - 1)); ok && e.Attr.ExtendsBackground() {
			base = e.Background
		}
	}
	b.SetColor(d.colors.Selection.Fill(b, base, d.sel.Mask(q.end)))
	b.FillRect(core.Rect{X: x, Y: q.y, W: area.Right() - x, H: lh})
}

// segmentColors returns the foreground and background of characters with
// style id under selection mask m.
func (d *Display) segmentColors(env selection.Env, id style.ID, m selection.Mask) (core.Color, core.Color) {
	fg, base := d.colors.Text, d.colors.Background
	e, styled := d.entry(id)
	if styled {
		fg = e.Foreground
		if e.Attr.HasBackground() {
			base = e.Background
		}
	}
	return d.colors.Selection.Resolve(env, fg, base, styled, m)
}

func (d *Display) decorationColor(env selection.Env, c core.Color) core.Color {
	if !env.IsActive() {
		return env.Inactive(c)
	}
	return c
}

// windowX converts a content x to a window pixel column.
func (d *Display) windowX(x float64) int {
	return d.view.WindowX(int(math.Round(x)))
}
