package backend

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/textview/internal/renderer/core"
)

// Terminal draws onto a tcell screen. One pixel is one cell, every font is
// one cell high with no descent, and text width is the display width of
// its grapheme clusters. Horizontal lines become underlines on the text row
// above them and vertical lines reverse the cells they cross.
type Terminal struct {
	ColorOps
	state

	screen tcell.Screen
	color  core.Color
	clips  []core.Rect
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Screen returns the wrapped screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Begin prepares a new frame: the native cursor is hidden until the
// renderer paints it again.
func (t *Terminal) Begin() {
	t.clips = t.clips[:0]
	t.screen.HideCursor()
}

// Show flushes the frame to the terminal.
func (t *Terminal) Show() {
	t.screen.Show()
}

func (t *Terminal) Measure(s string, _ core.Font) core.Extents {
	return core.Extents{Width: float64(uniseg.StringWidth(s)), Height: 1}
}

func (t *Terminal) SetColor(c core.Color) { t.color = c }
func (t *Terminal) SetFont(core.Font)     {}

func (t *Terminal) DrawText(s string, x, y int) {
	row := y - 1
	fg := toTcell(t.color)
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if t.visible(x, row) {
			style := t.styleAt(x, row).Foreground(fg)
			runes := g.Runes()
			t.screen.SetContent(x, row, runes[0], runes[1:], style)
		}
		x += w
	}
}

func (t *Terminal) FillRect(r core.Rect) {
	style := tcell.StyleDefault.Background(toTcell(t.color))
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if t.visible(x, y) {
				t.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}

func (t *Terminal) DrawLine(x1, y1, x2, y2 int) {
	switch {
	case y1 == y2:
		row := y1 - 1
		for x := min(x1, x2); x <= max(x1, x2); x++ {
			t.restyle(x, row, func(s tcell.Style) tcell.Style {
				return s.Underline(true)
			})
		}
	case x1 == x2:
		for y := min(y1, y2); y <= max(y1, y2); y++ {
			t.restyle(x1, y, func(s tcell.Style) tcell.Style {
				return s.Reverse(true)
			})
		}
	}
}

// PaintCaret implements CaretPainter with the terminal's own cursor.
func (t *Terminal) PaintCaret(x, y, _ int) {
	if t.visible(x, y) {
		t.screen.ShowCursor(x, y)
	}
}

func (t *Terminal) PushClip(r core.Rect) {
	if n := len(t.clips); n > 0 {
		r = r.Intersection(t.clips[n-1])
	}
	t.clips = append(t.clips, r)
}

func (t *Terminal) PopClip() {
	if len(t.clips) > 0 {
		t.clips = t.clips[:len(t.clips)-1]
	}
}

func (t *Terminal) visible(x, y int) bool {
	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	if n := len(t.clips); n > 0 {
		return t.clips[n-1].Contains(core.Point{X: x, Y: y})
	}
	return true
}

func (t *Terminal) styleAt(x, y int) tcell.Style {
	_, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return style
}

func (t *Terminal) restyle(x, y int, fn func(tcell.Style) tcell.Style) {
	if !t.visible(x, y) {
		return
	}
	mainc, combc, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	t.screen.SetContent(x, y, mainc, combc, fn(style))
}

func toTcell(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
